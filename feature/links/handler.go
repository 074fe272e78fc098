package links

import (
	"errors"
	"strconv"

	"medialink/core/logger"
	"medialink/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for links and passes.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the links routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/links")
	group.Get("/", h.HandleList)
	group.Get("/origin", h.HandleByOrigin)
	group.Get("/destination", h.HandleByDestination)

	app.Post("/organize", h.HandleOrganize)
	app.Post("/organize/:entry", h.HandleOrganize)
}

// OrganizeResponse is returned by the organize endpoints.
type OrganizeResponse struct {
	Summary reconcile.Summary       `json:"summary"`
	Results []*reconcile.PassResult `json:"results"`
	Error   string                  `json:"error,omitempty"`
}

// HandleList returns registry records.
// @Summary List Links
// @Description List the registry records, sorted by destination.
// @Tags links
// @Produce json
// @Param entry query int false "Organize entry index"
// @Success 200 {array} reconcile.LinkRecord "Records"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Unknown entry"
// @Router /links [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	entry, err := parseEntry(c.Query("entry"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	records, err := h.service.List(entry)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if records == nil {
		records = []reconcile.LinkRecord{}
	}
	return c.JSON(records)
}

// HandleByOrigin returns the records pointing at a source file.
// @Summary Find Links By Origin
// @Description Find every destination that links to the given source file.
// @Tags links
// @Produce json
// @Param path query string true "Origin path"
// @Success 200 {array} reconcile.LinkRecord "Records"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /links/origin [get]
func (h *Handler) HandleByOrigin(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path is required"})
	}
	records := h.service.ByOrigin(path)
	if records == nil {
		records = []reconcile.LinkRecord{}
	}
	return c.JSON(records)
}

// HandleByDestination returns the record of a destination path.
// @Summary Find Link By Destination
// @Description Fetch the registry record stored under a destination path.
// @Tags links
// @Produce json
// @Param path query string true "Destination path"
// @Success 200 {object} reconcile.LinkRecord "Record"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /links/destination [get]
func (h *Handler) HandleByDestination(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path is required"})
	}
	rec, ok := h.service.ByDestination(path)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "link not found"})
	}
	return c.JSON(rec)
}

// HandleOrganize triggers a reconciliation pass.
// @Summary Run Organize Pass
// @Description Runs a full pass over one entry, or over all entries when no entry is given.
// @Tags links
// @Produce json
// @Param entry path int false "Organize entry index"
// @Param dry_run query boolean false "Plan without touching the filesystem"
// @Success 200 {object} links.OrganizeResponse "Pass results"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Unknown entry"
// @Failure 409 {object} map[string]string "Pass already running"
// @Failure 500 {object} links.OrganizeResponse "Pass failed"
// @Router /organize [post]
// @Router /organize/{entry} [post]
func (h *Handler) HandleOrganize(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	entry, err := parseEntry(c.Params("entry"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	opts := reconcile.PassOptions{DryRun: c.QueryBool("dry_run")}

	l.Info("Triggering organize pass", zap.Bool("dry_run", opts.DryRun))
	results, err := h.service.Organize(c.UserContext(), entry, opts)
	switch {
	case errors.Is(err, ErrBusy):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrUnknownEntry):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	resp := OrganizeResponse{Summary: reconcile.Summarize(results), Results: results}
	if resp.Results == nil {
		resp.Results = []*reconcile.PassResult{}
	}
	if err != nil {
		l.Error("Organize pass failed", zap.Error(err))
		resp.Error = err.Error()
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}

	l.Info("Organize pass completed",
		zap.Int("created", resp.Summary.Created),
		zap.Int("overridden", resp.Summary.Overridden))
	return c.JSON(resp)
}

func parseEntry(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, errors.New("invalid entry")
	}
	return &n, nil
}
