package integrity

import (
	"errors"
	"strconv"

	"medialink/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/targets", h.HandleTargetsCheck)
	group.Get("/links", h.HandleLinksCheck)
	group.Get("/journal", h.HandleJournalCheck)
	group.Get("/manifests", h.HandleManifestsCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs all available integrity checks (Targets, Links, Journal, Manifests). Nothing is repaired.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	return c.JSON(h.service.RunAll(c.Context()))
}

// HandleTargetsCheck checks and optionally creates target directories.
// @Summary Check Target Directories
// @Description Checks if the target directory of every enabled entry exists. Optionally creates missing ones.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create missing directories"
// @Success 200 {object} map[string]interface{} "Targets Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/targets [get]
func (h *Handler) HandleTargetsCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.QueryBool("fix")

	missing, err := h.service.CheckTargets()
	if err != nil {
		l.Error("Targets check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(missing) > 0 {
		l.Warn("Missing target directories detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to create missing target directories")
			if err := h.service.FixTargets(missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to create target directories",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleLinksCheck checks and optionally repairs materialized links.
// @Summary Check Links
// @Description Compares every registry record with the link on disk. Optionally re-creates broken links and prunes records whose origin is gone.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Repair problems"
// @Param entry query int false "Restrict to one organize entry"
// @Success 200 {object} map[string]interface{} "Links Report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/links [get]
func (h *Handler) HandleLinksCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.QueryBool("fix")

	var entry *int
	if raw := c.Query("entry"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid entry"})
		}
		entry = &n
	}

	report, err := h.service.CheckLinks(c.Context(), entry)
	if err != nil {
		l.Error("Links check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(report.Problems) > 0 {
		l.Warn("Broken links detected", zap.Int("problems", len(report.Problems)))

		if fix {
			l.Info("Attempting to repair links")
			res := h.service.RepairLinks(report)
			return c.JSON(fiber.Map{
				"status": "fixed",
				"report": report,
				"repair": res,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status": "checked",
		"report": report,
	})
}

// HandleJournalCheck checks the journal table schema.
// @Summary Check Journal Schema
// @Description Checks if the journal table carries every expected column.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Journal Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 503 {object} map[string]string "Database not configured"
// @Router /integrity/journal [get]
func (h *Handler) HandleJournalCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	missing, err := h.service.CheckJournal()
	if err != nil {
		return h.fail(c, l, "Journal check failed", err)
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleManifestsCheck compares published manifests with the entries.
// @Summary Check Manifests
// @Description Reports entries without a published manifest and manifests of removed entries.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.ManifestReport "Manifest Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 503 {object} map[string]string "Storage not configured"
// @Router /integrity/manifests [get]
func (h *Handler) HandleManifestsCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckManifests(c.Context())
	if err != nil {
		return h.fail(c, l, "Manifests check failed", err)
	}

	return c.JSON(report)
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	if errors.Is(err, ErrUnavailable) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	l.Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
