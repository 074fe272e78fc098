package journal

import (
	"medialink/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the journal.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the journal routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/journal", h.HandleList)
}

// HandleList returns recent journal rows.
// @Summary List Journal
// @Description List link journal rows, newest first.
// @Tags journal
// @Produce json
// @Param destination query string false "Destination path"
// @Param entry query int false "Organize entry index"
// @Param limit query int false "Maximum rows (default 100)"
// @Success 200 {array} journal.LinkEvent "Journal rows"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /journal [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	filter := Filter{
		Destination: c.Query("destination"),
		Limit:       c.QueryInt("limit", defaultLimit),
	}
	if raw := c.Query("entry"); raw != "" {
		entry := c.QueryInt("entry", -1)
		if entry < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid entry"})
		}
		filter.Entry = &entry
	}

	events, err := h.service.List(c.Context(), filter)
	if err != nil {
		l.Error("Journal listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(events)
}
