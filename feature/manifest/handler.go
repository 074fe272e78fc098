package manifest

import (
	"errors"
	"strconv"

	"medialink/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for manifests.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the manifest routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/manifests", h.HandleList)
	app.Get("/manifest/:entry", h.HandleGet)
}

// HandleGet returns the published manifest of an entry.
// @Summary Get Manifest
// @Description Fetch the last manifest published for an organize entry.
// @Tags manifest
// @Produce json
// @Param entry path int true "Organize entry index"
// @Success 200 {object} manifest.Manifest "Manifest"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /manifest/{entry} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	entry, err := strconv.Atoi(c.Params("entry"))
	if err != nil || entry < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid entry"})
	}

	m, err := h.service.Get(c.Context(), entry)
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Manifest fetch failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(m)
}

// HandleList returns the keys of all published manifests.
// @Summary List Manifests
// @Description List the object keys of published manifests.
// @Tags manifest
// @Produce json
// @Success 200 {array} string "Object keys"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /manifests [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	names, err := h.service.List(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Manifest listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(names)
}
