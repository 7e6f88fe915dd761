package report

import (
	"errors"

	"game-warehouse/core/logger"
	"game-warehouse/feature/normalize"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for snapshot reports.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the snapshot routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/snapshot")
	group.Get("/summary", h.HandleSummary)
	group.Get("/dimensions/:type", h.HandleDimension)
}

// HandleSummary returns counts and data-quality counters for the latest
// snapshot.
func (h *Handler) HandleSummary(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	summary, err := h.service.Summary()
	if errors.Is(err, normalize.ErrCacheMiss) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no snapshot has been built yet",
		})
	}
	if err != nil {
		l.Error("failed to load snapshot summary", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(summary)
}

// HandleDimension returns one dimension table from the latest snapshot.
func (h *Handler) HandleDimension(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	name := c.Params("type")

	rows, ok, err := h.service.Dimension(name)
	if errors.Is(err, normalize.ErrCacheMiss) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no snapshot has been built yet",
		})
	}
	if err != nil {
		l.Error("failed to load dimension table", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown dimension: " + name,
		})
	}
	return c.JSON(fiber.Map{
		"dimension": name,
		"rows":      rows,
	})
}
