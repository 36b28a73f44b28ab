package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/graderly/grader-api/internal/service"
	"github.com/graderly/grader-api/internal/utils"
)

// MetricsHandler exposes the grading accuracy endpoint.
type MetricsHandler struct {
	service service.MetricsService
	logger  zerolog.Logger
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(service service.MetricsService, logger zerolog.Logger) *MetricsHandler {
	return &MetricsHandler{
		service: service,
		logger:  logger.With().Str("component", "metrics_handler").Logger(),
	}
}

// Register wires metrics routes.
func (h *MetricsHandler) Register(router fiber.Router) {
	router.Get("/accuracy", h.accuracy)
}

func (h *MetricsHandler) accuracy(c *fiber.Ctx) error {
	metrics, err := h.service.Accuracy(c.Context())
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "accuracy metrics retrieved", metrics)
}
