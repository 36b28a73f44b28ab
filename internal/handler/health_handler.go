package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/graderly/grader-api/internal/config"
	"github.com/graderly/grader-api/internal/utils"
	"github.com/graderly/grader-api/pkg/ai"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	Provider    string    `json:"provider"`
}

// HealthCheck returns a handler that reports application health and the
// grading provider a request without an override would use.
func HealthCheck(cfg config.Config, graders *ai.Factory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Provider:    graders.ActiveProvider(),
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
