package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/graderly/grader-api/internal/config"
	"github.com/graderly/grader-api/internal/handler"
	"github.com/graderly/grader-api/internal/observability"
	"github.com/graderly/grader-api/pkg/ai"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	PaperHandler      *handler.PaperHandler
	RubricHandler     *handler.RubricHandler
	PromptHandler     *handler.PromptHandler
	EvaluationHandler *handler.EvaluationHandler
	MetricsHandler    *handler.MetricsHandler
	Graders           *ai.Factory
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.Graders))

	if deps.PaperHandler != nil {
		deps.PaperHandler.Register(api.Group("/papers"))
	}
	if deps.RubricHandler != nil {
		deps.RubricHandler.Register(api.Group("/rubrics"))
	}
	if deps.PromptHandler != nil {
		deps.PromptHandler.Register(api.Group("/prompts"))
	}
	if deps.EvaluationHandler != nil {
		deps.EvaluationHandler.Register(api.Group("/evaluations"))
	}
	if deps.MetricsHandler != nil {
		deps.MetricsHandler.Register(api.Group("/metrics"))
	}
}
