package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-project-evaluator/internal/config"
	"github.com/noah-isme/gema-project-evaluator/internal/handler"
	"github.com/noah-isme/gema-project-evaluator/internal/observability"
	"github.com/noah-isme/gema-project-evaluator/internal/service"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EvaluationHandler *handler.EvaluationHandler
	EvaluationService service.EvaluationService
	// EvaluationLimiter guards the routes that trigger an evaluation.
	EvaluationLimiter fiber.Handler
	ExposeMetrics     bool
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	limiter := deps.EvaluationLimiter
	if limiter == nil {
		limiter = func(c *fiber.Ctx) error { return c.Next() }
	}

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.EvaluationService))

	if deps.ExposeMetrics {
		app.Get("/metrics", observability.MetricsHandler())
	}

	if deps.EvaluationHandler != nil {
		deps.EvaluationHandler.RegisterAPI(api, limiter)
		deps.EvaluationHandler.RegisterPages(app, limiter)
	}
}
