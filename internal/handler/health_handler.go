package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-project-evaluator/internal/config"
	"github.com/noah-isme/gema-project-evaluator/internal/dto"
	"github.com/noah-isme/gema-project-evaluator/internal/service"
	"github.com/noah-isme/gema-project-evaluator/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string           `json:"status"`
	Timestamp   time.Time        `json:"timestamp"`
	Service     string           `json:"service"`
	Environment string           `json:"environment"`
	Mode        dto.ModeResponse `json:"mode"`
}

// HealthCheck returns a handler that reports application health and whether
// evaluations currently reach the remote workflow.
func HealthCheck(cfg config.Config, evaluations service.EvaluationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
		}
		if evaluations != nil {
			payload.Mode = modeResponse(evaluations.Mode())
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
