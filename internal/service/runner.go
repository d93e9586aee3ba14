package service

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-project-evaluator/internal/config"
	"github.com/noah-isme/gema-project-evaluator/pkg/workflow"
)

// NewRunner selects the workflow runner for the configured provider. It
// returns nil for ProviderNone, which keeps every evaluation on the mock path.
func NewRunner(cfg config.Config, logger zerolog.Logger) workflow.Runner {
	switch cfg.Provider {
	case config.ProviderCoze:
		return workflow.NewCozeRunner(workflow.CozeConfig{
			BaseURL: cfg.CozeBaseURL,
			Timeout: cfg.RemoteTimeout,
			Logger:  logger,
		})
	case config.ProviderOpenAI:
		return workflow.NewOpenAIRunner(workflow.OpenAIConfig{
			HTTPClient: &http.Client{Timeout: cfg.RemoteTimeout},
			Logger:     logger,
		})
	default:
		return nil
	}
}
