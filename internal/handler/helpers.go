package handler

import (
	"errors"
	"fmt"
	"html/template"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-project-evaluator/internal/dto"
	"github.com/noah-isme/gema-project-evaluator/internal/middleware"
	"github.com/noah-isme/gema-project-evaluator/internal/service"
	"github.com/noah-isme/gema-project-evaluator/internal/view"
)

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// validationMessages flattens validator errors into one line per field.
func validationMessages(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fieldErr.Field()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s: unsupported value %q", fieldErr.Field(), fmt.Sprint(fieldErr.Value())))
		default:
			messages = append(messages, fieldErr.Error())
		}
	}
	return messages
}

func modeResponse(status service.ModeStatus) dto.ModeResponse {
	response := dto.ModeResponse{Remote: status.Remote, Provider: status.Provider}
	switch {
	case status.Reason == nil:
	case errors.Is(status.Reason, service.ErrRemoteUnavailable):
		response.Reason = "未启用远程工作流"
	case errors.Is(status.Reason, service.ErrConfigurationMissing):
		response.Reason = "未配置API Token或工作流ID"
	default:
		response.Reason = status.Reason.Error()
	}
	return response
}

// renderReport converts Markdown to safe HTML, degrading to an escaped
// preformatted block when rendering fails.
func renderReport(renderer *view.MarkdownRenderer, logger *zerolog.Logger, markdown string) template.HTML {
	rendered, err := renderer.Render(markdown)
	if err != nil {
		logger.Warn().Err(err).Msg("markdown rendering failed")
		return template.HTML("<pre>" + template.HTMLEscapeString(markdown) + "</pre>")
	}
	return template.HTML(rendered)
}
