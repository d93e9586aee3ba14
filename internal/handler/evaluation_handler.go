package handler

import (
	"bytes"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-project-evaluator/internal/dto"
	"github.com/noah-isme/gema-project-evaluator/internal/models"
	"github.com/noah-isme/gema-project-evaluator/internal/service"
	"github.com/noah-isme/gema-project-evaluator/internal/utils"
	"github.com/noah-isme/gema-project-evaluator/internal/view"
)

// EvaluationHandler serves the evaluation form page and the JSON evaluation API.
type EvaluationHandler struct {
	service   service.EvaluationService
	validator *validator.Validate
	renderer  *view.MarkdownRenderer
	page      *view.Page
	title     string
	logger    zerolog.Logger
}

// NewEvaluationHandler constructs the handler.
func NewEvaluationHandler(service service.EvaluationService, validator *validator.Validate, renderer *view.MarkdownRenderer, page *view.Page, title string, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service:   service,
		validator: validator,
		renderer:  renderer,
		page:      page,
		title:     title,
		logger:    logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// RegisterPages wires the HTML form routes. guards run before every evaluation.
func (h *EvaluationHandler) RegisterPages(router fiber.Router, guards ...fiber.Handler) {
	router.Get("/", h.index)
	router.Post("/evaluate", append(guards, h.submit)...)
}

// RegisterAPI wires the JSON routes. guards run before every evaluation.
func (h *EvaluationHandler) RegisterAPI(router fiber.Router, guards ...fiber.Handler) {
	router.Get("/options", h.options)
	router.Post("/evaluations", append(guards, h.evaluate)...)
}

func (h *EvaluationHandler) index(c *fiber.Ctx) error {
	form := models.DefaultEvaluationRequest()
	if c.Query("example") != "" {
		form = models.ExampleEvaluationRequest()
	}

	return h.renderPage(c, fiber.StatusOK, view.PageData{Form: dto.NewEvaluationRequest(form)})
}

func (h *EvaluationHandler) submit(c *fiber.Ctx) error {
	logger := requestLogger(h.logger, c)

	var payload dto.EvaluationRequest
	if err := c.BodyParser(&payload); err != nil {
		return h.renderPage(c, fiber.StatusBadRequest, view.PageData{
			Form:   dto.NewEvaluationRequest(models.DefaultEvaluationRequest()),
			Errors: []string{"invalid form submission"},
		})
	}

	if err := h.validator.Struct(payload); err != nil {
		return h.renderPage(c, fiber.StatusBadRequest, view.PageData{
			Form:   payload,
			Errors: validationMessages(err),
		})
	}

	evaluation := h.service.Evaluate(c.UserContext(), payload.ToModel())

	return h.renderPage(c, fiber.StatusOK, view.PageData{
		Form:      payload,
		Report:    renderReport(h.renderer, logger, evaluation.Markdown),
		HasReport: true,
	})
}

func (h *EvaluationHandler) evaluate(c *fiber.Ctx) error {
	var payload dto.EvaluationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(payload); err != nil {
		return h.handleError(c, err)
	}

	evaluation := h.service.Evaluate(c.UserContext(), payload.ToModel())
	response := dto.EvaluationResponse{
		Markdown: evaluation.Markdown,
		HTML:     string(renderReport(h.renderer, requestLogger(h.logger, c), evaluation.Markdown)),
		Mode:     string(evaluation.Mode),
		Provider: evaluation.Provider,
	}

	return utils.SendSuccess(c, "evaluation completed", response)
}

func (h *EvaluationHandler) options(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "options retrieved", dto.NewOptionsResponse(modeResponse(h.service.Mode())))
}

func (h *EvaluationHandler) renderPage(c *fiber.Ctx, status int, data view.PageData) error {
	data.Title = h.title
	data.Mode = modeResponse(h.service.Mode())
	data.Options = dto.NewOptionsResponse(data.Mode)

	var buf bytes.Buffer
	if err := h.page.Render(&buf, data); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("page rendering failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendHTML(c, status, buf.Bytes())
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, strings.Join(validationMessages(err), "; "))
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("evaluation request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
