package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/gema-project-evaluator/internal/events"
	"github.com/noah-isme/gema-project-evaluator/internal/middleware"
	"github.com/noah-isme/gema-project-evaluator/internal/models"
	"github.com/noah-isme/gema-project-evaluator/internal/observability"
)

// Mode describes which path produced an evaluation.
type Mode string

const (
	// ModeRemote means the report came from the remote workflow.
	ModeRemote Mode = "remote"
	// ModeMock means the remote path was not configured.
	ModeMock Mode = "mock"
	// ModeFallback means the remote path failed and the mock was used.
	ModeFallback Mode = "fallback"
)

// Evaluation is the displayable result of one request.
type Evaluation struct {
	Markdown string
	Mode     Mode
	Provider string
	// Cause is nil on a clean remote run. Otherwise it is ErrRemoteUnavailable,
	// ErrConfigurationMissing, a *RemoteInvocationError or a
	// *workflow.ExtractionError.
	Cause error
}

// ModeStatus reports whether evaluations currently go to the remote workflow.
type ModeStatus struct {
	Remote   bool
	Provider string
	Reason   error
}

// EvaluationService is the single entry point for the presentation layer.
type EvaluationService interface {
	Evaluate(ctx context.Context, req models.EvaluationRequest) Evaluation
	Mode() ModeStatus
}

type evaluationService struct {
	remote    *RemoteEvaluator
	publisher events.Publisher
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewEvaluationService builds the dispatcher. A nil publisher drops events.
func NewEvaluationService(remote *RemoteEvaluator, publisher events.Publisher, logger zerolog.Logger) EvaluationService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	return &evaluationService{
		remote:    remote,
		publisher: publisher,
		logger:    logger.With().Str("component", "evaluation_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/gema-project-evaluator/internal/service/evaluation"),
		now:       time.Now,
	}
}

// ErrorBanner is the line prepended to the mock report when the remote run fails.
func ErrorBanner(provider string, err error) string {
	var invocation *RemoteInvocationError
	if errors.As(err, &invocation) {
		err = invocation.Err
	}
	return fmt.Sprintf("❌ %s工作流错误：%v", provider, err)
}

func (s *evaluationService) Evaluate(ctx context.Context, req models.EvaluationRequest) Evaluation {
	ctx, span := s.tracer.Start(ctx, "evaluation.evaluate", trace.WithAttributes(
		attribute.String("project.field", string(req.ProjectField)),
		attribute.String("student.level", string(req.StudentLevel)),
	))
	defer span.End()

	start := s.now()
	provider := s.remote.Provider()
	logger := s.logger.With().Str("correlation_id", middleware.CorrelationIDFromContext(ctx)).Logger()

	var evaluation Evaluation
	result, err := s.remote.Evaluate(ctx, req)
	switch {
	case errors.Is(err, ErrRemoteUnavailable), errors.Is(err, ErrConfigurationMissing):
		logger.Debug().Err(err).Msg("serving mock evaluation")
		evaluation = Evaluation{Markdown: EvaluateMock(req), Mode: ModeMock, Cause: err}
	case err != nil:
		logger.Warn().Err(err).Str("provider", provider).Msg("remote evaluation failed, falling back to mock")
		span.RecordError(err)
		span.SetStatus(codes.Error, "remote evaluation failed")
		evaluation = Evaluation{
			Markdown: ErrorBanner(provider, err) + "\n\n" + EvaluateMock(req),
			Mode:     ModeFallback,
			Provider: provider,
			Cause:    err,
		}
	default:
		evaluation = Evaluation{
			Markdown: result.Markdown,
			Mode:     ModeRemote,
			Provider: provider,
			Cause:    result.ExtractionErr,
		}
	}

	duration := s.now().Sub(start)
	span.SetAttributes(attribute.String("evaluation.mode", string(evaluation.Mode)))
	observability.Evaluations().WithLabelValues(string(evaluation.Mode), evaluation.Provider).Inc()
	observability.EvaluationDuration().WithLabelValues(string(evaluation.Mode)).Observe(duration.Seconds())

	s.publish(ctx, logger, req, evaluation, duration)

	logger.Info().
		Str("mode", string(evaluation.Mode)).
		Str("provider", evaluation.Provider).
		Dur("duration", duration).
		Msg("evaluation served")

	return evaluation
}

func (s *evaluationService) publish(ctx context.Context, logger zerolog.Logger, req models.EvaluationRequest, evaluation Evaluation, duration time.Duration) {
	event := events.EvaluationCompleted{
		ID:            uuid.NewString(),
		CorrelationID: middleware.CorrelationIDFromContext(ctx),
		Mode:          string(evaluation.Mode),
		Provider:      evaluation.Provider,
		ProjectField:  string(req.ProjectField),
		StudentLevel:  string(req.StudentLevel),
		Materials:     len(req.SubmissionMaterials),
		DurationMs:    duration.Milliseconds(),
		CompletedAt:   s.now().UTC(),
	}
	if evaluation.Mode == ModeFallback && evaluation.Cause != nil {
		event.Error = evaluation.Cause.Error()
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn().Err(err).Msg("failed to publish evaluation event")
	}
}

func (s *evaluationService) Mode() ModeStatus {
	err := s.remote.Available()
	return ModeStatus{
		Remote:   err == nil,
		Provider: s.remote.Provider(),
		Reason:   err,
	}
}
