package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-project-evaluator/internal/config"
	"github.com/noah-isme/gema-project-evaluator/internal/models"
	"github.com/noah-isme/gema-project-evaluator/pkg/workflow"
)

// ErrRemoteUnavailable indicates no remote runner was configured at startup.
var ErrRemoteUnavailable = errors.New("remote evaluator unavailable")

// ErrConfigurationMissing indicates the api token or workflow id is not set.
var ErrConfigurationMissing = errors.New("remote credentials not configured")

// RemoteInvocationError wraps any failure while running the remote workflow.
type RemoteInvocationError struct {
	Provider string
	Err      error
}

func (e *RemoteInvocationError) Error() string {
	return fmt.Sprintf("%s workflow: %v", e.Provider, e.Err)
}

func (e *RemoteInvocationError) Unwrap() error {
	return e.Err
}

// RemoteResult is the outcome of a successful remote run.
type RemoteResult struct {
	Markdown string
	// ExtractionErr is set when the answer had an unexpected shape and was
	// stringified instead of unwrapped.
	ExtractionErr error
}

// RemoteEvaluator sends evaluation requests to a remote workflow runner.
type RemoteEvaluator struct {
	runner      workflow.Runner
	credentials config.CredentialSource
	logger      zerolog.Logger
}

// NewRemoteEvaluator constructs the remote client. A nil runner means the
// remote path is disabled for the lifetime of the process.
func NewRemoteEvaluator(runner workflow.Runner, credentials config.CredentialSource, logger zerolog.Logger) *RemoteEvaluator {
	return &RemoteEvaluator{
		runner:      runner,
		credentials: credentials,
		logger:      logger.With().Str("component", "remote_evaluator").Logger(),
	}
}

// Provider returns the runner name, or an empty string when disabled.
func (e *RemoteEvaluator) Provider() string {
	if e == nil || e.runner == nil {
		return ""
	}
	return e.runner.Name()
}

// Available reports why the remote path cannot be used, or nil when it can.
func (e *RemoteEvaluator) Available() error {
	_, err := e.resolve()
	return err
}

func (e *RemoteEvaluator) resolve() (workflow.Credentials, error) {
	if e == nil || e.runner == nil || e.credentials == nil {
		return workflow.Credentials{}, ErrRemoteUnavailable
	}
	creds := e.credentials.Credentials()
	if !creds.Complete() {
		return workflow.Credentials{}, ErrConfigurationMissing
	}
	return creds, nil
}

// Evaluate runs the workflow for req and extracts the Markdown answer.
func (e *RemoteEvaluator) Evaluate(ctx context.Context, req models.EvaluationRequest) (RemoteResult, error) {
	creds, err := e.resolve()
	if err != nil {
		return RemoteResult{}, err
	}

	result, err := workflow.Run(ctx, e.runner, creds, BuildParameters(req))
	if err != nil {
		return RemoteResult{}, &RemoteInvocationError{Provider: e.runner.Name(), Err: err}
	}

	markdown, extractErr := workflow.Extract(result.Payload())
	if extractErr != nil {
		e.logger.Warn().Err(extractErr).Int("events", result.Events).Msg("workflow answer had an unexpected shape")
	}

	e.logger.Debug().
		Int("events", result.Events).
		Int("matched_events", result.Matched).
		Msg("workflow stream drained")

	return RemoteResult{Markdown: markdown, ExtractionErr: extractErr}, nil
}

// BuildParameters maps a request onto the workflow's input variables. Enum
// values are sent as their display labels.
func BuildParameters(req models.EvaluationRequest) map[string]any {
	return map[string]any{
		"project_name":         req.ProjectName,
		"project_description":  req.ProjectDescription,
		"project_field":        req.ProjectField.Label(),
		"student_level":        req.StudentLevel.Label(),
		"submission_materials": req.MaterialLabels(),
	}
}
