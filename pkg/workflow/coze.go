package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/coze-dev/coze-go"
	"github.com/rs/zerolog"
)

// CozeCNBaseURL is the API endpoint of the coze.cn deployment.
const CozeCNBaseURL = coze.CnBaseURL

// ErrMissingCredentials indicates the token or workflow id was not supplied.
var ErrMissingCredentials = errors.New("workflow credentials are incomplete")

// StreamError is an Error event emitted by the workflow while running.
type StreamError struct {
	Code    int
	Message string
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("workflow error event (code %d): %s", e.Code, e.Message)
}

// CozeConfig configures the Coze workflow runner.
type CozeConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// CozeRunner runs Coze workflows through the streaming run endpoint.
type CozeRunner struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewCozeRunner builds a runner. The HTTP client is shared between calls; the
// token travels with each call.
func NewCozeRunner(cfg CozeConfig) *CozeRunner {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = CozeCNBaseURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &CozeRunner{
		baseURL: baseURL,
		client:  client,
		logger:  cfg.Logger.With().Str("component", "coze_runner").Logger(),
	}
}

// Name identifies the provider in banners and metrics.
func (r *CozeRunner) Name() string {
	return "Coze"
}

// Stream starts a workflow run and returns its event stream.
func (r *CozeRunner) Stream(ctx context.Context, creds Credentials, parameters map[string]any) (Stream, error) {
	if !creds.Complete() {
		return nil, ErrMissingCredentials
	}

	api := coze.NewCozeAPI(
		coze.NewTokenAuth(creds.APIToken),
		coze.WithBaseURL(r.baseURL),
		coze.WithHttpClient(r.client),
	)

	resp, err := api.Workflows.Runs.Stream(ctx, &coze.RunWorkflowsReq{
		WorkflowID: creds.WorkflowID,
		Parameters: parameters,
	})
	if err != nil {
		return nil, fmt.Errorf("coze stream run: %w", err)
	}

	r.logger.Debug().Str("workflow_id", creds.WorkflowID).Msg("workflow stream opened")
	return &cozeStream{events: resp}, nil
}

type cozeEvents interface {
	Recv() (*coze.WorkflowEvent, error)
	Close() error
}

type cozeStream struct {
	events cozeEvents
	done   bool
}

// Next maps SDK events onto Event. PING frames are skipped, an Error event
// ends the stream with a *StreamError and Done is the last event returned.
func (s *cozeStream) Next() (Event, error) {
	for {
		if s.done {
			return Event{}, io.EOF
		}

		received, err := s.events.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.done = true
			}
			return Event{}, err
		}
		if received == nil {
			continue
		}

		kind := EventKind(received.Event)
		if kind == EventPing {
			continue
		}

		event := Event{ID: fmt.Sprint(received.ID), Kind: kind}
		if raw, err := json.Marshal(received); err == nil {
			event.Raw = raw
		}

		switch kind {
		case EventError:
			s.done = true
			streamErr := &StreamError{Message: "unknown workflow error"}
			if received.Error != nil {
				streamErr.Code = received.Error.ErrorCode
				streamErr.Message = received.Error.ErrorMessage
			}
			return Event{}, streamErr
		case EventDone:
			s.done = true
			return event, nil
		case EventMessage:
			if received.Message != nil {
				event.Message = &Message{
					Content:   received.Message.Content,
					NodeTitle: received.Message.NodeTitle,
				}
			}
			return event, nil
		default:
			return event, nil
		}
	}
}

func (s *cozeStream) Close() error {
	return s.events.Close()
}
