package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// EvaluationCompleted announces that an evaluation was served. It carries
// request metadata only; the project text and report are never published.
type EvaluationCompleted struct {
	ID            string    `json:"id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Mode          string    `json:"mode"`
	Provider      string    `json:"provider,omitempty"`
	ProjectField  string    `json:"project_field"`
	StudentLevel  string    `json:"student_level"`
	Materials     int       `json:"materials"`
	Error         string    `json:"error,omitempty"`
	DurationMs    int64     `json:"duration_ms"`
	CompletedAt   time.Time `json:"completed_at"`
}

// Publisher delivers evaluation events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event EvaluationCompleted) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, EvaluationCompleted) error {
	return nil
}

type msgPublisher interface {
	PublishMsg(msg *nats.Msg) error
}

// NATSPublisher publishes events as JSON on a NATS subject.
type NATSPublisher struct {
	conn    msgPublisher
	subject string
}

// NewNATSPublisher builds a publisher on an established connection.
func NewNATSPublisher(conn *nats.Conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: subject}
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(ctx context.Context, event EvaluationCompleted) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode evaluation event: %w", err)
	}

	msg := nats.NewMsg(p.subject)
	msg.Data = payload
	msg.Header.Set("Content-Type", "application/json")
	if event.CorrelationID != "" {
		msg.Header.Set("X-Correlation-ID", event.CorrelationID)
	}

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish evaluation event: %w", err)
	}
	return nil
}

// Connect opens a NATS connection that keeps reconnecting in the background.
func Connect(url string, logger zerolog.Logger) (*nats.Conn, error) {
	if url == "" {
		return nil, fmt.Errorf("nats url must not be empty")
	}

	log := logger.With().Str("component", "nats").Logger()
	conn, err := nats.Connect(url,
		nats.Name("project-evaluator"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			log.Info().Str("url", conn.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to nats: %w", err)
	}
	return conn, nil
}
