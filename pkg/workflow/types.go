package workflow

import (
	"context"
	"encoding/json"
)

// EventKind is the type tag a remote workflow attaches to a streamed event.
type EventKind string

const (
	EventMessage   EventKind = "Message"
	EventError     EventKind = "Error"
	EventDone      EventKind = "Done"
	EventInterrupt EventKind = "Interrupt"
	EventPing      EventKind = "PING"
)

// Credentials identify the caller and the workflow to run.
type Credentials struct {
	APIToken   string
	WorkflowID string
}

// Complete reports whether both values are present.
func (c Credentials) Complete() bool {
	return c.APIToken != "" && c.WorkflowID != ""
}

// Message is the chat message part of a streamed event.
type Message struct {
	Content   string `json:"content"`
	NodeTitle string `json:"node_title,omitempty"`
}

// Event is one unit emitted by a streaming workflow run. Any of Message, Content
// and Output may be set; none of them is guaranteed.
type Event struct {
	ID      string
	Kind    EventKind
	Message *Message
	Content *string
	Output  any
	Raw     json.RawMessage
}

// WorkflowData exposes the structured output of the event as its data
// attribute. ok is false when the event carries no output.
func (e Event) WorkflowData() (any, bool) {
	if e.Output == nil {
		return nil, false
	}
	return e.Output, true
}

// MarshalJSON encodes the event as the payload it was received with.
func (e Event) MarshalJSON() ([]byte, error) {
	if len(e.Raw) == 0 {
		return []byte("null"), nil
	}
	return e.Raw, nil
}

// Stream yields events of a running workflow. Next returns io.EOF once the
// run has finished.
type Stream interface {
	Next() (Event, error)
	Close() error
}

// Runner starts streaming workflow executions against a remote service.
type Runner interface {
	Name() string
	Stream(ctx context.Context, creds Credentials, parameters map[string]any) (Stream, error)
}
