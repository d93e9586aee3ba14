package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "project_evaluator",
		Subsystem: "workflow",
		Name:      "run_duration_seconds",
		Help:      "Duration of streamed workflow runs until the stream is drained",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
	}, []string{"provider"})

	runFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "project_evaluator",
		Subsystem: "workflow",
		Name:      "run_failures_total",
		Help:      "Number of workflow runs that failed to start or broke mid-stream",
	}, []string{"provider"})

	streamEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "project_evaluator",
		Subsystem: "workflow",
		Name:      "stream_events_total",
		Help:      "Streamed workflow events by the field text was taken from",
	}, []string{"provider", "source"})
)

var tracer trace.Tracer = otel.Tracer("github.com/noah-isme/gema-project-evaluator/pkg/workflow")

// Extractor pulls text out of an event. ok is false when the event does not
// carry the field the extractor looks for.
type Extractor struct {
	Name    string
	Extract func(Event) (text string, ok bool)
}

// Extractors are tried in order; the first match wins.
var Extractors = []Extractor{
	{Name: "message", Extract: func(e Event) (string, bool) {
		if e.Message == nil {
			return "", false
		}
		return e.Message.Content, true
	}},
	{Name: "content", Extract: func(e Event) (string, bool) {
		if e.Content == nil {
			return "", false
		}
		return *e.Content, true
	}},
	{Name: "output", Extract: func(e Event) (string, bool) {
		if e.Output == nil {
			return "", false
		}
		return stringify(e.Output), true
	}},
}

// EventText applies the extractors to one event. source is empty when no
// extractor matched; such events contribute nothing.
func EventText(event Event) (text string, source string) {
	for _, extractor := range Extractors {
		if value, ok := extractor.Extract(event); ok {
			return value, extractor.Name
		}
	}
	return "", ""
}

// Result is the aggregate of a drained stream.
type Result struct {
	// Text holds every extracted fragment followed by a newline, in order.
	Text string
	// Last is the final event received, used when Text is empty.
	Last *Event
	// Events counts every event received, matched or not.
	Events int
	// Matched counts events that contributed text.
	Matched int
}

// Payload is what markdown extraction should run on.
func (r Result) Payload() any {
	if r.Text != "" {
		return r.Text
	}
	if r.Last == nil {
		return ""
	}
	return *r.Last
}

// Collect drains the stream. It stops at io.EOF and returns any other error
// together with what was aggregated so far.
func Collect(stream Stream) (Result, error) {
	return collect(stream, func(string) {})
}

func collect(stream Stream, observe func(source string)) (Result, error) {
	var (
		result  Result
		builder strings.Builder
	)

	for {
		event, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.Text = builder.String()
			return result, err
		}

		result.Events++
		last := event
		result.Last = &last

		text, source := EventText(event)
		if source == "" {
			observe("none")
			continue
		}
		observe(source)
		result.Matched++
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	result.Text = builder.String()
	return result, nil
}

// Run starts a workflow on runner and drains its stream, recording metrics and
// a trace span for the whole run.
func Run(parent context.Context, runner Runner, creds Credentials, parameters map[string]any) (Result, error) {
	provider := runner.Name()
	ctx, span := tracer.Start(parent, "workflow.run", trace.WithAttributes(
		attribute.String("workflow.provider", provider),
		attribute.String("workflow.id", creds.WorkflowID),
	))
	defer span.End()

	start := time.Now()
	fail := func(err error) error {
		runFailures.WithLabelValues(provider).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	stream, err := runner.Stream(ctx, creds, parameters)
	if err != nil {
		runDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
		return Result{}, fail(err)
	}
	defer stream.Close()

	result, err := collect(stream, func(source string) {
		streamEvents.WithLabelValues(provider, source).Inc()
	})
	runDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	span.SetAttributes(
		attribute.Int("workflow.events", result.Events),
		attribute.Int("workflow.matched_events", result.Matched),
	)
	if err != nil {
		return result, fail(fmt.Errorf("drain %s stream: %w", provider, err))
	}

	return result, nil
}
