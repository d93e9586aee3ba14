package workflow

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errNotObject = errors.New("payload is not a keyed document")

// DataCarrier is implemented by structured payloads that expose a data
// attribute directly. It is consulted before any key lookup.
type DataCarrier interface {
	WorkflowData() (data any, ok bool)
}

// ExtractionError reports that a payload had an unexpected shape. The text
// returned alongside it is the stringified payload.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract markdown: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ExtractMarkdown returns the Markdown answer carried by payload. It never
// fails: unexpected shapes degrade to the stringified payload.
func ExtractMarkdown(payload any) string {
	text, _ := Extract(payload)
	return text
}

// Extract is ExtractMarkdown with the degradation reported as an
// *ExtractionError. Plain text that is not JSON is passed through without
// error.
func Extract(payload any) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = safeStringify(payload)
			err = &ExtractionError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	switch value := payload.(type) {
	case nil:
		return "", nil
	case string:
		return extractFromText(value)
	case json.RawMessage:
		return extractFromText(string(value))
	case []byte:
		return extractFromText(string(value))
	case map[string]any:
		return extractFromObject(value), nil
	}

	if carrier, ok := payload.(DataCarrier); ok {
		if data, ok := carrier.WorkflowData(); ok {
			return stringify(data), nil
		}
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return safeStringify(payload), &ExtractionError{Err: err}
	}
	var object map[string]any
	if err := json.Unmarshal(encoded, &object); err != nil || object == nil {
		return safeStringify(payload), &ExtractionError{Err: errNotObject}
	}
	return extractFromObject(object), nil
}

func extractFromText(raw string) (string, error) {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return raw, nil
	}

	switch value := parsed.(type) {
	case map[string]any:
		return extractFromObject(value), nil
	case string:
		return value, nil
	default:
		return raw, &ExtractionError{Err: errNotObject}
	}
}

func extractFromObject(object map[string]any) string {
	data, ok := object["data"]
	if !ok {
		return stringify(object)
	}
	return stringify(data)
}

// stringify renders non-string values as JSON without HTML escaping.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case json.RawMessage:
		return string(v)
	case fmt.Stringer:
		return v.String()
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return fmt.Sprint(value)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func safeStringify(value any) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = fmt.Sprintf("%T", value)
		}
	}()
	return stringify(value)
}
