package view

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// MarkdownRenderer turns evaluation reports into sanitised HTML. Remote
// workflows return free-form Markdown, so the output always passes through a
// UGC sanitising policy.
type MarkdownRenderer struct {
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewMarkdownRenderer builds a renderer with GitHub flavoured Markdown enabled.
func NewMarkdownRenderer() *MarkdownRenderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("br", "hr")

	return &MarkdownRenderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		policy: policy,
	}
}

// Render converts src to sanitised HTML.
func (r *MarkdownRenderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}
