package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/noah-isme/gema-project-evaluator/internal/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData feeds the evaluation page template.
type PageData struct {
	Title     string
	Mode      dto.ModeResponse
	Form      dto.EvaluationRequest
	Options   dto.OptionsResponse
	Report    template.HTML
	HasReport bool
	Errors    []string
}

// Page renders the single evaluation page.
type Page struct {
	tmpl *template.Template
}

// NewPage parses the embedded page template.
func NewPage() (*Page, error) {
	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"contains": func(values []string, value string) bool {
			for _, v := range values {
				if v == value {
					return true
				}
			}
			return false
		},
	}).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &Page{tmpl: tmpl}, nil
}

// Render writes the page for data to w.
func (p *Page) Render(w io.Writer, data PageData) error {
	return p.tmpl.Execute(w, data)
}
