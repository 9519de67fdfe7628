// Package render produces HTML from the embedded templates. Each page
// template defines a "content" block composed into the shared layout.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/mwarner/learnlog/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = []string{
	"login",
	"entries",
	"detail",
	"entry_form",
	"tags",
	"not_found",
}

// Renderer holds the parsed page templates.
type Renderer struct {
	templates map[string]*template.Template
}

// New parses the embedded templates, one template set per page over the
// shared layout.
func New() (*Renderer, error) {
	funcs := template.FuncMap{
		"date":     func(t time.Time) string { return t.Format("January 2, 2006") },
		"dateval":  func(t time.Time) string { return t.Format("2006-01-02") },
		"joinTags": JoinTags,
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(
			templatesFS,
			"templates/layout.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %q: %w", page, err)
		}
		templates[page] = t
	}
	return &Renderer{templates: templates}, nil
}

// HTML renders a page into the response. The template executes into a
// buffer first so a render failure can still become a clean 500 instead of
// a half-written page.
func (r *Renderer) HTML(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("unknown template %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("render %q: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// JoinTags space-joins tag names for the edit form's tags field.
func JoinTags(tags []*models.SubjectTag) string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return strings.Join(names, " ")
}
