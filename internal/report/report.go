package report

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/facilops/chamados-service/internal/model"
	"github.com/facilops/chamados-service/web"
)

// TimeLayout is the fixed rendering format for every ticket timestamp.
const TimeLayout = "02/01/2006 15:04"

// Placeholder stands in for a missing completion time or assignee. The report
// never omits a field.
const Placeholder = "Não definido"

// Renderer projects a pre-filtered ticket slice into a downloadable document.
// Filtering (exclude deleted, completed only) is the caller's job.
type Renderer struct {
	loc  *time.Location
	tmpl *template.Template
}

func NewRenderer(loc *time.Location) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(Funcs(loc)).ParseFS(web.FS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{loc: loc, tmpl: tmpl}, nil
}

// Funcs is the template function set shared by the live pages and the HTML
// export, so both render timestamps and placeholders identically.
func Funcs(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"fmtTime": func(t time.Time) string {
			return t.In(loc).Format(TimeLayout)
		},
		"fmtTimePtr": func(t *time.Time) string {
			if t == nil {
				return Placeholder
			}
			return t.In(loc).Format(TimeLayout)
		},
		"orND": func(s string) string {
			if s == "" {
				return Placeholder
			}
			return s
		},
	}
}

// Templates exposes the parsed tree so the router can serve the same files.
func (r *Renderer) Templates() *template.Template { return r.tmpl }

type htmlData struct {
	Chamados    []model.Chamado
	GeneratedAt time.Time
}

// WriteHTML renders the ticket set with the same template as the on-screen
// report page, producing a self-contained document.
func (r *Renderer) WriteHTML(w io.Writer, chamados []model.Chamado) error {
	return r.tmpl.ExecuteTemplate(w, "relatorio.html", htmlData{
		Chamados:    chamados,
		GeneratedAt: time.Now().In(r.loc),
	})
}
