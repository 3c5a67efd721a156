package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/mawrid/mawrid/internal/i18n"
	"github.com/mawrid/mawrid/internal/shared"
	"github.com/mawrid/mawrid/internal/suppliers"
	"github.com/mawrid/mawrid/web"
)

// Engine renders HTML templates. Every page is parsed into its own clone of
// the layouts and partials so pages can share block names.
type Engine struct {
	pages map[string]*template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	Lang        string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	Staff       *shared.Staff
	Refresh     int
	Data        any
}

// Dir returns the text direction for the page language.
func (d TemplateData) Dir() string {
	return i18n.Dir(d.Lang)
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"t": i18n.T,
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02/01/2006")
		},
		"formatPhone":   suppliers.FormatPhone,
		"telLink":       suppliers.TelLink,
		"categoryLabel": func(lang, key string) string { return suppliers.CategoryLabel(key, lang) },
		"knownCategory": suppliers.IsKnownCategory,
		"categoryGroups": func() []suppliers.CategoryGroup {
			return suppliers.CategoryGroups
		},
		"groupName": func(lang string, g suppliers.CategoryGroup) string {
			if lang == i18n.English {
				return g.NameEN
			}
			return g.NameAR
		},
		"categoryName": func(lang string, c suppliers.Category) string {
			if lang == i18n.English {
				return c.LabelEN
			}
			return c.LabelAR
		},
		"orDash": func(v string) string {
			if v == "" {
				return "-"
			}
			return v
		},
		"add": func(a, b int) int { return a + b },
	}
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	return NewEngineFS(web.Templates)
}

// NewEngineFS parses templates from fsys, which must hold templates/layouts,
// templates/partials and templates/pages.
func NewEngineFS(fsys fs.FS) (*Engine, error) {
	base, err := template.New("root").Funcs(Funcs()).ParseFS(fsys, "templates/layouts/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, err
	}
	files, err := fs.Glob(fsys, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		tpl, err := clone.ParseFS(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		pages["pages/"+path.Base(file)] = tpl
	}
	return &Engine{pages: pages}, nil
}

// Render executes page name inside the base layout.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	return e.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit status code. The page is rendered
// into a buffer first so a template failure never leaves a half-written
// response.
func (e *Engine) RenderStatus(w http.ResponseWriter, status int, name string, data TemplateData) error {
	var buf bytes.Buffer
	if err := e.Execute(&buf, name, "layout", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Execute runs entry of page name into w.
func (e *Engine) Execute(w io.Writer, name, entry string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	tpl, ok := e.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return tpl.ExecuteTemplate(w, entry, data)
}
