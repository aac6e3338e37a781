package handler

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"path"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-console/internal/model"
	"github.com/iliyamo/movie-console/internal/notify"
	"github.com/iliyamo/movie-console/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names understood by the renderer.
const (
	PageHome   = "home"
	PageAdd    = "add"
	PageEdit   = "edit"
	PageDelete = "delete"
	PageLogin  = "login"
	PageSignup = "signup"
)

var pages = []string{PageHome, PageAdd, PageEdit, PageDelete, PageLogin, PageSignup}

// Renderer renders the embedded pages inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the templates.  Cover images are resolved against
// assetBase.
func NewRenderer(assetBase string) (*Renderer, error) {
	funcs := template.FuncMap{
		"cover":      func(m model.Movie) string { return m.CoverURL(assetBase) },
		"rating":     formatRating,
		"pathEscape": url.PathEscape,
		"value":      formValue,
	}
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.Must(layout.Clone()).ParseFS(templateFS, path.Join("templates", name+".html"))
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// Nav decides which links the navigation bar shows.
type Nav struct {
	Show  bool
	Admin bool
}

// View is what every page template receives.
type View struct {
	Title   string
	Nav     Nav
	Notices []notify.Notice
	Data    any
}

// render drains the pending notices into the page and writes it.
func render(c echo.Context, status int, page, title string, data any) error {
	s := session.From(c)
	return c.Render(status, page, View{
		Title:   title,
		Nav:     Nav{Show: s.Authenticated(), Admin: s.IsAdmin()},
		Notices: notify.Drain(c),
		Data:    data,
	})
}

// formatRating prints 8.5 as "8.5" and 9 as "9".
func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// formValue leaves zero numbers empty so a blank form stays blank.
func formValue(v any) string {
	switch n := v.(type) {
	case int:
		if n == 0 {
			return ""
		}
		return strconv.Itoa(n)
	case float64:
		if n == 0 {
			return ""
		}
		return formatRating(n)
	}
	return fmt.Sprint(v)
}
