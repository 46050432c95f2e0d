// Package site renders the society pages with html/template. View models are
// derived from a content snapshot on every call; nothing is cached between
// renders.
package site

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	appLog "socsite/internal/log"
	"socsite/internal/model"
)

//go:embed templates/*.html templates/partials/*.html
var templateFS embed.FS

//go:embed all:static
var staticFS embed.FS

// pageNames lists every page template under templates/.
var pageNames = []string{"home", "about", "events", "team", "sponsors", "contact", "notfound"}

// Assets returns the embedded stylesheet and script tree, rooted so that
// "css/site.css" is a valid name.
func Assets() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(fmt.Sprintf("site: embedded static tree missing: %v", err))
	}
	return sub
}

type Options struct {
	// PublicDir is checked for image existence; empty disables the check.
	PublicDir string

	AnalyticsID string
	MapsKey     string

	HorizonDays int

	// RefreshSeconds is the meta refresh used while content is loading.
	RefreshSeconds int

	// OGImages switches og:image to the per-page captures under /og/.
	OGImages bool

	// Static renders for a file host: the contact form becomes a mailto
	// form since there is no server to post to.
	Static bool
}

// Input is the per-request state a page is built from.
type Input struct {
	Site  model.Site
	Now   time.Time
	Ready bool
	Query url.Values
}

// Renderer owns the parsed templates.
type Renderer struct {
	opts  Options
	pages map[string]*template.Template
}

func New(opts Options) (*Renderer, error) {
	if opts.RefreshSeconds <= 0 {
		opts.RefreshSeconds = 2
	}
	r := &Renderer{opts: opts, pages: make(map[string]*template.Template, len(pageNames))}

	base, err := template.New("base").Funcs(r.funcs()).ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("site: parse layout: %w", err)
	}
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("site: clone layout for %s: %w", name, err)
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("site: parse page %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the page's template into w.
func (r *Renderer) Render(w io.Writer, p *Page) error {
	t, ok := r.pages[p.Name]
	if !ok {
		return fmt.Errorf("site: unknown page %q", p.Name)
	}
	if err := t.ExecuteTemplate(w, "layout", p); err != nil {
		return fmt.Errorf("site: render %s: %w", p.Name, err)
	}
	return nil
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"join": strings.Join,
		"emptyState": func(head, text string) map[string]string {
			return map[string]string{"Head": head, "Text": text}
		},
	}
}

// badgeClass maps a category to its badge colour class.
func badgeClass(c model.Category) string {
	if !c.IsValid() {
		c = model.CategoryOther
	}
	return "badge badge-" + strings.ToLower(string(c))
}

// resolveImage returns path if it can be served, otherwise fallback.
// Remote URLs are trusted; the browser-side onerror covers them.
func (r *Renderer) resolveImage(path, fallback string) string {
	if path == "" {
		return fallback
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || r.opts.PublicDir == "" {
		return path
	}
	rel := filepath.FromSlash(strings.TrimPrefix(path, "/"))
	if _, err := os.Stat(filepath.Join(r.opts.PublicDir, rel)); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			appLog.Warn("image check failed", "path", path, "reason", err.Error())
		}
		return fallback
	}
	return path
}
