package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"folio/internal/content"
	"folio/internal/listing"
	"folio/internal/render"
	"folio/internal/theme"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFiles embed.FS

// Assets returns the bundled stylesheet and other static files.
func Assets() fs.FS {
	return staticFS()
}

func staticFS() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

var pageTemplates = []string{
	"home", "browse", "post", "portfolio", "portfolio_item", "search", "page", "notfound",
}

type views struct {
	pages map[string]*template.Template
}

func loadViews(basePath string) (*views, error) {
	base, err := template.New("layout.html").
		Funcs(templateFuncs(basePath)).
		ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, err
	}

	v := &views{pages: make(map[string]*template.Template, len(pageTemplates))}
	for _, name := range pageTemplates {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, err
		}
		v.pages[name] = t
	}
	return v, nil
}

func templateFuncs(basePath string) template.FuncMap {
	prefix := strings.TrimRight(basePath, "/")
	return template.FuncMap{
		"url": func(path string) string {
			return prefix + path
		},
		"nodes": func(nodes []render.Node) (template.HTML, error) {
			out, err := render.HTML(nodes)
			// x/net/html escapes every text node while rendering.
			return template.HTML(out), err
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("January 2, 2006")
		},
		"embed":  content.YouTubeEmbedURL,
		"thumb":  content.YouTubeThumbnailURL,
		"filter": filterURL,
	}
}

// page is the data every template receives.
type page struct {
	SiteTitle  string
	Author     string
	Static     bool
	Theme      theme.Theme
	Title      string
	Path       string
	Categories []listing.Category
	Data       any
}

func (s *Server) page(r *http.Request, title string, data any) page {
	th := theme.Default
	if !s.opts.Static {
		var err error
		if th, err = s.themes.Current(r.Context(), visitorID(r)); err != nil {
			log.Printf("Failed to load theme preference: %v", err)
		}
	}
	return page{
		SiteTitle:  s.opts.SiteTitle,
		Author:     s.opts.Author,
		Static:     s.opts.Static,
		Theme:      th,
		Title:      title,
		Path:       r.URL.RequestURI(),
		Categories: listing.Categories,
		Data:       data,
	}
}

// render executes a page template into a buffer first, so a template
// error never leaves a half-written response.
func (s *Server) render(w http.ResponseWriter, status int, name string, data page) {
	t, ok := s.views.pages[name]
	if !ok {
		http.Error(w, "unknown template "+name, http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("Failed to render %s: %v", name, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func filterURL(filter string) string {
	return "/browse?filter=" + url.QueryEscape(filter)
}
