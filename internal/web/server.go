package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"folio/internal/content"
	"folio/internal/pages"
	"folio/internal/render"
	"folio/internal/theme"
)

// Options configures the site server.
type Options struct {
	SiteTitle     string
	Author        string
	BasePath      string // prefix for every generated link
	IntroVideo    string
	BrowsePerPage int
	SearchPerPage int
	Render        render.Options

	// Static disables the visitor cookie and theme toggle, for exports.
	Static bool
}

// reservedSlugs are first path segments owned by built-in routes.
var reservedSlugs = map[string]bool{
	"browse":    true,
	"post":      true,
	"portfolio": true,
	"search":    true,
	"theme":     true,
	"forget":    true,
	"api":       true,
	"health":    true,
	"static":    true,
}

// Server serves the site. The catalog can be swapped at runtime.
type Server struct {
	opts     Options
	renderer *render.Renderer
	pages    *pages.Set
	themes   *theme.Service
	views    *views
	now      func() time.Time

	mu      sync.RWMutex
	catalog *content.Catalog
}

func New(opts Options, catalog *content.Catalog, pageSet *pages.Set, themes *theme.Service) (*Server, error) {
	if catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if pageSet == nil {
		var err error
		if pageSet, err = pages.Defaults(); err != nil {
			return nil, fmt.Errorf("failed to load default pages: %w", err)
		}
	}
	for _, p := range pageSet.All() {
		if reservedSlugs[p.Slug] {
			return nil, fmt.Errorf("page '%s' collides with a built-in route", p.Slug)
		}
	}
	if themes == nil {
		themes = theme.NewService(nil)
	}
	if opts.BrowsePerPage <= 0 {
		opts.BrowsePerPage = 10
	}
	if opts.SearchPerPage <= 0 {
		opts.SearchPerPage = 2
	}

	v, err := loadViews(opts.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		opts:     opts,
		renderer: render.New(opts.Render),
		pages:    pageSet,
		themes:   themes,
		views:    v,
		now:      time.Now,
		catalog:  catalog,
	}, nil
}

// SetCatalog replaces the dataset served from now on.
func (s *Server) SetCatalog(c *content.Catalog) {
	s.mu.Lock()
	s.catalog = c
	s.mu.Unlock()
}

func (s *Server) Catalog() *content.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Renderer is the document renderer the server's pages use.
func (s *Server) Renderer() *render.Renderer {
	return s.renderer
}

// Pages returns the static pages the server routes.
func (s *Server) Pages() []pages.Page {
	return s.pages.All()
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("GET /{$}", s.home)
	mux.HandleFunc("GET /browse", s.browse)
	mux.HandleFunc("GET /post/{id}", s.post)
	mux.HandleFunc("GET /portfolio", s.portfolioIndex)
	mux.HandleFunc("GET /portfolio/{slug}", s.portfolioItem)
	mux.HandleFunc("GET /search", s.search)
	for _, p := range s.pages.All() {
		mux.HandleFunc("GET /"+p.Slug, s.staticPage(p))
	}
	mux.HandleFunc("POST /theme", s.toggleTheme)
	mux.HandleFunc("POST /forget", s.forget)

	// API
	mux.HandleFunc("GET /api/posts", s.apiPosts)
	mux.HandleFunc("GET /api/posts/{id}", s.apiPost)
	mux.HandleFunc("GET /api/portfolio/{slug}", s.apiPortfolio)
	mux.HandleFunc("GET /api/search", s.apiSearch)
	mux.HandleFunc("GET /api/preferences", s.apiPreferences)

	// Health check
	mux.HandleFunc("GET /health", s.health)

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS())))
	mux.HandleFunc("/", s.notFound)

	if s.opts.Static {
		return mux
	}
	return s.withVisitor(mux)
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("🌐 Serving on %s\n", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Println("Shutting down server...")
		return srv.Shutdown(shutdownCtx)
	}
}
