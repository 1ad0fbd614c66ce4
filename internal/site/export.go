// Package site exports the site as plain files for static hosting.
package site

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/errgroup"

	"folio/internal/content"
	"folio/internal/render"
	"folio/internal/web"
)

// Route maps a request path to the file it is exported as.
type Route struct {
	Path   string
	File   string
	Status int
}

// Routes lists every page the export writes. Query-driven pages are
// exported once: browse with every category selected, and no search.
func Routes(srv *web.Server) ([]Route, error) {
	c := srv.Catalog()
	routes := []Route{
		{Path: "/", File: "index.html", Status: http.StatusOK},
		{Path: "/browse?filter=ALL", File: "browse/index.html", Status: http.StatusOK},
		{Path: "/portfolio", File: "portfolio/index.html", Status: http.StatusOK},
		{Path: "/404", File: "404.html", Status: http.StatusNotFound},
		{Path: "/api/posts", File: "api/posts.json", Status: http.StatusOK},
	}
	for _, p := range c.Posts() {
		id := strconv.Itoa(p.ID)
		routes = append(routes,
			Route{Path: "/post/" + id, File: path.Join("post", id, "index.html"), Status: http.StatusOK},
			Route{Path: "/api/posts/" + id, File: path.Join("api", "posts", id+".json"), Status: http.StatusOK},
		)
	}
	for _, it := range c.Portfolios() {
		routes = append(routes,
			Route{Path: "/portfolio/" + it.Slug, File: path.Join("portfolio", it.Slug, "index.html"), Status: http.StatusOK},
			Route{Path: "/api/portfolio/" + it.Slug, File: path.Join("api", "portfolio", it.Slug+".json"), Status: http.StatusOK},
		)
	}
	for _, p := range srv.Pages() {
		routes = append(routes, Route{Path: "/" + p.Slug, File: path.Join(p.Slug, "index.html"), Status: http.StatusOK})
	}

	err := fs.WalkDir(web.Assets(), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		routes = append(routes, Route{Path: "/static/" + p, File: path.Join("static", p), Status: http.StatusOK})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return routes, nil
}

// Build writes the exported site and its build report into outDir. The
// server should be created with Options.Static set.
func Build(ctx context.Context, srv *web.Server, outDir string) (*Report, error) {
	report := NewReport(outDir)
	defer func() {
		if err := report.Save(filepath.Join(outDir, ReportFile)); err != nil {
			log.Printf("Failed to save build report: %v", err)
		}
	}()

	// 1. Audit
	h := report.BeginStage("audit")
	counters := Audit(srv.Catalog(), srv.Renderer(), report)
	report.EndStage(h, counters, nil)

	// 2. Plan
	h = report.BeginStage("plan")
	routes, err := Routes(srv)
	report.EndStage(h, map[string]float64{"routes": float64(len(routes))}, err)
	if err != nil {
		return report, err
	}

	// 3. Write
	h = report.BeginStage("write")
	results, err := writeRoutes(ctx, srv.Handler(), outDir, routes)
	if err != nil {
		report.EndStage(h, nil, err)
		return report, err
	}
	total := 0
	var failed error
	for i, rt := range routes {
		res := results[i]
		if res.status != rt.Status {
			report.AddSignal("unexpected_status", "write", SeverityCritical, rt.Path,
				fmt.Sprintf("expected status %d, got %d", rt.Status, res.status))
			if failed == nil {
				failed = fmt.Errorf("%s returned status %d", rt.Path, res.status)
			}
		}
		report.AddPage(PageMetric{Route: rt.Path, File: rt.File, Status: res.status, Bytes: res.bytes})
		total += res.bytes
		fmt.Printf("  📄 %s\n", rt.File)
	}
	report.EndStage(h, map[string]float64{
		"pages": float64(len(routes)),
		"bytes": float64(total),
	}, failed)

	return report, failed
}

// writeLimit bounds the pages rendered at once.
const writeLimit = 8

type writeResult struct {
	status int
	bytes  int
}

func writeRoutes(ctx context.Context, handler http.Handler, outDir string, routes []Route) ([]writeResult, error) {
	results := make([]writeResult, len(routes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(writeLimit)
	for i, rt := range routes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			n, status, err := writeRoute(gctx, handler, outDir, rt)
			results[i] = writeResult{status: status, bytes: n}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func writeRoute(ctx context.Context, handler http.Handler, outDir string, rt Route) (int, int, error) {
	req := httptest.NewRequest(http.MethodGet, rt.Path, nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	dest := filepath.Join(outDir, filepath.FromSlash(rt.File))
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, rec.Code, fmt.Errorf("failed to create directory for %s: %w", rt.File, err)
	}
	body := rec.Body.Bytes()
	if err := os.WriteFile(dest, body, 0644); err != nil {
		return 0, rec.Code, fmt.Errorf("failed to write %s: %w", rt.File, err)
	}
	return len(body), rec.Code, nil
}

// Audit renders every document and reports content problems: documents
// without sections, related ids that resolve to nothing, and links or
// images whose URLs are dropped as unsafe.
func Audit(c *content.Catalog, r *render.Renderer, report *Report) map[string]float64 {
	var docs, sections, nodes float64
	for _, d := range c.Documents() {
		docs++
		if len(d.Sections) == 0 {
			report.AddSignal("empty_document", "audit", SeverityWarning, string(d.Kind)+":"+d.Key,
				"document has no content sections")
		}
		rendered := d.Render(r)
		for _, s := range rendered.Sections {
			sections++
			nodes += float64(len(s.Nodes))
			for _, sp := range spans(s.Nodes) {
				for _, u := range []string{sp.Style.Href, sp.Style.Src} {
					if u == "" {
						continue
					}
					if _, ok := render.SafeURL(u); !ok {
						report.AddSignal("unsafe_url", "audit", SeverityWarning, string(d.Kind)+":"+d.Key,
							fmt.Sprintf("%q in %q is not rendered", u, s.Entry.Title))
					}
				}
			}
		}
	}
	for _, p := range c.Posts() {
		for _, id := range p.RelatedPosts {
			if _, err := c.Post(id); err != nil {
				report.AddSignal("missing_related", "audit", SeverityInfo, "post:"+strconv.Itoa(p.ID),
					fmt.Sprintf("related post %d does not exist", id))
			}
		}
	}
	return map[string]float64{
		"documents": docs,
		"sections":  sections,
		"nodes":     nodes,
	}
}

func spans(nodes []render.Node) []render.Span {
	var out []render.Span
	add := func(in render.Inline) { out = append(out, in...) }
	for _, n := range nodes {
		switch n := n.(type) {
		case render.Paragraph:
			add(n.Content)
		case render.BulletList:
			for _, it := range n.Items {
				add(it)
			}
		case render.NumberedList:
			for _, it := range n.Items {
				add(it)
			}
		case render.Table:
			for _, c := range n.Headers {
				add(c)
			}
			for _, row := range n.Rows {
				for _, c := range row {
					add(c)
				}
			}
		}
	}
	return out
}
