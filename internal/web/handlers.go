package web

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"folio/internal/content"
	"folio/internal/listing"
	"folio/internal/pages"
	"folio/internal/render"
	"folio/internal/theme"
)

type homeView struct {
	Latest     content.Post
	HasLatest  bool
	Featured   []content.Post
	IntroVideo string
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	c := s.Catalog()
	latest, ok := c.Latest()
	s.render(w, http.StatusOK, "home", s.page(r, "", homeView{
		Latest:     latest,
		HasLatest:  ok,
		Featured:   c.Featured(),
		IntroVideo: s.opts.IntroVideo,
	}))
}

type subView struct {
	Name      string
	Checked   bool
	ToggleURL string
}

type categoryView struct {
	Name      string
	Selected  bool
	ToggleURL string
	Subs      []subView
}

type sortView struct {
	Value    listing.SortOption
	Label    string
	Selected bool
	URL      string
}

type browseView struct {
	Categories []categoryView
	Sorts      []sortView
	Groups     []listing.Group
	Page       listing.Pagination

	sel  listing.Selection
	sort listing.SortOption
}

// URL builds a browse link for the given selection, keeping the sort.
func browseURL(sel listing.Selection, opt listing.SortOption, page int) string {
	q := sel.Values()
	if len(q["sub"]) == 0 {
		// An explicit empty selection, not a missing one.
		q.Set("sub", "")
	}
	q.Set("sort", string(opt))
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return "/browse?" + q.Encode()
}

func (v browseView) PageURL(n int) string {
	return browseURL(v.sel, v.sort, n)
}

func (s *Server) browse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := listing.SelectionFromValues(q)
	opt, err := listing.ParseSort(q.Get("sort"))
	if err != nil {
		opt = listing.SortNewest
	}
	pageNum, _ := strconv.Atoi(q.Get("page"))

	res := listing.Browse(s.Catalog().Posts(), sel, opt, pageNum, s.opts.BrowsePerPage)

	v := browseView{Groups: res.Groups, Page: res.Page, sel: sel, sort: opt}
	for _, c := range listing.Categories {
		cv := categoryView{
			Name:      c.Name,
			Selected:  sel.CategorySelected(c.Name),
			ToggleURL: browseURL(sel.ToggleCategory(c.Name), opt, 1),
		}
		for _, sub := range c.Subcategories {
			cv.Subs = append(cv.Subs, subView{
				Name:      sub,
				Checked:   sel[sub],
				ToggleURL: browseURL(sel.ToggleSubcategory(sub), opt, 1),
			})
		}
		v.Categories = append(v.Categories, cv)
	}
	for _, so := range listing.SortOptions {
		v.Sorts = append(v.Sorts, sortView{
			Value:    so.Value,
			Label:    so.Label,
			Selected: so.Value == opt,
			URL:      browseURL(sel, so.Value, 1),
		})
	}

	s.render(w, http.StatusOK, "browse", s.page(r, "Browse Posts", v))
}

// Anchors of the trailer sections, taken from the rendered outline.
type trailerAnchors struct {
	Quotes    string
	Takeaways string
	Resources string
}

func anchorsOf(toc []render.TocEntry) trailerAnchors {
	var a trailerAnchors
	for _, e := range toc {
		if !e.Trailer {
			continue
		}
		switch e.Title {
		case render.QuotesHeading:
			a.Quotes = e.Anchor
		case render.TakeawaysHeading:
			a.Takeaways = e.Anchor
		case render.ResourcesHeading:
			a.Resources = e.Anchor
		}
	}
	return a
}

type postView struct {
	Post     content.Post
	Doc      render.Rendered
	Anchors  trailerAnchors
	Related  []content.Post
	Headings headings
}

// headings exposes the trailer titles to templates.
type headings struct {
	Quotes, Takeaways, Resources string
}

var trailerHeadings = headings{render.QuotesHeading, render.TakeawaysHeading, render.ResourcesHeading}

func (s *Server) post(w http.ResponseWriter, r *http.Request) {
	c := s.Catalog()
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		s.missing(w, r, "Post not found")
		return
	}
	p, err := c.Post(id)
	if err != nil {
		s.missing(w, r, "Post not found")
		return
	}

	doc := p.Document().Render(s.renderer)
	s.render(w, http.StatusOK, "post", s.page(r, p.Title, postView{
		Post:     p,
		Doc:      doc,
		Anchors:  anchorsOf(doc.TOC),
		Related:  c.Related(p),
		Headings: trailerHeadings,
	}))
}

func (s *Server) portfolioIndex(w http.ResponseWriter, r *http.Request) {
	items := s.Catalog().PortfolioSorted(s.now())
	s.render(w, http.StatusOK, "portfolio", s.page(r, "Portfolio", items))
}

type portfolioView struct {
	Item     content.PortfolioItem
	Doc      render.Rendered
	Anchors  trailerAnchors
	Headings headings
}

func (s *Server) portfolioItem(w http.ResponseWriter, r *http.Request) {
	it, err := s.Catalog().Portfolio(r.PathValue("slug"))
	if err != nil {
		s.missing(w, r, "Post not found")
		return
	}
	doc := it.Document().Render(s.renderer)
	s.render(w, http.StatusOK, "portfolio_item", s.page(r, it.Title, portfolioView{
		Item:     it,
		Doc:      doc,
		Anchors:  anchorsOf(doc.TOC),
		Headings: trailerHeadings,
	}))
}

type searchView struct {
	Query   string
	Results []content.Post
	Page    listing.Pagination
}

func (v searchView) PageURL(n int) string {
	q := url.Values{"query": {v.Query}}
	if n > 1 {
		q.Set("page", strconv.Itoa(n))
	}
	return "/search?" + q.Encode()
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	pageNum, _ := strconv.Atoi(r.URL.Query().Get("page"))
	hits, pg := listing.SearchPage(s.Catalog().Posts(), query, pageNum, s.opts.SearchPerPage)
	s.render(w, http.StatusOK, "search", s.page(r, "Search", searchView{
		Query:   query,
		Results: hits,
		Page:    pg,
	}))
}

func (s *Server) staticPage(p pages.Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, http.StatusOK, "page", s.page(r, p.Title, p))
	}
}

func (s *Server) toggleTheme(w http.ResponseWriter, r *http.Request) {
	back := "/"
	if err := r.ParseForm(); err == nil {
		if ret := r.PostForm.Get("return"); isLocalPath(ret) {
			back = ret
		}
	}
	if s.opts.Static {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	next, err := s.themes.Toggle(r.Context(), visitorID(r))
	if err != nil {
		log.Printf("Failed to save theme: %v", err)
		http.Error(w, "failed to save theme", http.StatusInternalServerError)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]theme.Theme{"theme": next})
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// forget deletes the visitor's stored preferences and expires the
// visitor cookie.
func (s *Server) forget(w http.ResponseWriter, r *http.Request) {
	back := "/"
	if err := r.ParseForm(); err == nil {
		if ret := r.PostForm.Get("return"); isLocalPath(ret) {
			back = ret
		}
	}
	if err := s.themes.Forget(r.Context(), visitorID(r)); err != nil {
		log.Printf("Failed to forget visitor: %v", err)
		http.Error(w, "failed to forget visitor", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	if wantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// isLocalPath accepts same-site paths only, so the redirect cannot leave
// the site.
func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

type notFoundView struct {
	Message string
}

func (s *Server) missing(w http.ResponseWriter, r *http.Request, msg string) {
	s.render(w, http.StatusNotFound, "notfound", s.page(r, "Not found", notFoundView{Message: msg}))
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.missing(w, r, "Page not found")
}

func isNotFound(err error) bool {
	return errors.Is(err, content.ErrNotFound)
}
