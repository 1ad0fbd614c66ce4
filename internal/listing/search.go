package listing

import (
	"strings"

	"folio/internal/content"
)

// Search matches the query case-insensitively against title, subcategory
// and subject. An empty query matches nothing.
func Search(posts []content.Post, query string) []content.Post {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []content.Post
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Subcategory), q) ||
			strings.Contains(strings.ToLower(p.Subject), q) {
			out = append(out, p)
		}
	}
	return out
}

// SearchPage returns one page of results.
func SearchPage(posts []content.Post, query string, page, perPage int) ([]content.Post, Pagination) {
	hits := Search(posts, query)
	pg := Paginate(len(hits), perPage, page)
	start, end := pg.Bounds()
	return hits[start:end], pg
}
