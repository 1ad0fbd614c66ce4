package content

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned for an unknown post id or portfolio slug.
var ErrNotFound = errors.New("not found")

// Catalog is the loaded, read-only dataset.
type Catalog struct {
	posts     []Post
	byID      map[int]int
	portfolio []PortfolioItem
	bySlug    map[string]int
}

func NewCatalog(posts []Post, portfolio []PortfolioItem) (*Catalog, error) {
	c := &Catalog{
		posts:     posts,
		byID:      make(map[int]int, len(posts)),
		portfolio: portfolio,
		bySlug:    make(map[string]int, len(portfolio)),
	}
	for i, p := range posts {
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate post id %d", p.ID)
		}
		c.byID[p.ID] = i
	}
	for i, it := range portfolio {
		if _, dup := c.bySlug[it.Slug]; dup {
			return nil, fmt.Errorf("duplicate portfolio slug %q", it.Slug)
		}
		c.bySlug[it.Slug] = i
	}
	return c, nil
}

// LoadCatalog reads both datasets from dir.
func LoadCatalog(dir, postsFile, portfolioFile string) (*Catalog, error) {
	posts, err := LoadPosts(filepath.Join(dir, postsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	items, err := LoadPortfolio(filepath.Join(dir, portfolioFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	return NewCatalog(posts, items)
}

// Posts returns every post in dataset order.
func (c *Catalog) Posts() []Post {
	return append([]Post(nil), c.posts...)
}

func (c *Catalog) Post(id int) (Post, error) {
	i, ok := c.byID[id]
	if !ok {
		return Post{}, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	return c.posts[i], nil
}

func (c *Catalog) Portfolio(slug string) (PortfolioItem, error) {
	i, ok := c.bySlug[slug]
	if !ok {
		return PortfolioItem{}, fmt.Errorf("portfolio %q: %w", slug, ErrNotFound)
	}
	return c.portfolio[i], nil
}

// Lookup resolves a numeric key to a post and anything else to a
// portfolio slug.
func (c *Catalog) Lookup(key string) (Document, error) {
	key = strings.TrimSpace(key)
	if id, err := strconv.Atoi(key); err == nil {
		p, err := c.Post(id)
		if err != nil {
			return Document{}, err
		}
		return p.Document(), nil
	}
	it, err := c.Portfolio(key)
	if err != nil {
		return Document{}, err
	}
	return it.Document(), nil
}

// Latest returns the most recently posted entry.
func (c *Catalog) Latest() (Post, bool) {
	if len(c.posts) == 0 {
		return Post{}, false
	}
	latest := c.posts[0]
	for _, p := range c.posts[1:] {
		if p.Posted.After(latest.Posted) {
			latest = p
		}
	}
	return latest, true
}

func (c *Catalog) Featured() []Post {
	var out []Post
	for _, p := range c.posts {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// Related resolves a post's related ids, skipping unknown ones.
func (c *Catalog) Related(p Post) []Post {
	var out []Post
	for _, id := range p.RelatedPosts {
		if r, err := c.Post(id); err == nil {
			out = append(out, r)
		}
	}
	return out
}

// PortfolioSorted orders items by end date, newest first, with ongoing
// work treated as ending now; ties fall back to the start date.
func (c *Catalog) PortfolioSorted(now time.Time) []PortfolioItem {
	out := append([]PortfolioItem(nil), c.portfolio...)
	end := func(it PortfolioItem) time.Time {
		if it.Ongoing() {
			return now
		}
		return it.To
	}
	sort.SliceStable(out, func(i, j int) bool {
		ei, ej := end(out[i]), end(out[j])
		if !ei.Equal(ej) {
			return ei.After(ej)
		}
		return out[i].From.After(out[j].From)
	})
	return out
}

// Documents lists every post and portfolio document, posts first.
func (c *Catalog) Documents() []Document {
	out := make([]Document, 0, len(c.posts)+len(c.portfolio))
	for _, p := range c.posts {
		out = append(out, p.Document())
	}
	for _, it := range c.portfolio {
		out = append(out, it.Document())
	}
	return out
}

func (c *Catalog) Portfolios() []PortfolioItem {
	return append([]PortfolioItem(nil), c.portfolio...)
}
