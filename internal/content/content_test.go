package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"folio/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := LoadCatalog("testdata", "posts.json", "portfolio.json")
	require.NoError(t, err)
	return c
}

func TestLoadCatalog(t *testing.T) {
	c := loadTestCatalog(t)
	assert.Len(t, c.Posts(), 2)
	assert.Len(t, c.Portfolios(), 3)

	p, err := c.Post(1)
	require.NoError(t, err)
	assert.Equal(t, "Sleep Pressure", p.Title)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), p.Posted)

	it, err := c.Portfolio("garden")
	require.NoError(t, err)
	assert.True(t, it.Ongoing())
}

func TestCatalog_NotFound(t *testing.T) {
	c := loadTestCatalog(t)

	_, err := c.Post(404)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = c.Portfolio("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Lookup("404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_Lookup(t *testing.T) {
	c := loadTestCatalog(t)

	doc, err := c.Lookup("1")
	require.NoError(t, err)
	assert.Equal(t, KindPost, doc.Kind)
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, ElaborationHeading, doc.Sections[0].Heading)
	assert.Equal(t, ExamplesHeading, doc.Sections[1].Heading)

	doc, err = c.Lookup("garden")
	require.NoError(t, err)
	assert.Equal(t, KindPortfolio, doc.Kind)
	assert.Equal(t, "Garden Sensors", doc.Title)
}

func TestCatalog_LatestFeaturedRelated(t *testing.T) {
	c := loadTestCatalog(t)

	latest, ok := c.Latest()
	require.True(t, ok)
	assert.Equal(t, 2, latest.ID)

	featured := c.Featured()
	require.Len(t, featured, 1)
	assert.Equal(t, 1, featured[0].ID)

	related := c.Related(featured[0])
	require.Len(t, related, 1, "unknown related ids are skipped")
	assert.Equal(t, 2, related[0].ID)
}

func TestCatalog_PortfolioSorted(t *testing.T) {
	c := loadTestCatalog(t)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	var slugs []string
	for _, it := range c.PortfolioSorted(now) {
		slugs = append(slugs, it.Slug)
	}
	// Both ongoing items end "now"; the later start wins.
	assert.Equal(t, []string{"garden", "robot", "old-site"}, slugs)
}

func TestDocument_Render(t *testing.T) {
	c := loadTestCatalog(t)

	it, err := c.Portfolio("old-site")
	require.NoError(t, err)
	out := it.Document().Render(render.New(render.DefaultOptions()))
	require.Len(t, out.TOC, 1)
	assert.Equal(t, "overview", out.TOC[0].Anchor)
	assert.Equal(t, "1", out.TOC[0].Number)

	p, err := c.Post(1)
	require.NoError(t, err)
	doc := p.Document()
	assert.Equal(t, render.Trailers{Quotes: true, Takeaways: true, Resources: true}, doc.Trailers())

	out = doc.Render(render.New(render.DefaultOptions()))
	require.Len(t, out.TOC, 5)
	assert.Equal(t, render.QuotesHeading, out.TOC[2].Title)
	require.Len(t, out.Sections[0].Nodes, 2)
	assert.Equal(t, render.KindBulletList, out.Sections[0].Nodes[1].Kind())
}

func TestParsePosts_SchemaValidation(t *testing.T) {
	_, err := ParsePosts([]byte(`[{"id": 1, "title": "x"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation")

	_, err = ParsePosts([]byte(`[{"id": 1, "title": "x", "datePosted": "2024-01-01", "subcategory": "a", "subject": "b", "confidenceScore": 9}]`))
	require.Error(t, err)

	_, err = ParsePosts([]byte(`[{"id": 1, "title": "x", "datePosted": "someday", "subcategory": "a", "subject": "b"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized date")
}

func TestNewCatalog_RejectsDuplicates(t *testing.T) {
	_, err := NewCatalog([]Post{{ID: 1}, {ID: 1}}, nil)
	assert.Error(t, err)

	_, err = NewCatalog(nil, []PortfolioItem{{Slug: "a"}, {Slug: "a"}})
	assert.Error(t, err)
}

func TestLoadPortfolio_MissingFile(t *testing.T) {
	items, err := LoadPortfolio(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestLoadPosts_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"}`), 0644))
	_, err := LoadPosts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestYouTubeURLs(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/embed/abc123", YouTubeEmbedURL("abc123", false))
	assert.Equal(t, "https://www.youtube.com/embed/abc123?rel=0", YouTubeEmbedURL("abc123", true))
	assert.Equal(t, "https://img.youtube.com/vi/abc123/maxresdefault.jpg", YouTubeThumbnailURL("abc123"))
	assert.Empty(t, YouTubeEmbedURL("", true))
	assert.Empty(t, YouTubeThumbnailURL(""))
}
