package pages

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	set, err := Defaults()
	require.NoError(t, err)

	var slugs []string
	for _, p := range set.All() {
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []string{"about", "disclaimer", "contact"}, slugs)

	about, ok := set.Get("about")
	require.True(t, ok)
	assert.Equal(t, "About Me", about.Title)

	contact, ok := set.Get("contact")
	require.True(t, ok)
	assert.Equal(t, "Contact", contact.Title, "title falls back to the slug")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(contact.Body)))
	require.NoError(t, err)
	assert.Equal(t, "mailto:example@example.com", doc.Find("a").AttrOr("href", ""))
	assert.Equal(t, "email", doc.Find("h3").First().AttrOr("id", ""))
}

func TestLoad_FromDirectory(t *testing.T) {
	fsys := fstest.MapFS{
		"privacy-policy.md": {Data: []byte("Plain *markdown* without front matter.\n")},
		"notes.txt":         {Data: []byte("ignored")},
	}
	set, err := Load(fsys)
	require.NoError(t, err)
	require.Len(t, set.All(), 1)

	p, ok := set.Get("privacy-policy")
	require.True(t, ok)
	assert.Equal(t, "Privacy Policy", p.Title)
	assert.Contains(t, string(p.Body), "<em>markdown</em>")

	_, ok = set.Get("notes")
	assert.False(t, ok)
}

func TestLoad_RejectsInvalidSlugs(t *testing.T) {
	for _, name := range []string{"my page.md", "About.md", "a{b}.md", "-x.md"} {
		_, err := Load(fstest.MapFS{name: {Data: []byte("body")}})
		assert.ErrorIs(t, err, ErrInvalidSlug, name)
	}
}

func TestParse_BadFrontMatter(t *testing.T) {
	_, err := Parse("x", []byte("---\ntitle: [unclosed\n---\nbody\n"))
	assert.Error(t, err)
}
