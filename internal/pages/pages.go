package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"errors"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed defaults/*.md
var defaults embed.FS

// Page is a static informational page written in Markdown.
type Page struct {
	Slug        string
	Title       string
	Description string
	Order       int
	Body        template.HTML
}

type matter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Order       int    `yaml:"order"`
}

// ErrInvalidSlug rejects page file names that cannot be served as a
// single path segment.
var ErrInvalidSlug = errors.New("invalid page slug")

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Set is a loaded collection of pages keyed by slug.
type Set struct {
	pages map[string]Page
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		gmhtml.WithHardWraps(),
	),
)

// Defaults returns the bundled pages.
func Defaults() (*Set, error) {
	sub, err := fs.Sub(defaults, "defaults")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Load reads every .md file at the top of fsys. The slug is the file name
// without extension and must be lower case letters, digits, '-' or '_'.
func Load(fsys fs.FS) (*Set, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	s := &Set{pages: make(map[string]Page)}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".md" {
			continue
		}
		slug := strings.TrimSuffix(e.Name(), ".md")
		if !slugPattern.MatchString(slug) {
			return nil, fmt.Errorf("page '%s': %w", e.Name(), ErrInvalidSlug)
		}
		raw, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read page '%s': %w", e.Name(), err)
		}
		p, err := Parse(slug, raw)
		if err != nil {
			return nil, err
		}
		s.pages[p.Slug] = p
	}
	return s, nil
}

// Parse renders one page. A missing title is derived from the slug.
func Parse(slug string, raw []byte) (Page, error) {
	var fm matter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		return Page{}, fmt.Errorf("failed to parse front matter for '%s': %w", slug, err)
	}

	var buf bytes.Buffer
	if err := markdown.Convert(body, &buf); err != nil {
		return Page{}, fmt.Errorf("failed to convert markdown for '%s': %w", slug, err)
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		words := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
		title = cases.Title(language.English).String(words)
	}

	return Page{
		Slug:        slug,
		Title:       title,
		Description: fm.Description,
		Order:       fm.Order,
		// Page sources are part of the site, not visitor input.
		Body: template.HTML(buf.String()),
	}, nil
}

func (s *Set) Get(slug string) (Page, bool) {
	p, ok := s.pages[slug]
	return p, ok
}

// All returns the pages by their front matter order, then slug.
func (s *Set) All() []Page {
	out := make([]Page, 0, len(s.pages))
	for _, p := range s.pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Slug < out[j].Slug
	})
	return out
}
