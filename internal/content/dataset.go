package content

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/*.json
var schemaFS embed.FS

var (
	schemaMu    sync.Mutex
	schemaCache = make(map[string]*jsonschema.Schema)
)

const (
	postsSchema     = "posts.schema.json"
	portfolioSchema = "portfolio.schema.json"
)

func compiledSchema(name string) (*jsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	if s, ok := schemaCache[name]; ok {
		return s, nil
	}

	raw, err := schemaFS.ReadFile("schema/" + name)
	if err != nil {
		return nil, err
	}
	url := "mem://folio/" + name
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to add schema %s: %w", name, err)
	}
	s, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}
	schemaCache[name] = s
	return s, nil
}

// validate checks raw JSON against the named embedded schema.
func validate(name string, raw []byte) error {
	schema, err := compiledSchema(name)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// ParsePosts validates and decodes a posts dataset.
func ParsePosts(raw []byte) ([]Post, error) {
	if err := validate(postsSchema, raw); err != nil {
		return nil, err
	}
	var posts []Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, err
	}
	for i := range posts {
		t, err := ParseDate(posts[i].DatePosted)
		if err != nil {
			return nil, fmt.Errorf("post %d: %w", posts[i].ID, err)
		}
		posts[i].Posted = t
	}
	return posts, nil
}

// ParsePortfolio validates and decodes a portfolio dataset.
func ParsePortfolio(raw []byte) ([]PortfolioItem, error) {
	if err := validate(portfolioSchema, raw); err != nil {
		return nil, err
	}
	var items []PortfolioItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	for i := range items {
		it := &items[i]
		from, err := ParseDate(it.DateFrom)
		if err != nil {
			return nil, fmt.Errorf("portfolio %s: %w", it.Slug, err)
		}
		it.From = from
		if strings.TrimSpace(it.DateTo) != "" {
			to, err := ParseDate(it.DateTo)
			if err != nil {
				return nil, fmt.Errorf("portfolio %s: %w", it.Slug, err)
			}
			it.To = to
		}
	}
	return items, nil
}

func LoadPosts(path string) ([]Post, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	posts, err := ParsePosts(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return posts, nil
}

// LoadPortfolio reads the portfolio dataset. A missing file yields no items.
func LoadPortfolio(path string) ([]PortfolioItem, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	items, err := ParsePortfolio(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"January 2, 2006",
	"2006-01",
}

// ParseDate accepts the date spellings found in the datasets.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
