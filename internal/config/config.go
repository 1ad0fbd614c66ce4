package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"folio/internal/render"
)

type Config struct {
	Site struct {
		Title    string `yaml:"title"`
		Author   string `yaml:"author"`
		BasePath string `yaml:"base_path"` // URL prefix for the static export
		IntroID  string `yaml:"intro_video"`
	} `yaml:"site"`
	Content struct {
		DataDir       string `yaml:"data_dir"`
		PostsFile     string `yaml:"posts_file"`
		PortfolioFile string `yaml:"portfolio_file"`
		PagesDir      string `yaml:"pages_dir"` // empty uses the bundled pages
	} `yaml:"content"`
	Render struct {
		NormalizeCellBreaks *bool  `yaml:"normalize_cell_breaks"`
		AnchorSource        string `yaml:"anchor_source"`
		IndentUnit          *int   `yaml:"indent_unit"`
	} `yaml:"render"`
	Listing struct {
		BrowsePerPage int `yaml:"browse_per_page"`
		SearchPerPage int `yaml:"search_per_page"`
	} `yaml:"listing"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Storage struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"storage"`
	Build struct {
		OutputDir string `yaml:"output_dir"`
	} `yaml:"build"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// LoadConfig reads path, which may be missing, then applies .env and
// FOLIO_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	var cfg Config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	if addr := os.Getenv("FOLIO_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if db := os.Getenv("FOLIO_DB"); db != "" {
		cfg.Storage.DBPath = db
	}
	if dir := os.Getenv("FOLIO_DATA_DIR"); dir != "" {
		cfg.Content.DataDir = dir
	}
	if base := os.Getenv("FOLIO_BASE_PATH"); base != "" {
		cfg.Site.BasePath = base
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "Folio"
	}
	if c.Content.DataDir == "" {
		c.Content.DataDir = "data"
	}
	if c.Content.PostsFile == "" {
		c.Content.PostsFile = "posts.json"
	}
	if c.Content.PortfolioFile == "" {
		c.Content.PortfolioFile = "portfolio.json"
	}
	if c.Render.AnchorSource == "" {
		c.Render.AnchorSource = string(render.AnchorFromHeading)
	}
	if c.Listing.BrowsePerPage <= 0 {
		c.Listing.BrowsePerPage = 10
	}
	if c.Listing.SearchPerPage <= 0 {
		c.Listing.SearchPerPage = 2
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = filepath.Join(".folio", "folio.db")
	}
	if c.Build.OutputDir == "" {
		c.Build.OutputDir = "public"
	}
}

func (c *Config) Validate() error {
	if _, err := render.ParseAnchorSource(c.Render.AnchorSource); err != nil {
		return fmt.Errorf("render.anchor_source: %w", err)
	}
	if c.Render.IndentUnit != nil && *c.Render.IndentUnit < 0 {
		return fmt.Errorf("render.indent_unit must not be negative")
	}
	return nil
}

// RenderOptions maps the render section onto renderer options.
func (c *Config) RenderOptions() render.Options {
	opts := render.DefaultOptions()
	if c.Render.NormalizeCellBreaks != nil {
		opts.NormalizeCellBreaks = *c.Render.NormalizeCellBreaks
	}
	if src, err := render.ParseAnchorSource(c.Render.AnchorSource); err == nil {
		opts.AnchorSource = src
	}
	if c.Render.IndentUnit != nil {
		opts.IndentUnit = *c.Render.IndentUnit
	}
	return opts
}

// PostsPath and PortfolioPath are the dataset files.
func (c *Config) PostsPath() string {
	return filepath.Join(c.Content.DataDir, c.Content.PostsFile)
}

func (c *Config) PortfolioPath() string {
	return filepath.Join(c.Content.DataDir, c.Content.PortfolioFile)
}
