package config

import (
	"os"
	"path/filepath"
	"testing"

	"folio/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Listing, cfg.Listing)
	assert.Equal(t, 10, cfg.Listing.BrowsePerPage)
	assert.Equal(t, 2, cfg.Listing.SearchPerPage)
	assert.Equal(t, render.DefaultOptions(), cfg.RenderOptions())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
site:
  title: My Notes
content:
  data_dir: content
render:
  normalize_cell_breaks: false
  anchor_source: title
  indent_unit: 16
server:
  addr: ":9000"
`), 0644))

	t.Setenv("FOLIO_ADDR", "127.0.0.1:7000")
	t.Setenv("FOLIO_DB", filepath.Join(t.TempDir(), "x.db"))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "My Notes", cfg.Site.Title)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, filepath.Join("content", "posts.json"), cfg.PostsPath())

	opts := cfg.RenderOptions()
	assert.False(t, opts.NormalizeCellBreaks)
	assert.Equal(t, render.AnchorFromTitle, opts.AnchorSource)
	assert.Equal(t, 16, opts.IndentUnit)
}

func TestLoadConfig_ZeroIndentUnit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  indent_unit: 0\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.RenderOptions().IndentUnit)

	require.NoError(t, os.WriteFile(path, []byte("render:\n  indent_unit: -4\n"), 0644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_RejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  anchor_source: slug\n"), 0644))
	_, err := LoadConfig(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("site: [unclosed"), 0644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}
