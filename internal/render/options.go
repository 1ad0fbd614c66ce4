package render

import (
	"fmt"
	"strings"
)

// AnchorSource selects which form of a section heading feeds its anchor.
type AnchorSource string

const (
	// AnchorFromHeading keeps the numeric prefix: "5.1 Setup" -> "5.1-setup".
	AnchorFromHeading AnchorSource = "heading"
	// AnchorFromTitle strips it first: "5.1 Setup" -> "setup".
	AnchorFromTitle AnchorSource = "title"
)

// ParseAnchorSource accepts the config spellings of an AnchorSource.
func ParseAnchorSource(s string) (AnchorSource, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(AnchorFromHeading):
		return AnchorFromHeading, nil
	case string(AnchorFromTitle):
		return AnchorFromTitle, nil
	default:
		return "", fmt.Errorf("unknown anchor source %q", s)
	}
}

// Options tunes the renderer. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// NormalizeCellBreaks turns a literal [br] or <br> inside a table cell
	// into a line break before the cell is formatted.
	NormalizeCellBreaks bool

	// AnchorSource picks the heading form used for TOC anchors.
	AnchorSource AnchorSource

	// IndentUnit is the TOC indentation per subchapter level.
	IndentUnit int

	// UniqueAnchors suffixes repeated anchors with -2, -3, ...
	UniqueAnchors bool
}

func DefaultOptions() Options {
	return Options{
		NormalizeCellBreaks: true,
		AnchorSource:        AnchorFromHeading,
		IndentUnit:          20,
		UniqueAnchors:       true,
	}
}

// Renderer turns section content into document nodes and documents into
// outlines. It holds no mutable state and is safe for concurrent use.
type Renderer struct {
	opts Options
}

func New(opts Options) *Renderer {
	if opts.AnchorSource == "" {
		opts.AnchorSource = AnchorFromHeading
	}
	if opts.IndentUnit < 0 {
		opts.IndentUnit = 0
	}
	return &Renderer{opts: opts}
}

func (r *Renderer) Options() Options {
	return r.opts
}

var defaultRenderer = New(DefaultOptions())

// Segment renders content with the default options.
func Segment(content string) []Node {
	return defaultRenderer.Segment(content)
}
