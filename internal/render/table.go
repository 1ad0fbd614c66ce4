package render

import (
	"regexp"
	"strings"
)

var cellBreak = regexp.MustCompile(`(?i)\[br\]|<br\s*/?>`)

// buildTable parses a pipe-delimited block. The first line is the header.
// It reports false when the block has fewer than two lines or the header
// has no pipe.
func (r *Renderer) buildTable(raw string) (Table, bool) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) < 2 || !strings.Contains(lines[0], "|") {
		return Table{}, false
	}

	t := Table{
		Headers: r.tableCells(lines[0]),
		Rows:    make([][]Inline, 0, len(lines)-1),
	}
	for _, line := range lines[1:] {
		t.Rows = append(t.Rows, r.tableCells(line))
	}
	return t, true
}

// tableCells splits a row on pipes and drops empty cells, so rows may be
// shorter or longer than the header.
func (r *Renderer) tableCells(line string) []Inline {
	var cells []Inline
	for _, c := range strings.Split(line, "|") {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		cells = append(cells, r.cell(c))
	}
	return cells
}

// cell formats each break-separated piece on its own so the legacy list
// rule cannot swallow a line break. Cells are never list containers.
func (r *Renderer) cell(text string) Inline {
	pieces := []string{text}
	if r.opts.NormalizeCellBreaks {
		pieces = cellBreak.Split(text, -1)
	}

	var out Inline
	for i, piece := range pieces {
		if i > 0 {
			out = appendSpan(out, Span{Text: "\n"})
		}
		for _, s := range Format(piece) {
			s.Style.ListItem = false
			out = appendSpan(out, s)
		}
	}
	return out
}
