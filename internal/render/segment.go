package render

import (
	"regexp"
	"strings"
)

const (
	ruleMarker   = "[hr]"
	indentMarker = "[indent]"
)

type blockKind int

const (
	blockRule blockKind = iota
	blockTable
	blockLineRun
)

// block is a top-level chunk of section content, classified but not yet built.
type block struct {
	kind blockKind
	raw  string
}

var blankLine = regexp.MustCompile(`\n[ \t]*\n`)

// splitBlocks cuts content on blank lines and classifies each part. Parts
// that look like tables are only candidates; Segment falls back to a line
// run when the table builder rejects them.
func splitBlocks(content string) []block {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	parts := blankLine.Split(content, -1)

	blocks := make([]block, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		switch {
		case trimmed == "":
			continue
		case trimmed == ruleMarker:
			blocks = append(blocks, block{kind: blockRule})
		case strings.Contains(part, "|"):
			blocks = append(blocks, block{kind: blockTable, raw: part})
		default:
			blocks = append(blocks, block{kind: blockLineRun, raw: part})
		}
	}
	return blocks
}

// Segment renders one section's content into document nodes, in source order.
func (r *Renderer) Segment(content string) []Node {
	var nodes []Node
	for _, b := range splitBlocks(content) {
		switch b.kind {
		case blockRule:
			nodes = append(nodes, Rule{})
		case blockTable:
			if t, ok := r.buildTable(b.raw); ok {
				nodes = append(nodes, t)
				continue
			}
			nodes = append(nodes, r.lineRun(b.raw)...)
		case blockLineRun:
			nodes = append(nodes, r.lineRun(b.raw)...)
		}
	}
	return nodes
}

// lineRun handles a part that is neither a bare rule nor a table. Each
// embedded [hr] becomes one Rule between the sub-parts around it.
func (r *Renderer) lineRun(raw string) []Node {
	var nodes []Node
	for i, sub := range strings.Split(raw, ruleMarker) {
		if i > 0 {
			nodes = append(nodes, Rule{})
		}
		sub = strings.Trim(sub, "\n")
		if strings.TrimSpace(sub) == "" {
			continue
		}
		if list, ok := buildList(sub); ok {
			nodes = append(nodes, list)
			continue
		}
		nodes = append(nodes, paragraphs(sub)...)
	}
	return nodes
}

// paragraphs emits one Paragraph per non-blank line. A leading tab or
// [indent] marks the paragraph as indented. The first [indent] is removed
// wherever it sits on the line.
func paragraphs(raw string) []Node {
	var nodes []Node
	for _, line := range strings.Split(raw, "\n") {
		indented := false
		switch {
		case strings.HasPrefix(line, "\t"):
			line, indented = line[1:], true
		case strings.Contains(line, indentMarker):
			indented = strings.HasPrefix(line, indentMarker)
			line = strings.Replace(line, indentMarker, "", 1)
		}
		content := trimInline(Format(strings.TrimSpace(line)))
		if content.Empty() {
			continue
		}
		nodes = append(nodes, Paragraph{Content: content, Indented: indented})
	}
	return nodes
}

// trimInline trims surrounding whitespace off the outer spans and drops
// spans left empty.
func trimInline(in Inline) Inline {
	var out Inline
	for i, s := range in {
		if !s.IsImage() {
			if i == 0 {
				s.Text = strings.TrimLeft(s.Text, " \t")
			}
			if i == len(in)-1 {
				s.Text = strings.TrimRight(s.Text, " \t")
			}
			if s.Text == "" {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}
