package render

import (
	"regexp"
	"strings"
)

// The inline pass is a substitution chain: every rule rewrites the whole
// string, and later rules see the output of earlier ones. Instead of emitting markup, a rule wraps its match in
// private-use marker runes which are flattened into spans at the end, so
// the result is structured content and never raw HTML.
const (
	markOpen  = '\uE000'
	markClose = '\uE001'
	kindBase  = '\uE010'
	recBase   = '\uF000'
	recNone   = '\uF7FF'
	maxRecs   = int(recNone - recBase)
)

type markKind int

const (
	markBold markKind = iota
	markItalic
	markCode
	markEquation
	markUnderline
	markImage
	markLink
	markCenter
	markSub
	markSup
	markListItem
	markCount
)

type inlineRule struct {
	name    string
	pattern *regexp.Regexp
	mark    markKind
	body    int // submatch holding the wrapped text, 0 for none
	attr    int // submatch holding the href/src, 0 for none
	trim    bool
}

// inlineRules is applied in order. Order is part of the markup contract.
var inlineRules = []inlineRule{
	{name: "bold", pattern: regexp.MustCompile(`\*\*(.*?)\*\*`), mark: markBold, body: 1},
	{name: "bold-tag", pattern: regexp.MustCompile(`\[\[bold\]\](.*?)\[\[/bold\]\]`), mark: markBold, body: 1},
	{name: "italic", pattern: regexp.MustCompile(`_(.*?)_`), mark: markItalic, body: 1},
	{name: "code", pattern: regexp.MustCompile("`(.*?)`"), mark: markCode, body: 1},
	{name: "equation", pattern: regexp.MustCompile(`\[eq\](.*?)\[/eq\]`), mark: markEquation, body: 1},
	{name: "underline", pattern: regexp.MustCompile(`\[u\](.*?)\[/u\]`), mark: markUnderline, body: 1},
	{name: "image", pattern: regexp.MustCompile(`\[img\](.*?)\[/img\]`), mark: markImage, attr: 1},
	{name: "link", pattern: regexp.MustCompile(`\[link (.*?)\]\((.*?)\)`), mark: markLink, body: 1, attr: 2},
	{name: "center", pattern: regexp.MustCompile(`\[center\](.*?)\[/center\]`), mark: markCenter, body: 1},
	{name: "sub", pattern: regexp.MustCompile(`\[sub\](.*?)\[/sub\]`), mark: markSub, body: 1},
	{name: "sup", pattern: regexp.MustCompile(`\[sup\](.*?)\[/sup\]`), mark: markSup, body: 1},
	{name: "list-item", pattern: regexp.MustCompile(`(?m)(?:\n|^)\*(.*?)$`), mark: markListItem, body: 1, trim: true},
}

// Format converts the inline pseudo-markup of one line or table cell into
// formatted text. Unmatched or malformed markup is kept as literal text.
func Format(text string) Inline {
	f := &formatter{}
	s := stripPrivateUse(text)
	for _, rule := range inlineRules {
		s = f.apply(rule, s)
	}
	return f.flatten(s)
}

type formatter struct {
	recs []markRec
}

// markRec remembers what a marker pair replaced, so that attribute values
// captured by later rules can be restored to their source text.
type markRec struct {
	attr  string
	open  string
	close string
}

func (f *formatter) apply(rule inlineRule, text string) string {
	matches := rule.pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])

		rec := markRec{open: f.unmark(text[m[0]:m[1]])}
		body := ""
		if start, end, ok := group(m, rule.body); ok {
			body = text[start:end]
			rec.open, rec.close = f.unmark(text[m[0]:start]), f.unmark(text[end:m[1]])
		}
		if rule.trim {
			body = strings.TrimSpace(body)
		}
		if start, end, ok := group(m, rule.attr); ok {
			rec.attr = strings.TrimSpace(f.unmark(text[start:end]))
		}
		id := f.record(rec)

		b.WriteRune(markOpen)
		b.WriteRune(kindBase + rune(rule.mark))
		b.WriteRune(id)
		b.WriteString(body)
		b.WriteRune(markClose)
		b.WriteRune(kindBase + rune(rule.mark))
		b.WriteRune(id)
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func (f *formatter) record(rec markRec) rune {
	if len(f.recs) >= maxRecs {
		return recNone
	}
	f.recs = append(f.recs, rec)
	return recBase + rune(len(f.recs)-1)
}

func (f *formatter) lookup(r rune) (markRec, bool) {
	idx := int(r - recBase)
	if r == recNone || idx < 0 || idx >= len(f.recs) {
		return markRec{}, false
	}
	return f.recs[idx], true
}

// unmark restores the source text behind any markers in s.
func (f *formatter) unmark(s string) string {
	if !strings.ContainsFunc(s, isPrivateUse) {
		return s
	}
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case markOpen, markClose:
			if i+2 >= len(runes) {
				return b.String()
			}
			if rec, ok := f.lookup(runes[i+2]); ok {
				if runes[i] == markOpen {
					b.WriteString(rec.open)
				} else {
					b.WriteString(rec.close)
				}
			}
			i += 2
		default:
			if !isPrivateUse(runes[i]) {
				b.WriteRune(runes[i])
			}
		}
	}
	return b.String()
}

// flatten turns marked-up text into spans. Open/close markers are counted
// per kind, so crossing markup still yields a consistent flag set.
func (f *formatter) flatten(s string) Inline {
	var (
		out   Inline
		cur   strings.Builder
		depth [markCount]int
		hrefs []string
	)

	style := func() Style {
		st := Style{
			Bold:      depth[markBold] > 0,
			Italic:    depth[markItalic] > 0,
			Code:      depth[markCode] > 0,
			Underline: depth[markUnderline] > 0,
			Sub:       depth[markSub] > 0,
			Sup:       depth[markSup] > 0,
			Equation:  depth[markEquation] > 0,
			Center:    depth[markCenter] > 0,
			ListItem:  depth[markListItem] > 0,
		}
		if len(hrefs) > 0 {
			st.Href = hrefs[len(hrefs)-1]
		}
		return st
	}

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		out = appendSpan(out, Span{Text: cur.String(), Style: style()})
		cur.Reset()
	}

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case markOpen:
			if i+2 >= len(runes) {
				i = len(runes)
				continue
			}
			flush()
			kind := markKind(runes[i+1] - kindBase)
			rec, _ := f.lookup(runes[i+2])
			i += 2
			if kind < 0 || kind >= markCount {
				continue
			}
			switch kind {
			case markImage:
				if rec.attr != "" {
					st := style()
					st.Src = rec.attr
					out = append(out, Span{Style: st})
				}
			case markLink:
				hrefs = append(hrefs, rec.attr)
			}
			depth[kind]++
		case markClose:
			if i+2 >= len(runes) {
				i = len(runes)
				continue
			}
			flush()
			kind := markKind(runes[i+1] - kindBase)
			i += 2
			if kind < 0 || kind >= markCount || depth[kind] == 0 {
				continue
			}
			depth[kind]--
			if kind == markLink && len(hrefs) > 0 {
				hrefs = hrefs[:len(hrefs)-1]
			}
		default:
			cur.WriteRune(runes[i])
		}
	}
	flush()
	return out
}

// appendSpan merges s into the previous span when both share a style.
func appendSpan(out Inline, s Span) Inline {
	if n := len(out); n > 0 && !out[n-1].IsImage() && !s.IsImage() && out[n-1].Style == s.Style {
		out[n-1].Text += s.Text
		return out
	}
	return append(out, s)
}

func group(m []int, n int) (start, end int, ok bool) {
	if n <= 0 || 2*n+1 >= len(m) || m[2*n] < 0 {
		return 0, 0, false
	}
	return m[2*n], m[2*n+1], true
}

// stripPrivateUse drops runes from the private-use area, which the inline
// pass reserves for its own markers.
func stripPrivateUse(s string) string {
	if !strings.ContainsFunc(s, isPrivateUse) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isPrivateUse(r) {
			return -1
		}
		return r
	}, s)
}

func isPrivateUse(r rune) bool {
	return r >= '\uE000' && r <= '\uF8FF'
}
