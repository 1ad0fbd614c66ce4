package render

import (
	"encoding/json"
	"strings"
)

// Style is the flat set of inline attributes carried by a span.
// Inline formatting never nests into a tree; overlapping markup just
// combines flags on the affected text.
type Style struct {
	Bold      bool `json:"bold,omitempty"`
	Italic    bool `json:"italic,omitempty"`
	Code      bool `json:"code,omitempty"`
	Underline bool `json:"underline,omitempty"`
	Sub       bool `json:"sub,omitempty"`
	Sup       bool `json:"sup,omitempty"`

	// Equation and Center are block containers even though they are
	// produced by the inline pass.
	Equation bool `json:"equation,omitempty"`
	Center   bool `json:"center,omitempty"`

	// ListItem marks text produced by the legacy "* line" fallback.
	ListItem bool `json:"list_item,omitempty"`

	Href string `json:"href,omitempty"` // external link target
	Src  string `json:"src,omitempty"`  // inline image source
}

// Span is a run of text with uniform style.
type Span struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`
}

// IsImage reports whether the span stands for an inline image.
func (s Span) IsImage() bool {
	return s.Style.Src != ""
}

// Inline is formatted text: plain text interleaved with styled spans.
type Inline []Span

// Plain creates Inline content from unstyled text.
func Plain(text string) Inline {
	if text == "" {
		return nil
	}
	return Inline{{Text: text}}
}

// PlainText returns the concatenated text of all spans.
func (in Inline) PlainText() string {
	var b strings.Builder
	for _, s := range in {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Empty reports whether the content has neither text nor images.
func (in Inline) Empty() bool {
	for _, s := range in {
		if s.Text != "" || s.IsImage() {
			return false
		}
	}
	return true
}

// Kind identifies a DocumentNode variant.
type Kind int

const (
	KindParagraph Kind = iota
	KindBulletList
	KindNumberedList
	KindTable
	KindRule
)

func (k Kind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindBulletList:
		return "bullet_list"
	case KindNumberedList:
		return "numbered_list"
	case KindTable:
		return "table"
	case KindRule:
		return "rule"
	default:
		return "unknown"
	}
}

// Node is one rendered structural unit of a section.
type Node interface {
	Kind() Kind
}

// Paragraph is a single line of formatted text.
type Paragraph struct {
	Content  Inline
	Indented bool
}

// BulletList is an unordered list; each item is one source line.
type BulletList struct {
	Items []Inline
}

// NumberedList is an ordered list; each item is one source line.
type NumberedList struct {
	Items []Inline
}

// Table is a header row plus body rows. Rows are not padded to the
// header width.
type Table struct {
	Headers []Inline
	Rows    [][]Inline
}

// Rule is a horizontal rule.
type Rule struct{}

func (Paragraph) Kind() Kind    { return KindParagraph }
func (BulletList) Kind() Kind   { return KindBulletList }
func (NumberedList) Kind() Kind { return KindNumberedList }
func (Table) Kind() Kind        { return KindTable }
func (Rule) Kind() Kind         { return KindRule }

func (p Paragraph) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind     string `json:"kind"`
		Content  Inline `json:"content"`
		Indented bool   `json:"indented,omitempty"`
	}{p.Kind().String(), p.Content, p.Indented})
}

func (l BulletList) MarshalJSON() ([]byte, error) {
	return marshalList(l.Kind(), l.Items)
}

func (l NumberedList) MarshalJSON() ([]byte, error) {
	return marshalList(l.Kind(), l.Items)
}

func marshalList(k Kind, items []Inline) ([]byte, error) {
	return json.Marshal(struct {
		Kind  string   `json:"kind"`
		Items []Inline `json:"items"`
	}{k.String(), items})
}

func (t Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string     `json:"kind"`
		Headers []Inline   `json:"headers"`
		Rows    [][]Inline `json:"rows"`
	}{t.Kind().String(), t.Headers, t.Rows})
}

func (r Rule) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
	}{r.Kind().String()})
}
