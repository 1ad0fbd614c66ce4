package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func para(text string) Paragraph {
	return Paragraph{Content: Plain(text)}
}

func TestSegment_RuleBetweenParagraphs(t *testing.T) {
	got := Segment("Para one.\n\n[hr]\n\nPara two.")
	assert.Equal(t, []Node{para("Para one."), Rule{}, para("Para two.")}, got)
}

func TestSegment_EmbeddedRules(t *testing.T) {
	assert.Equal(t, []Node{para("one"), Rule{}, para("two")}, Segment("one\n[hr]\ntwo"))
	assert.Equal(t, []Node{para("text"), Rule{}}, Segment("text [hr]"))
	assert.Equal(t, []Node{Rule{}, Rule{}, para("x")}, Segment("[hr][hr]x"))
}

func TestSegment_OneParagraphPerLine(t *testing.T) {
	got := Segment("first line\nsecond **line**\n\nthird")
	require.Len(t, got, 3)
	assert.Equal(t, para("first line"), got[0])
	assert.Equal(t, Paragraph{Content: Inline{{Text: "second "}, {Text: "line", Style: Style{Bold: true}}}}, got[1])
	assert.Equal(t, para("third"), got[2])
}

func TestSegment_Indentation(t *testing.T) {
	got := Segment("\tTabbed\n[indent]Marked\nplain")
	assert.Equal(t, []Node{
		Paragraph{Content: Plain("Tabbed"), Indented: true},
		Paragraph{Content: Plain("Marked"), Indented: true},
		para("plain"),
	}, got)
}

func TestSegment_IndentMarkerMidLine(t *testing.T) {
	assert.Equal(t, []Node{para("foo  bar")}, Segment("foo [indent] bar"))
	assert.Equal(t, []Node{para("a b[indent]")}, Segment("a [indent]b[indent]"))
}

func TestSegment_CRLF(t *testing.T) {
	assert.Equal(t, []Node{para("a"), para("b")}, Segment("a\r\n\r\nb"))
}

func TestSegment_Table(t *testing.T) {
	got := Segment("intro\n\nName | Age\nBob | 30\n| Ann |\n\noutro")
	require.Len(t, got, 3)

	table, ok := got[1].(Table)
	require.True(t, ok, "expected a table, got %T", got[1])
	assert.Equal(t, []Inline{Plain("Name"), Plain("Age")}, table.Headers)
	assert.Equal(t, [][]Inline{
		{Plain("Bob"), Plain("30")},
		{Plain("Ann")},
	}, table.Rows)
}

func TestSegment_TableHeaderCellCount(t *testing.T) {
	r := New(DefaultOptions())
	table, ok := r.buildTable("| a | b | c |\n1 | 2")
	require.True(t, ok)
	assert.Len(t, table.Headers, 3)
	assert.Len(t, table.Rows[0], 2)
}

func TestSegment_NotATable(t *testing.T) {
	r := New(DefaultOptions())
	_, ok := r.buildTable("a | b")
	assert.False(t, ok, "single line")
	_, ok = r.buildTable("a b\nc | d")
	assert.False(t, ok, "no pipe in header")

	assert.Equal(t, []Node{para("a | b")}, Segment("a | b"))
	assert.Equal(t, []Node{para("a b"), para("c | d")}, Segment("a b\nc | d"))
}

func TestSegment_CellBreaks(t *testing.T) {
	raw := "H1 | H2\nline one[br]line two | x<br/>y"

	table, ok := New(DefaultOptions()).buildTable(raw)
	require.True(t, ok)
	assert.Equal(t, Plain("line one\nline two"), table.Rows[0][0])
	assert.Equal(t, Plain("x\ny"), table.Rows[0][1])

	opts := DefaultOptions()
	opts.NormalizeCellBreaks = false
	table, ok = New(opts).buildTable(raw)
	require.True(t, ok)
	assert.Equal(t, Plain("line one[br]line two"), table.Rows[0][0])
}

func TestSegment_CellBreakBeforeStar(t *testing.T) {
	r := New(DefaultOptions())
	table, ok := r.buildTable("H\na[br]*b")
	require.True(t, ok)
	assert.Equal(t, Plain("a\nb"), table.Rows[0][0])

	html, err := HTML([]Node{table})
	require.NoError(t, err)
	assert.Contains(t, html, "a<br/>b")
	assert.NotContains(t, html, "<li>")
}

func TestSegment_BulletList(t *testing.T) {
	got := Segment("* one\n* two **b**\n*three")
	assert.Equal(t, []Node{BulletList{Items: []Inline{
		Plain("one"),
		{{Text: "two "}, {Text: "b", Style: Style{Bold: true}}},
		Plain("three"),
	}}}, got)
}

func TestSegment_NumberedList(t *testing.T) {
	assert.Equal(t, []Node{NumberedList{Items: []Inline{Plain("first"), Plain("second")}}},
		Segment("1. first\n2) second"))
	assert.Equal(t, []Node{NumberedList{Items: []Inline{Plain("only")}}}, Segment("1) only"))
}

func TestSegment_BlankLineEndsListRun(t *testing.T) {
	want := []Node{
		BulletList{Items: []Inline{Plain("a")}},
		BulletList{Items: []Inline{Plain("b")}},
	}
	assert.Equal(t, want, Segment("* a\n\n* b"))
	assert.Equal(t, want, Segment("* a\n   \n* b"))
}

func TestSegment_ListAroundRule(t *testing.T) {
	got := Segment("* a\n* b\n[hr]\n1. c")
	assert.Equal(t, []Node{
		BulletList{Items: []Inline{Plain("a"), Plain("b")}},
		Rule{},
		NumberedList{Items: []Inline{Plain("c")}},
	}, got)
}

func TestSegment_Empty(t *testing.T) {
	assert.Empty(t, Segment(""))
	assert.Empty(t, Segment("\n\n  \n\n"))
}
