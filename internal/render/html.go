package render

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WriteHTML serializes nodes as HTML. Output is built as an element tree
// and rendered by x/net/html, so text is always escaped. Link and image
// URLs outside http, https, mailto and relative references are dropped.
func WriteHTML(w io.Writer, nodes []Node) error {
	for _, n := range nodes {
		if err := html.Render(w, blockHTML(n)); err != nil {
			return fmt.Errorf("render %s: %w", n.Kind(), err)
		}
	}
	return nil
}

// HTML returns the serialized form of nodes.
func HTML(nodes []Node) (string, error) {
	var b strings.Builder
	if err := WriteHTML(&b, nodes); err != nil {
		return "", err
	}
	return b.String(), nil
}

func blockHTML(n Node) *html.Node {
	switch n := n.(type) {
	case Paragraph:
		return paragraphHTML(n)
	case BulletList:
		return listHTML("ul", n.Items)
	case NumberedList:
		return listHTML("ol", n.Items)
	case Table:
		return tableHTML(n)
	case Rule:
		return element("hr")
	default:
		return &html.Node{Type: html.CommentNode, Data: "unknown node"}
	}
}

func paragraphHTML(p Paragraph) *html.Node {
	// A line consumed whole by the legacy "* item" rule reads as a list.
	if len(p.Content) > 0 && allSpans(p.Content, func(s Span) bool { return s.Style.ListItem }) {
		return listHTML("ul", []Inline{p.Content})
	}

	tag := "p"
	if !allSpans(p.Content, func(s Span) bool { return !s.Style.Center && !s.Style.Equation }) {
		tag = "div"
	}
	el := element(tag)
	if p.Indented {
		setAttr(el, "class", "indented")
	}
	return appendAll(el, inlineHTML(p.Content))
}

func listHTML(tag string, items []Inline) *html.Node {
	list := element(tag)
	for _, item := range items {
		list.AppendChild(appendAll(element("li"), inlineHTML(item)))
	}
	return list
}

func tableHTML(t Table) *html.Node {
	head := element("tr")
	for _, h := range t.Headers {
		head.AppendChild(appendAll(element("th"), inlineHTML(h)))
	}
	body := element("tbody")
	for _, row := range t.Rows {
		tr := element("tr")
		for _, cell := range row {
			tr.AppendChild(appendAll(element("td"), inlineHTML(cell)))
		}
		body.AppendChild(tr)
	}

	table := element("table", "class", "postTable")
	table.AppendChild(appendAll(element("thead"), []*html.Node{head}))
	table.AppendChild(body)

	wrapper := element("div", "class", "tableWrapper")
	wrapper.AppendChild(table)
	return wrapper
}

func inlineHTML(in Inline) []*html.Node {
	var out []*html.Node
	for _, s := range in {
		out = append(out, spanHTML(s)...)
	}
	return out
}

func spanHTML(s Span) []*html.Node {
	st := s.Style

	var kids []*html.Node
	if s.IsImage() {
		src, ok := SafeURL(st.Src)
		if !ok {
			return nil
		}
		kids = []*html.Node{element("img", "src", src, "alt", "image")}
	} else {
		kids = textHTML(s.Text)
	}

	for _, w := range []struct {
		on  bool
		tag string
	}{
		{st.Sup, "sup"},
		{st.Sub, "sub"},
		{st.Code, "code"},
		{st.Underline, "u"},
		{st.Italic, "i"},
		{st.Bold, "b"},
	} {
		if w.on {
			kids = []*html.Node{appendAll(element(w.tag), kids)}
		}
	}

	if st.Href != "" {
		if href, ok := SafeURL(st.Href); ok {
			a := element("a", "href", href, "target", "_blank", "rel", "noopener noreferrer")
			kids = []*html.Node{appendAll(a, kids)}
		}
	}
	if st.Equation {
		kids = []*html.Node{appendAll(element("div", "class", "equation"), kids)}
	}
	if st.Center {
		kids = []*html.Node{appendAll(element("div", "class", "center"), kids)}
	}
	return kids
}

// textHTML splits text on line breaks, which only table cells carry.
func textHTML(text string) []*html.Node {
	var out []*html.Node
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			out = append(out, element("br"))
		}
		if line != "" {
			out = append(out, &html.Node{Type: html.TextNode, Data: line})
		}
	}
	return out
}

// SafeURL reports whether raw may be used as a link or image target.
func SafeURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.ContainsFunc(raw, func(r rune) bool { return r < ' ' || r == 0x7f }) {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	switch u.Scheme {
	case "", "http", "https", "mailto":
		return raw, true
	default:
		return "", false
	}
}

func element(tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(attrs); i += 2 {
		setAttr(n, attrs[i], attrs[i+1])
	}
	return n
}

func setAttr(n *html.Node, key, val string) {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func appendAll(parent *html.Node, kids []*html.Node) *html.Node {
	for _, k := range kids {
		parent.AppendChild(k)
	}
	return parent
}

func allSpans(in Inline, pred func(Span) bool) bool {
	for _, s := range in {
		if !pred(s) {
			return false
		}
	}
	return true
}
