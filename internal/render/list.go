package render

import (
	"regexp"
	"strings"
)

var numberedMarker = regexp.MustCompile(`^\d+[.)]`)

func isBulletRun(raw string) bool {
	return strings.HasPrefix(strings.TrimSpace(raw), "*")
}

func isNumberedRun(raw string) bool {
	return numberedMarker.MatchString(strings.TrimSpace(raw))
}

// buildList turns a run of lines into a bullet or numbered list, one item
// per line. The run must not contain blank lines; the segmenter splits on
// them first.
func buildList(raw string) (Node, bool) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	switch {
	case isBulletRun(raw):
		items := make([]Inline, 0, len(lines))
		for _, line := range lines {
			item := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
			items = append(items, listItem(item))
		}
		return BulletList{Items: items}, true
	case isNumberedRun(raw):
		items := make([]Inline, 0, len(lines))
		for _, line := range lines {
			item := strings.TrimSpace(numberedMarker.ReplaceAllString(strings.TrimSpace(line), ""))
			items = append(items, listItem(item))
		}
		return NumberedList{Items: items}, true
	default:
		return nil, false
	}
}

// listItem formats one item. A second leading "*" is consumed by the
// legacy list-item rule; its flag is dropped since the item already is one.
func listItem(text string) Inline {
	item := Format(text)
	for i := range item {
		item[i].Style.ListItem = false
	}
	item = mergeSpans(item)
	if len(item) > 0 && !item[0].IsImage() {
		item[0].Text = strings.TrimPrefix(item[0].Text, "*")
	}
	return trimInline(item)
}

func mergeSpans(in Inline) Inline {
	var out Inline
	for _, s := range in {
		out = appendSpan(out, s)
	}
	return out
}
