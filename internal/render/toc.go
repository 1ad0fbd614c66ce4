package render

import (
	"regexp"
	"strconv"
	"strings"
)

// Trailer headings appended after the section entries.
const (
	QuotesHeading    = "Quotes I Like"
	TakeawaysHeading = "Key Takeaways"
	ResourcesHeading = "Resources & References"
)

// Fixed anchors for the trailer sections.
const (
	QuotesAnchor    = "quotes"
	TakeawaysAnchor = "key-takeaways"
	ResourcesAnchor = "resources"
)

var (
	numberPrefix  = regexp.MustCompile(`^(\d+(?:\.\d+)*)`)
	subchapter    = regexp.MustCompile(`^\d+\.\d+`)
	prefixAndGap  = regexp.MustCompile(`^\d+(?:\.\d+)*\s*`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Section is a titled piece of a document with raw markup content.
type Section struct {
	Heading string `json:"title"`
	Content string `json:"content"`
}

// Trailers says which optional trailer sections a document carries.
type Trailers struct {
	Quotes    bool
	Takeaways bool
	Resources bool
}

// TocEntry is one line of a document outline.
type TocEntry struct {
	Number  string `json:"number"`
	Title   string `json:"title"`
	Anchor  string `json:"anchor"`
	Depth   int    `json:"depth"`
	Indent  int    `json:"indent"`
	Trailer bool   `json:"trailer,omitempty"`
}

// BuildTOC renders the outline with the default options.
func BuildTOC(sections []Section, trailers Trailers) []TocEntry {
	return defaultRenderer.BuildTOC(sections, trailers)
}

// BuildTOC derives the outline of a document. Headings with a dotted
// numeric prefix keep it as their number; other headings are numbered by
// their position among main chapters, and trailers continue that count.
func (r *Renderer) BuildTOC(sections []Section, trailers Trailers) []TocEntry {
	entries := make([]TocEntry, 0, len(sections)+3)
	anchors := newAnchorSet(r.opts.UniqueAnchors)
	main := 0

	for _, s := range sections {
		heading := strings.TrimSpace(s.Heading)
		if !subchapter.MatchString(heading) {
			main++
		}

		e := TocEntry{
			Title:  HeadingTitle(heading),
			Anchor: anchors.claim(r.anchorFor(heading)),
		}
		if m := numberPrefix.FindString(heading); m != "" {
			e.Number = m
			e.Depth = strings.Count(m, ".")
			e.Indent = e.Depth * r.opts.IndentUnit
		} else {
			e.Number = strconv.Itoa(main)
		}
		entries = append(entries, e)
	}

	for _, t := range []struct {
		present bool
		title   string
		anchor  string
	}{
		{trailers.Quotes, QuotesHeading, QuotesAnchor},
		{trailers.Takeaways, TakeawaysHeading, TakeawaysAnchor},
		{trailers.Resources, ResourcesHeading, ResourcesAnchor},
	} {
		if !t.present {
			continue
		}
		main++
		entries = append(entries, TocEntry{
			Number:  strconv.Itoa(main),
			Title:   t.title,
			Anchor:  anchors.claim(t.anchor),
			Trailer: true,
		})
	}
	return entries
}

// HeadingTitle strips a leading section number: "5.1 Setup" -> "Setup".
func HeadingTitle(heading string) string {
	return strings.TrimSpace(prefixAndGap.ReplaceAllString(strings.TrimSpace(heading), ""))
}

// Anchor lower-cases text and joins whitespace runs with a hyphen.
func Anchor(text string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), "-")
}

func (r *Renderer) anchorFor(heading string) string {
	if r.opts.AnchorSource == AnchorFromTitle {
		return Anchor(HeadingTitle(heading))
	}
	return Anchor(heading)
}

// anchorSet hands out anchors, suffixing repeats with -2, -3, ...
type anchorSet struct {
	unique bool
	used   map[string]int
}

func newAnchorSet(unique bool) *anchorSet {
	return &anchorSet{unique: unique, used: make(map[string]int)}
}

func (a *anchorSet) claim(anchor string) string {
	if anchor == "" {
		anchor = "section"
	}
	if !a.unique {
		return anchor
	}
	a.used[anchor]++
	if a.used[anchor] == 1 {
		return anchor
	}
	for {
		candidate := anchor + "-" + strconv.Itoa(a.used[anchor])
		if _, taken := a.used[candidate]; !taken {
			a.used[candidate] = 1
			return candidate
		}
		a.used[anchor]++
	}
}
