package render

import "strings"

// HeadingTier is the display size class of a section heading.
type HeadingTier int

const (
	TierChapter    HeadingTier = iota // "Intro", "3 Results"
	TierSection                       // "3.1 ..."
	TierSubsection                    // "3.1.2 ..."
)

func (t HeadingTier) String() string {
	switch t {
	case TierSection:
		return "section"
	case TierSubsection:
		return "subsection"
	default:
		return "chapter"
	}
}

// Tier classifies a heading by the depth of its numeric prefix.
func Tier(heading string) HeadingTier {
	m := numberPrefix.FindString(strings.TrimSpace(heading))
	switch n := strings.Count(m, "."); {
	case n >= 2:
		return TierSubsection
	case n == 1:
		return TierSection
	default:
		return TierChapter
	}
}

// RenderedSection is one section ready for display.
type RenderedSection struct {
	Entry TocEntry    `json:"toc"`
	Tier  HeadingTier `json:"tier"`
	Nodes []Node      `json:"nodes"`
}

// Rendered is a whole document: its outline and its rendered sections.
// Trailer content is left to the caller; only its outline entries are here.
type Rendered struct {
	TOC      []TocEntry        `json:"toc"`
	Sections []RenderedSection `json:"sections"`
}

// Render renders every section and the outline. Section anchors match
// the TOC anchors one to one.
func (r *Renderer) Render(sections []Section, trailers Trailers) Rendered {
	toc := r.BuildTOC(sections, trailers)
	out := Rendered{
		TOC:      toc,
		Sections: make([]RenderedSection, 0, len(sections)),
	}
	for i, s := range sections {
		out.Sections = append(out.Sections, RenderedSection{
			Entry: toc[i],
			Tier:  Tier(s.Heading),
			Nodes: r.Segment(s.Content),
		})
	}
	return out
}
