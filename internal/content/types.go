package content

import (
	"strconv"
	"time"

	"folio/internal/render"
)

// Resource is an external reference listed at the end of a document.
type Resource struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type Quote struct {
	Quote string `json:"quote"`
}

// Post is one entry of the posts dataset.
type Post struct {
	ID                int        `json:"id"`
	Title             string     `json:"title"`
	DatePosted        string     `json:"datePosted"`
	Subcategory       string     `json:"subcategory"`
	Subject           string     `json:"subject"`
	ConfidenceScore   float64    `json:"confidenceScore"`
	YoutubeID         string     `json:"youtubeID,omitempty"`
	Hook              string     `json:"hook,omitempty"`
	Featured          bool       `json:"featured,omitempty"`
	SummaryPoints     []string   `json:"summaryPoints,omitempty"`
	DetailedContent   string     `json:"detailedContent,omitempty"`
	PracticalExamples string     `json:"practicalExamples,omitempty"`
	Resources         []Resource `json:"resources,omitempty"`
	Quotes            []Quote    `json:"quotes,omitempty"`
	RelatedPosts      []int      `json:"relatedPosts,omitempty"`

	// Posted is DatePosted parsed at load time.
	Posted time.Time `json:"-"`
}

// Section headings a post's body is split into.
const (
	ElaborationHeading = "Elaboration"
	ExamplesHeading    = "Practical Examples"
)

// Document converts the post into the common document shape.
func (p Post) Document() Document {
	var sections []render.Section
	if p.DetailedContent != "" {
		sections = append(sections, render.Section{Heading: ElaborationHeading, Content: p.DetailedContent})
	}
	if p.PracticalExamples != "" {
		sections = append(sections, render.Section{Heading: ExamplesHeading, Content: p.PracticalExamples})
	}
	return Document{
		Kind:          KindPost,
		Key:           strconv.Itoa(p.ID),
		Title:         p.Title,
		Sections:      sections,
		SummaryPoints: p.SummaryPoints,
		Quotes:        p.Quotes,
		Resources:     p.Resources,
	}
}

// PortfolioItem is one entry of the portfolio dataset. A missing DateTo
// means the work is ongoing.
type PortfolioItem struct {
	Slug          string           `json:"slug"`
	Title         string           `json:"title"`
	Description   string           `json:"description,omitempty"`
	YoutubeID     string           `json:"youtubeID,omitempty"`
	Image         string           `json:"image,omitempty"`
	DateFrom      string           `json:"dateFrom"`
	DateTo        string           `json:"dateTo,omitempty"`
	Sections      []render.Section `json:"sections,omitempty"`
	SummaryPoints []string         `json:"summaryPoints,omitempty"`
	Resources     []Resource       `json:"resources,omitempty"`

	From time.Time `json:"-"`
	To   time.Time `json:"-"` // zero while ongoing
}

func (p PortfolioItem) Ongoing() bool {
	return p.To.IsZero()
}

func (p PortfolioItem) Document() Document {
	return Document{
		Kind:          KindPortfolio,
		Key:           p.Slug,
		Title:         p.Title,
		Sections:      p.Sections,
		SummaryPoints: p.SummaryPoints,
		Resources:     p.Resources,
	}
}

type Kind string

const (
	KindPost      Kind = "post"
	KindPortfolio Kind = "portfolio"
)

// Document is the renderable view shared by posts and portfolio items.
type Document struct {
	Kind          Kind             `json:"kind"`
	Key           string           `json:"key"`
	Title         string           `json:"title"`
	Sections      []render.Section `json:"sections"`
	SummaryPoints []string         `json:"summaryPoints,omitempty"`
	Quotes        []Quote          `json:"quotes,omitempty"`
	Resources     []Resource       `json:"resources,omitempty"`
}

// Trailers reports which optional trailer sections are present.
func (d Document) Trailers() render.Trailers {
	return render.Trailers{
		Quotes:    len(d.Quotes) > 0,
		Takeaways: len(d.SummaryPoints) > 0,
		Resources: len(d.Resources) > 0,
	}
}

// Render renders the document's sections and outline.
func (d Document) Render(r *render.Renderer) render.Rendered {
	return r.Render(d.Sections, d.Trailers())
}
