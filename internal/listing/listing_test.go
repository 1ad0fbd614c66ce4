package listing

import (
	"net/url"
	"testing"

	"folio/internal/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(id int, title, sub, subject, date string) content.Post {
	t, err := content.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return content.Post{ID: id, Title: title, Subcategory: sub, Subject: subject, DatePosted: date, Posted: t}
}

func fixture() []content.Post {
	return []content.Post{
		post(1, "Sleep Pressure", "General Wellness", "Sleep", "2023-05-01"),
		post(2, "Compound Interest", "Mathematics", "Finance", "2024-02-01"),
		post(3, "Stoic Mornings", "Philosophy", "Stoicism", "2024-06-01"),
		post(4, "Protein Timing", "Nutrition", "Diet", "2022-09-01"),
		post(5, "Prime Gaps", "Mathematics", "Number Theory", "2024-01-15"),
	}
}

func ids(posts []content.Post) []int {
	var out []int
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterFromQuery(t *testing.T) {
	assert.Len(t, FilterFromQuery(FilterAll), 12)
	assert.Len(t, FilterFromQuery(BrowseAllLabel), 12)
	assert.Equal(t, []string{"Science", "Technology", "Engineering", "Mathematics"}, FilterFromQuery("STEM").Names())
	assert.Equal(t, []string{"Misc."}, FilterFromQuery("Misc.").Names())
	assert.Empty(t, FilterFromQuery("Cooking"))
	assert.Empty(t, FilterFromQuery(""))
}

func TestSelectionFromValues(t *testing.T) {
	q := url.Values{"sub": {"Fitness", "Bogus", "Science"}}
	assert.Equal(t, []string{"Science", "Fitness"}, SelectionFromValues(q).Names())

	q = url.Values{"filter": {"LIFE"}}
	assert.Len(t, SelectionFromValues(q), 4)

	sel := FilterFromQuery("HEALTH")
	assert.Equal(t, sel, SelectionFromValues(sel.Values()))
}

func TestToggleCategory(t *testing.T) {
	sel := Selection{"Science": true, "Technology": true}
	// Two of four is at most half: select all.
	sel = sel.ToggleCategory("STEM")
	assert.Len(t, sel, 4)
	assert.True(t, sel.CategorySelected("STEM"))

	sel = sel.ToggleCategory("STEM")
	assert.Empty(t, sel)

	sel = Selection{"Science": true, "Technology": true, "Engineering": true, "Fitness": true}
	sel = sel.ToggleCategory("STEM")
	assert.Equal(t, []string{"Fitness"}, sel.Names())
}

func TestToggleSubcategory(t *testing.T) {
	sel := Selection{}.ToggleSubcategory("Fitness")
	assert.True(t, sel["Fitness"])
	assert.Empty(t, sel.ToggleSubcategory("Fitness"))
	assert.Empty(t, Selection{}.ToggleSubcategory("Bogus"))
}

func TestBrowse_NewestGroupsByYear(t *testing.T) {
	res := Browse(fixture(), FilterFromQuery(FilterAll), SortNewest, 1, 10)
	require.Len(t, res.Groups, 3)
	assert.Equal(t, "2024", res.Groups[0].Label)
	assert.Equal(t, []int{3, 2, 5}, ids(res.Groups[0].Posts))
	assert.Equal(t, "2023", res.Groups[1].Label)
	assert.Equal(t, "2022", res.Groups[2].Label)
}

func TestBrowse_OldestGroupsByYear(t *testing.T) {
	res := Browse(fixture(), FilterFromQuery(FilterAll), SortOldest, 1, 10)
	require.Len(t, res.Groups, 3)
	assert.Equal(t, []string{"2022", "2023", "2024"}, []string{res.Groups[0].Label, res.Groups[1].Label, res.Groups[2].Label})
	assert.Equal(t, []int{5, 2, 3}, ids(res.Groups[2].Posts))
}

func TestBrowse_AlphabeticalGroupsBySubject(t *testing.T) {
	res := Browse(fixture(), FilterFromQuery("STEM"), SortAZ, 1, 10)
	require.Len(t, res.Groups, 2)
	assert.Equal(t, "Finance", res.Groups[0].Label)
	assert.Equal(t, "Number Theory", res.Groups[1].Label)

	res = Browse(fixture(), FilterFromQuery("STEM"), SortZA, 1, 10)
	assert.Equal(t, "Number Theory", res.Groups[0].Label)
}

func TestBrowse_Paging(t *testing.T) {
	res := Browse(fixture(), FilterFromQuery(FilterAll), SortNewest, 2, 2)
	assert.Equal(t, 3, res.Page.TotalPages)
	assert.Equal(t, 2, res.Page.Current)

	// Grouping happens after paging, so page two straddles two years.
	require.Len(t, res.Groups, 2)
	assert.Equal(t, "2024", res.Groups[0].Label)
	assert.Equal(t, []int{5}, ids(res.Groups[0].Posts))
	assert.Equal(t, "2023", res.Groups[1].Label)
	assert.Equal(t, []int{1}, ids(res.Groups[1].Posts))
}

func TestBrowse_EmptySelection(t *testing.T) {
	res := Browse(fixture(), Selection{}, SortNewest, 1, 10)
	assert.Empty(t, res.Groups)
	assert.Equal(t, 0, res.Page.TotalPages)
	assert.Equal(t, 1, res.Page.Current)
}

func TestParseSort(t *testing.T) {
	opt, err := ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, SortNewest, opt)

	opt, err = ParseSort("za")
	require.NoError(t, err)
	assert.Equal(t, SortZA, opt)

	_, err = ParseSort("random")
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	posts := fixture()
	assert.Equal(t, []int{2, 5}, ids(Search(posts, "MATH")))
	assert.Equal(t, []int{1}, ids(Search(posts, "sleep")))
	assert.Equal(t, []int{3}, ids(Search(posts, "stoic")))
	assert.Empty(t, Search(posts, ""))
	assert.Empty(t, Search(posts, "   "))
	assert.Empty(t, Search(posts, "zebra"))
}

func TestSearchPage(t *testing.T) {
	hits, pg := SearchPage(fixture(), "i", 2, 2)
	assert.Equal(t, 2, pg.Current)
	assert.Len(t, hits, 2)

	hits, pg = SearchPage(fixture(), "zebra", 5, 2)
	assert.Empty(t, hits)
	assert.Equal(t, 1, pg.Current)
}

func TestPaginate(t *testing.T) {
	cases := []struct {
		name            string
		total, per, cur int
		wantCur         int
		wantPages       []int
		first, lead     bool
		last, trail     bool
	}{
		{"middle", 100, 10, 5, 5, []int{4, 5, 6}, true, true, true, true},
		{"start", 100, 10, 1, 1, []int{1, 2, 3}, false, false, true, true},
		{"end", 100, 10, 10, 10, []int{8, 9, 10}, true, true, false, false},
		{"near start", 100, 10, 3, 3, []int{2, 3, 4}, true, false, true, true},
		{"clamped high", 25, 10, 99, 3, []int{1, 2, 3}, false, false, false, false},
		{"clamped low", 25, 10, -4, 1, []int{1, 2, 3}, false, false, false, false},
		{"empty", 0, 10, 1, 1, nil, false, false, false, false},
		{"single", 3, 10, 1, 1, []int{1}, false, false, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Paginate(tc.total, tc.per, tc.cur)
			assert.Equal(t, tc.wantCur, p.Current)
			assert.Equal(t, tc.wantPages, p.Pages)
			assert.Equal(t, tc.first, p.ShowFirst, "show first")
			assert.Equal(t, tc.lead, p.LeadingEllipsis, "leading ellipsis")
			assert.Equal(t, tc.last, p.ShowLast, "show last")
			assert.Equal(t, tc.trail, p.TrailingEllipsis, "trailing ellipsis")
		})
	}
}

func TestPagination_Bounds(t *testing.T) {
	start, end := Paginate(25, 10, 3).Bounds()
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)

	p := Paginate(25, 10, 2)
	assert.Equal(t, 1, p.Prev)
	assert.Equal(t, 3, p.Next)
	assert.True(t, p.HasPrev())
	assert.True(t, p.HasNext())
}
