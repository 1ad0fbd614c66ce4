package listing

import (
	"fmt"
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"folio/internal/content"
)

type SortOption string

const (
	SortNewest SortOption = "newest"
	SortOldest SortOption = "oldest"
	SortAZ     SortOption = "az"
	SortZA     SortOption = "za"
)

// SortOptions lists the options in display order.
var SortOptions = []struct {
	Value SortOption
	Label string
}{
	{SortNewest, "Date: Newest first"},
	{SortOldest, "Date: Oldest first"},
	{SortAZ, "Subject: A-Z"},
	{SortZA, "Subject: Z-A"},
}

// ParseSort defaults to newest for an empty value.
func ParseSort(s string) (SortOption, error) {
	switch opt := SortOption(s); opt {
	case "":
		return SortNewest, nil
	case SortNewest, SortOldest, SortAZ, SortZA:
		return opt, nil
	default:
		return "", fmt.Errorf("unknown sort option %q", s)
	}
}

func (o SortOption) byDate() bool {
	return o == SortNewest || o == SortOldest
}

// Group is a labelled run of posts: a year for date sorts, a subject for
// alphabetical ones.
type Group struct {
	Label string
	Posts []content.Post
}

// BrowseResult is one page of the browse listing.
type BrowseResult struct {
	Groups []Group
	Page   Pagination
}

// Browse filters posts by the selected subcategories, sorts them, cuts the
// requested page and groups that page. An empty selection shows nothing.
func Browse(posts []content.Post, sel Selection, opt SortOption, page, perPage int) BrowseResult {
	var filtered []content.Post
	if len(sel) > 0 {
		for _, p := range posts {
			if sel[p.Subcategory] {
				filtered = append(filtered, p)
			}
		}
	}

	sortPosts(filtered, opt)

	pg := Paginate(len(filtered), perPage, page)
	start, end := pg.Bounds()
	return BrowseResult{
		Groups: group(filtered[start:end], opt),
		Page:   pg,
	}
}

func sortPosts(posts []content.Post, opt SortOption) {
	switch opt {
	case SortNewest:
		sort.SliceStable(posts, func(i, j int) bool { return posts[i].Posted.After(posts[j].Posted) })
	case SortOldest:
		sort.SliceStable(posts, func(i, j int) bool { return posts[i].Posted.Before(posts[j].Posted) })
	case SortAZ, SortZA:
		col := collate.New(language.English)
		sort.SliceStable(posts, func(i, j int) bool {
			c := col.CompareString(posts[i].Subject, posts[j].Subject)
			if opt == SortZA {
				return c > 0
			}
			return c < 0
		})
	}
}

// group keeps labels in first-seen order, which for date sorts already
// matches the year order.
func group(posts []content.Post, opt SortOption) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, p := range posts {
		label := p.Subject
		if opt.byDate() {
			label = strconv.Itoa(p.Posted.Year())
		}
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group{Label: label})
		}
		groups[i].Posts = append(groups[i].Posts, p)
	}
	return groups
}
