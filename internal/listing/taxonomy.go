package listing

import (
	"net/url"
	"sort"
)

// Category groups the subcategories a post may be filed under.
type Category struct {
	Name          string
	Subcategories []string
}

var Categories = []Category{
	{Name: "STEM", Subcategories: []string{"Science", "Technology", "Engineering", "Mathematics"}},
	{Name: "HEALTH", Subcategories: []string{"Nutrition", "Fitness", "Mindfulness", "General Wellness"}},
	{Name: "LIFE", Subcategories: []string{"Philosophy", "Psychology", "Productivity", "Misc."}},
}

// FilterAll selects every subcategory. BrowseAllLabel is the navbar
// spelling of the same filter.
const (
	FilterAll      = "ALL"
	BrowseAllLabel = "Browse All"
)

// Selection is the set of subcategories shown on the browse page.
type Selection map[string]bool

// FilterFromQuery builds the selection for a ?filter= value: ALL (or
// Browse All) selects everything, a category selects its subcategories, a
// subcategory selects itself. Anything else selects nothing.
func FilterFromQuery(filter string) Selection {
	sel := Selection{}
	if filter == "" {
		return sel
	}
	for _, c := range Categories {
		switch {
		case filter == FilterAll || filter == BrowseAllLabel || filter == c.Name:
			for _, s := range c.Subcategories {
				sel[s] = true
			}
		default:
			for _, s := range c.Subcategories {
				if s == filter {
					sel[s] = true
				}
			}
		}
	}
	return sel
}

// SelectionFromValues reads explicit ?sub= values, falling back to
// ?filter= when none are given.
func SelectionFromValues(q url.Values) Selection {
	subs, ok := q["sub"]
	if !ok {
		return FilterFromQuery(q.Get("filter"))
	}
	sel := Selection{}
	for _, s := range subs {
		if IsSubcategory(s) {
			sel[s] = true
		}
	}
	return sel
}

func IsSubcategory(name string) bool {
	for _, c := range Categories {
		for _, s := range c.Subcategories {
			if s == name {
				return true
			}
		}
	}
	return false
}

func categoryByName(name string) (Category, bool) {
	for _, c := range Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// ToggleCategory selects all of a category's subcategories when at most
// half are selected, and clears them otherwise.
func (s Selection) ToggleCategory(name string) Selection {
	out := s.clone()
	c, ok := categoryByName(name)
	if !ok {
		return out
	}
	selected := 0
	for _, sub := range c.Subcategories {
		if out[sub] {
			selected++
		}
	}
	selectAll := selected*2 <= len(c.Subcategories)
	for _, sub := range c.Subcategories {
		if selectAll {
			out[sub] = true
		} else {
			delete(out, sub)
		}
	}
	return out
}

func (s Selection) ToggleSubcategory(name string) Selection {
	out := s.clone()
	if out[name] {
		delete(out, name)
	} else if IsSubcategory(name) {
		out[name] = true
	}
	return out
}

// CategorySelected reports whether more than half of a category is selected.
func (s Selection) CategorySelected(name string) bool {
	c, ok := categoryByName(name)
	if !ok {
		return false
	}
	n := 0
	for _, sub := range c.Subcategories {
		if s[sub] {
			n++
		}
	}
	return n*2 > len(c.Subcategories)
}

// Names lists the selected subcategories in taxonomy order.
func (s Selection) Names() []string {
	var out []string
	for _, c := range Categories {
		for _, sub := range c.Subcategories {
			if s[sub] {
				out = append(out, sub)
			}
		}
	}
	return out
}

// Values encodes the selection as repeated ?sub= parameters.
func (s Selection) Values() url.Values {
	names := s.Names()
	sort.Strings(names)
	return url.Values{"sub": names}
}

func (s Selection) clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		if v {
			out[k] = true
		}
	}
	return out
}
