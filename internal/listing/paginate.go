package listing

// visiblePages is the width of the page-number window.
const visiblePages = 3

// Pagination describes one page of a list and the controls around it.
type Pagination struct {
	Current    int
	TotalPages int
	PerPage    int
	TotalItems int

	// Pages is the window of page numbers shown around Current.
	Pages []int

	// ShowFirst/ShowLast add direct links to page 1 and the last page
	// when the window does not reach them; the ellipsis flags mark a gap.
	ShowFirst        bool
	LeadingEllipsis  bool
	ShowLast         bool
	TrailingEllipsis bool

	Prev int
	Next int
}

// Paginate computes the page window. current is clamped into range.
func Paginate(totalItems, perPage, current int) Pagination {
	if perPage < 1 {
		perPage = 1
	}
	if totalItems < 0 {
		totalItems = 0
	}
	total := (totalItems + perPage - 1) / perPage
	current = max(1, min(current, max(1, total)))

	buffer := visiblePages / 2
	lower := max(1, current-buffer)
	upper := min(total, current+buffer)
	if current <= buffer {
		upper = min(visiblePages, total)
	}
	if current > total-buffer {
		lower = max(total-visiblePages+1, 1)
	}

	p := Pagination{
		Current:    current,
		TotalPages: total,
		PerPage:    perPage,
		TotalItems: totalItems,
		Prev:       max(1, current-1),
		Next:       max(1, min(total, current+1)),
	}
	for i := lower; i <= upper; i++ {
		p.Pages = append(p.Pages, i)
	}
	p.ShowFirst = lower > 1
	p.LeadingEllipsis = lower > 2
	p.ShowLast = upper < total
	p.TrailingEllipsis = upper < total-1
	return p
}

// Bounds returns the slice indices of the current page's items.
func (p Pagination) Bounds() (start, end int) {
	start = (p.Current - 1) * p.PerPage
	end = min(start+p.PerPage, p.TotalItems)
	if start > end {
		start = end
	}
	return start, end
}

func (p Pagination) Last() int {
	return max(1, p.TotalPages)
}

func (p Pagination) HasPrev() bool { return p.Current > 1 }
func (p Pagination) HasNext() bool { return p.Current < p.TotalPages }
