package tablestate

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPageSizes are the page sizes offered by the page size selector.
var DefaultPageSizes = []int{10, 25, 50, 100}

const (
	// maxUnwindowedPages is the largest page count rendered without ellipses.
	maxUnwindowedPages = 7
	// goToThreshold is the page count above which the go-to input is offered.
	goToThreshold = 5
	// windowEdge is how many pages are shown next to the first or last page.
	windowEdge = 5
)

// PageItem is one entry of the page button row: either a page number or an ellipsis.
type PageItem struct {
	Page     int
	Ellipsis bool
	Current  bool
}

// Label is the text rendered for the item.
func (p PageItem) Label() string {
	if p.Ellipsis {
		return "..."
	}

	return strconv.Itoa(p.Page)
}

// Pager is the render model of the pagination control.
type Pager struct {
	// Visible is false when there is nothing to paginate; nothing else is set then.
	Visible    bool
	Page       int
	PageSize   int
	Total      int
	TotalPages int
	StartItem  int
	EndItem    int
	Items      []PageItem

	FirstDisabled bool
	PrevDisabled  bool
	NextDisabled  bool
	LastDisabled  bool

	ShowGoTo bool
}

// BuildPager translates pagination into the pagination control model.
func BuildPager(p Pagination) Pager {
	if p.Total <= 0 || p.PageSize <= 0 {
		return Pager{}
	}

	totalPages := TotalPages(p.Total, p.PageSize)

	return Pager{
		Visible:       true,
		Page:          p.Page,
		PageSize:      p.PageSize,
		Total:         p.Total,
		TotalPages:    totalPages,
		StartItem:     (p.Page-1)*p.PageSize + 1,
		EndItem:       min(p.Page*p.PageSize, p.Total),
		Items:         PageItems(p.Page, totalPages),
		FirstDisabled: p.Page == 1,
		PrevDisabled:  p.Page == 1,
		NextDisabled:  p.Page == totalPages,
		LastDisabled:  p.Page == totalPages,
		ShowGoTo:      totalPages > goToThreshold,
	}
}

// PageInfo is the "Showing a to b of n results" line, empty when not visible.
func (p Pager) PageInfo() string {
	if !p.Visible {
		return ""
	}

	return fmt.Sprintf("Showing %d to %d of %d results", p.StartItem, p.EndItem, p.Total)
}

// Labels returns the rendered text of every item, mainly for display and tests.
func (p Pager) Labels() []string {
	out := make([]string, len(p.Items))
	for i, it := range p.Items {
		out[i] = it.Label()
	}

	return out
}

// TotalPages is ceil(total/pageSize).
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}

	return (total + pageSize - 1) / pageSize
}

// PageItems builds the page button row. Up to seven pages are listed in full;
// beyond that the row is windowed around the current page with ellipses.
func PageItems(page, totalPages int) []PageItem {
	if totalPages <= 0 {
		return nil
	}

	var pages []int
	switch {
	case totalPages <= maxUnwindowedPages:
		pages = pageRange(1, totalPages)
	case page <= 4:
		pages = append(pageRange(1, windowEdge), 0, totalPages)
	case page >= totalPages-3:
		pages = append([]int{1, 0}, pageRange(totalPages-windowEdge+1, totalPages)...)
	default:
		pages = []int{1, 0, page - 1, page, page + 1, 0, totalPages}
	}

	items := make([]PageItem, len(pages))
	for i, n := range pages {
		if n == 0 {
			items[i] = PageItem{Ellipsis: true}
			continue
		}
		items[i] = PageItem{Page: n, Current: n == page}
	}

	return items
}

// ParseGoToPage accepts an integer in [1, totalPages]. Anything else reports false.
func ParseGoToPage(input string, totalPages int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > totalPages {
		return 0, false
	}

	return n, true
}

func pageRange(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}

	return out
}
