// Package tablestate holds client-side table state (search term, named
// filters, single-column sort and pagination) together with the pure
// functions that derive a visible page from an in-memory record set.
//
// A State is owned by exactly one view. It is created when the view opens and
// dropped when the view closes; nothing is persisted between sessions.
//
// Typical use:
//
//	state := tablestate.New(tablestate.Options{InitialPageSize: 10})
//	state.SetSearchTerm("smith")
//	state.UpdateFilter("status", tablestate.Text("confirmed"))
//	result := tablestate.Derive(bookings, state, bookingDescriptor)
//	render(result.Page)
package tablestate

import "maps"

// DefaultPageSize is used when Options.InitialPageSize is not positive.
const DefaultPageSize = 25

// SortDirection is the direction of the active sort column.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortConfig describes the single active sort column. A nil *SortConfig means
// records keep their fetched order.
type SortConfig struct {
	Key       string        `json:"key"`
	Direction SortDirection `json:"direction"`
}

// Pagination is the page window over the filtered record set.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// PaginationPatch updates only the non-nil fields of a Pagination.
type PaginationPatch struct {
	Page     *int
	PageSize *int
	Total    *int
}

// Options configures a new State.
type Options struct {
	InitialSort     *SortConfig
	InitialFilters  map[string]FilterValue
	InitialPageSize int
}

// State is the mutable table state of one view.
//
// State is not safe for concurrent use; it is mutated from the UI event loop only.
type State struct {
	searchTerm string
	filters    map[string]FilterValue
	sort       *SortConfig
	pagination Pagination

	initial Options
}

// New creates a State from the given options.
func New(opts Options) *State {
	if opts.InitialPageSize <= 0 {
		opts.InitialPageSize = DefaultPageSize
	}

	opts.InitialSort = cloneSort(opts.InitialSort)
	opts.InitialFilters = maps.Clone(opts.InitialFilters)

	s := &State{initial: opts}
	s.Reset()

	return s
}

// SearchTerm returns the current free-text query.
func (s *State) SearchTerm() string {
	return s.searchTerm
}

// Filters returns a copy of the active filters.
func (s *State) Filters() map[string]FilterValue {
	return maps.Clone(s.filters)
}

// Filter returns the value stored for key.
func (s *State) Filter(key string) (FilterValue, bool) {
	v, ok := s.filters[key]
	return v, ok
}

// SortConfig returns a copy of the active sort, or nil when unsorted.
func (s *State) SortConfig() *SortConfig {
	return cloneSort(s.sort)
}

// Pagination returns the current pagination values.
func (s *State) Pagination() Pagination {
	return s.pagination
}

// ActiveFilterCount counts filters plus one for a non-empty search term.
func (s *State) ActiveFilterCount() int {
	n := len(s.filters)
	if s.searchTerm != "" {
		n++
	}

	return n
}

// SetSearchTerm replaces the search term as-is. The page is left untouched.
func (s *State) SetSearchTerm(term string) {
	s.searchTerm = term
}

// SetFilters replaces all filters at once.
func (s *State) SetFilters(filters map[string]FilterValue) {
	s.filters = maps.Clone(filters)
	if s.filters == nil {
		s.filters = make(map[string]FilterValue)
	}
}

// UpdateFilter sets a single filter and returns to the first page.
func (s *State) UpdateFilter(key string, value FilterValue) {
	s.filters[key] = value
	s.pagination.Page = 1
}

// ClearFilter removes a single filter and returns to the first page.
func (s *State) ClearFilter(key string) {
	delete(s.filters, key)
	s.pagination.Page = 1
}

// ClearAllFilters drops every filter and the search term and returns to the first page.
func (s *State) ClearAllFilters() {
	s.filters = make(map[string]FilterValue)
	s.searchTerm = ""
	s.pagination.Page = 1
}

// SetSortConfig replaces the sort wholesale. nil clears sorting.
func (s *State) SetSortConfig(cfg *SortConfig) {
	s.sort = cloneSort(cfg)
}

// SetPage moves to page. Range checks are left to the caller.
func (s *State) SetPage(page int) {
	s.pagination.Page = page
}

// SetPageSize changes the page size and returns to the first page.
func (s *State) SetPageSize(size int) {
	s.pagination.PageSize = size
	s.pagination.Page = 1
}

// SetTotal records how many records survived search and filtering.
func (s *State) SetTotal(total int) {
	s.pagination.Total = total
}

// SetPagination applies a partial pagination update.
func (s *State) SetPagination(p PaginationPatch) {
	if p.Page != nil {
		s.pagination.Page = *p.Page
	}
	if p.PageSize != nil {
		s.pagination.PageSize = *p.PageSize
	}
	if p.Total != nil {
		s.pagination.Total = *p.Total
	}
}

// Reset restores the configuration the State was created with.
func (s *State) Reset() {
	s.searchTerm = ""
	s.sort = cloneSort(s.initial.InitialSort)
	s.filters = maps.Clone(s.initial.InitialFilters)
	if s.filters == nil {
		s.filters = make(map[string]FilterValue)
	}
	s.pagination = Pagination{
		Page:     1,
		PageSize: s.initial.InitialPageSize,
		Total:    0,
	}
}

func cloneSort(cfg *SortConfig) *SortConfig {
	if cfg == nil {
		return nil
	}

	c := *cfg

	return &c
}
