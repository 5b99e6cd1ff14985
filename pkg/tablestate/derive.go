package tablestate

import (
	"slices"
	"strings"
)

// Descriptor tells the pipeline how to query one record type.
type Descriptor[T any] struct {
	// SearchFields are the columns the free-text search looks at.
	SearchFields []StringField[T]
	// Filters maps a filter key to its predicate. Keys without a predicate pass.
	Filters map[string]Predicate[T]
	// Sorters maps a sort key to its accessor. Unknown keys keep fetched order.
	Sorters map[string]SortAccessor[T]
}

// Result is the outcome of one derivation.
type Result[T any] struct {
	// Filtered holds every record that survived search and filters, sorted.
	Filtered []T
	// Page is the slice of Filtered for the current page.
	Page []T
	// Total is len(Filtered).
	Total int
}

// Derive runs search, filters, sort and pagination over records and writes
// the filtered count back into state when it changed. records is not modified.
func Derive[T any](records []T, state *State, desc Descriptor[T]) Result[T] {
	res := Apply(records, state, desc)
	if state.pagination.Total != res.Total {
		state.SetTotal(res.Total)
	}

	return res
}

// Apply is Derive without the write-back. It is a pure function of its inputs.
func Apply[T any](records []T, state *State, desc Descriptor[T]) Result[T] {
	filtered := Search(records, state.searchTerm, desc.SearchFields)
	filtered = Filter(filtered, state.filters, desc.Filters)
	filtered = Sort(filtered, state.sort, desc.Sorters)

	return Result[T]{
		Filtered: filtered,
		Page:     Paginate(filtered, state.pagination.Page, state.pagination.PageSize),
		Total:    len(filtered),
	}
}

// Search keeps records where any field contains term, ignoring case. An empty
// term keeps everything. The returned slice never aliases records.
func Search[T any](records []T, term string, fields []StringField[T]) []T {
	if term == "" {
		return slices.Clone(records)
	}

	needle := strings.ToLower(term)
	out := make([]T, 0, len(records))
	for _, r := range records {
		for _, field := range fields {
			v := field(r)
			if v != "" && strings.Contains(strings.ToLower(v), needle) {
				out = append(out, r)
				break
			}
		}
	}

	return out
}

// Filter keeps records that pass the predicate of every active filter.
func Filter[T any](records []T, filters map[string]FilterValue, predicates map[string]Predicate[T]) []T {
	type active struct {
		pred  Predicate[T]
		value FilterValue
	}

	var checks []active
	for key, value := range filters {
		if value == nil || !value.Active() {
			continue
		}
		pred, ok := predicates[key]
		if !ok || pred == nil {
			continue
		}
		checks = append(checks, active{pred: pred, value: value})
	}

	if len(checks) == 0 {
		return records
	}

	out := make([]T, 0, len(records))
outer:
	for _, r := range records {
		for _, c := range checks {
			if !c.pred(r, c.value) {
				continue outer
			}
		}
		out = append(out, r)
	}

	return out
}

// Sort stable-sorts records in place by the accessor for cfg.Key.
func Sort[T any](records []T, cfg *SortConfig, sorters map[string]SortAccessor[T]) []T {
	if cfg == nil {
		return records
	}

	key, ok := sorters[cfg.Key]
	if !ok || key == nil {
		return records
	}

	slices.SortStableFunc(records, func(a, b T) int {
		c := key(a).Compare(key(b))
		if cfg.Direction == SortDesc {
			return -c
		}

		return c
	})

	return records
}

// Paginate returns records[(page-1)*size : (page-1)*size+size] clamped to
// the slice. Pages outside the range yield an empty slice.
func Paginate[T any](records []T, page, size int) []T {
	if page < 1 || size <= 0 {
		return []T{}
	}

	start := (page - 1) * size
	if start >= len(records) {
		return []T{}
	}

	end := min(start+size, len(records))

	return records[start:end]
}
