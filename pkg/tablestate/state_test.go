package tablestate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	s := New(Options{})

	require.Equal(t, Pagination{Page: 1, PageSize: DefaultPageSize, Total: 0}, s.Pagination())
	require.Nil(t, s.SortConfig())
	require.Empty(t, s.Filters())
	require.Empty(t, s.SearchTerm())
	require.Equal(t, 0, s.ActiveFilterCount())
}

func TestFilterMutationsResetPage(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *State)
	}{
		{"update filter", func(s *State) { s.UpdateFilter("status", Text("confirmed")) }},
		{"clear filter", func(s *State) { s.ClearFilter("status") }},
		{"clear all", func(s *State) { s.ClearAllFilters() }},
		{"page size", func(s *State) { s.SetPageSize(50) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Options{})
			s.UpdateFilter("status", Text("pending"))
			s.SetPage(7)

			tt.mutate(s)

			assert.Equal(t, 1, s.Pagination().Page)
		})
	}
}

func TestSearchTermDoesNotResetPage(t *testing.T) {
	s := New(Options{})
	s.SetPage(3)
	s.SetSearchTerm("  Smith ")

	require.Equal(t, 3, s.Pagination().Page)
	require.Equal(t, "  Smith ", s.SearchTerm())
}

func TestClearAllFiltersClearsSearch(t *testing.T) {
	s := New(Options{})
	s.SetSearchTerm("ana")
	s.UpdateFilter("status", Text("confirmed"))
	require.Equal(t, 2, s.ActiveFilterCount())

	s.ClearAllFilters()

	require.Empty(t, s.SearchTerm())
	require.Empty(t, s.Filters())
	require.Equal(t, 0, s.ActiveFilterCount())
}

func TestSetFiltersKeepsPage(t *testing.T) {
	s := New(Options{})
	s.SetPage(4)
	s.SetFilters(map[string]FilterValue{"category": Text("Billing")})

	require.Equal(t, 4, s.Pagination().Page)
	v, ok := s.Filter("category")
	require.True(t, ok)
	require.Equal(t, Text("Billing"), v)

	s.SetFilters(nil)
	require.NotNil(t, s.Filters())
	require.Empty(t, s.Filters())
}

func TestFiltersReturnsCopy(t *testing.T) {
	s := New(Options{})
	s.UpdateFilter("status", Text("confirmed"))

	f := s.Filters()
	f["status"] = Text("cancelled")
	delete(f, "status")

	v, _ := s.Filter("status")
	require.Equal(t, Text("confirmed"), v)
}

func TestSetPagination(t *testing.T) {
	s := New(Options{InitialPageSize: 10})
	page, total := 3, 42
	s.SetPagination(PaginationPatch{Page: &page, Total: &total})

	require.Equal(t, Pagination{Page: 3, PageSize: 10, Total: 42}, s.Pagination())
}

func TestResetRestoresInitialConfiguration(t *testing.T) {
	initialSort := &SortConfig{Key: "question", Direction: SortAsc}
	s := New(Options{
		InitialSort:     initialSort,
		InitialFilters:  map[string]FilterValue{"status": Text("active")},
		InitialPageSize: 10,
	})

	// Mutating the caller's value must not leak into the State.
	initialSort.Direction = SortDesc

	s.SetSearchTerm("hours")
	s.SetSortConfig(&SortConfig{Key: "category", Direction: SortDesc})
	s.UpdateFilter("category", Text("Billing"))
	s.ClearFilter("status")
	s.SetPageSize(50)
	s.SetPage(2)
	s.SetTotal(99)

	s.Reset()

	require.Empty(t, s.SearchTerm())
	require.Equal(t, &SortConfig{Key: "question", Direction: SortAsc}, s.SortConfig())
	require.Equal(t, map[string]FilterValue{"status": Text("active")}, s.Filters())
	require.Equal(t, Pagination{Page: 1, PageSize: 10, Total: 0}, s.Pagination())
}

func TestSetSortConfigCopies(t *testing.T) {
	s := New(Options{})
	cfg := &SortConfig{Key: "price", Direction: SortAsc}
	s.SetSortConfig(cfg)
	cfg.Key = "name"

	require.Equal(t, "price", s.SortConfig().Key)

	s.SetSortConfig(nil)
	require.Nil(t, s.SortConfig())
}
