package components

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lynva/lynva-tui/internal/config"
	"github.com/lynva/lynva-tui/internal/records"
	"github.com/lynva/lynva-tui/pkg/api"
	"github.com/lynva/lynva-tui/pkg/tablestate"
)

// sampleFAQs returns n FAQs named "Question 01".. with every fifth inactive.
func sampleFAQs(n int) []api.FAQ {
	out := make([]api.FAQ, n)
	for i := range out {
		out[i] = api.FAQ{
			ID:       fmt.Sprintf("f%02d", i+1),
			Question: fmt.Sprintf("Question %02d", i+1),
			Answer:   "Answer",
			Category: "General",
			IsActive: (i+1)%5 != 0,
		}
	}

	return out
}

func newFAQView(t *testing.T, n, pageSize int) (*TableView, *records.Dataset[api.FAQ]) {
	t.Helper()

	ds := records.NewDataset(records.FAQs)
	ds.SetRecords(sampleFAQs(n))

	return NewTableView(ds, pageSize), ds
}

func headerText(v *TableView, col int) string {
	return v.Grid().GetCell(0, col).Text
}

func TestTableViewHeaderIndicators(t *testing.T) {
	v, _ := newFAQView(t, 3, 0)

	assert.Equal(t, "Question ↑", headerText(v, 0))
	assert.Equal(t, "Answer", headerText(v, 1))
	assert.Equal(t, "Category ↕", headerText(v, 2))
}

func TestTableViewCycleSort(t *testing.T) {
	v, _ := newFAQView(t, 3, 0)

	require.True(t, v.CycleSort(0))
	assert.Equal(t, "Question ↓", headerText(v, 0))
	assert.Equal(t, []string{"f03", "f02", "f01"}, v.Page().IDs)

	require.True(t, v.CycleSort(0))
	assert.Nil(t, v.State().SortConfig())
	assert.Equal(t, "Question ↕", headerText(v, 0))

	require.True(t, v.CycleSort(0))
	assert.Equal(t, "Question ↑", headerText(v, 0))

	assert.False(t, v.CycleSort(1), "answer has no sort key")
	assert.False(t, v.CycleSort(42))

	require.True(t, v.CycleSort(2))
	assert.Equal(t, &tablestate.SortConfig{Key: "category", Direction: tablestate.SortAsc}, v.State().SortConfig())
	assert.Equal(t, "Question ↕", headerText(v, 0))
}

func TestTableViewPagination(t *testing.T) {
	v, _ := newFAQView(t, 23, 0)

	pager := v.Pager()
	require.True(t, pager.Visible)
	assert.Equal(t, 3, pager.TotalPages)
	assert.Equal(t, "Showing 1 to 10 of 23 results", pager.PageInfo())
	assert.Len(t, v.Page().Rows, 10)

	assert.False(t, v.PrevPage())
	assert.True(t, v.NextPage())
	assert.Equal(t, 2, v.State().Pagination().Page)

	assert.True(t, v.LastPage())
	assert.Len(t, v.Page().Rows, 3)
	assert.False(t, v.NextPage())
	assert.Equal(t, "Showing 21 to 23 of 23 results", v.Pager().PageInfo())

	assert.False(t, v.GoTo(0))
	assert.False(t, v.GoTo(4))
	assert.True(t, v.GoTo(2))
	assert.True(t, v.FirstPage())
	assert.Equal(t, 1, v.State().Pagination().Page)
}

func TestTableViewPageSize(t *testing.T) {
	v, _ := newFAQView(t, 23, 5)

	assert.Equal(t, 5, v.State().Pagination().PageSize)
	v.NextPage()

	v.SetPageSize(25)
	assert.Equal(t, 1, v.State().Pagination().Page)
	assert.Len(t, v.Page().Rows, 23)
	assert.False(t, v.Pager().ShowGoTo)

	v.SetPageSize(0)
	assert.Equal(t, 25, v.State().Pagination().PageSize)

	v.Reset()
	assert.Equal(t, 5, v.State().Pagination().PageSize)
}

func TestTableViewKeepsTablePageSizeWithoutOverride(t *testing.T) {
	cfg := config.NewConfig()

	faqs := NewTableView(records.NewDataset(records.FAQs), cfg.PageSize)
	assert.Equal(t, 10, faqs.State().Pagination().PageSize)

	services := NewTableView(records.NewDataset(records.Services), cfg.PageSize)
	assert.Equal(t, tablestate.DefaultPageSize, services.State().Pagination().PageSize)

	faqs.SetPageSize(50)
	faqs.Reset()
	assert.Equal(t, 10, faqs.State().Pagination().PageSize, "reset restores the table's own size")

	cfg.PageSize = 50
	explicit := NewTableView(records.NewDataset(records.FAQs), cfg.PageSize)
	assert.Equal(t, 50, explicit.State().Pagination().PageSize)
}

func TestTableViewSearchReturnsToFirstPage(t *testing.T) {
	v, _ := newFAQView(t, 23, 0)
	v.LastPage()

	v.SetSearch("question 1")
	assert.Equal(t, 1, v.State().Pagination().Page)
	assert.Equal(t, 10, v.State().Pagination().Total)
	assert.Equal(t, "f10", v.Page().IDs[0])
	assert.Contains(t, v.summary.GetText(true), "search: question 1")
	assert.Contains(t, v.summary.GetText(true), "1 active")
}

func TestTableViewApplyFilter(t *testing.T) {
	v, _ := newFAQView(t, 23, 0)

	require.NoError(t, v.ApplyFilter("status", "inactive"))
	assert.Equal(t, []string{"f05", "f10", "f15", "f20"}, v.Page().IDs)
	assert.Contains(t, v.summary.GetText(true), "status: inactive")

	err := v.ApplyFilter("status", "archived")
	require.Error(t, err)
	assert.Equal(t, 4, v.State().Pagination().Total, "invalid input leaves the filter unchanged")

	require.Error(t, v.ApplyFilter("nope", "x"))

	require.NoError(t, v.ApplyFilter("status", " "))
	_, ok := v.State().Filter("status")
	assert.False(t, ok)
	assert.Equal(t, 23, v.State().Pagination().Total)
}

func TestTableViewSummaryShowsStats(t *testing.T) {
	v, ds := newFAQView(t, 23, 0)

	summary := v.summary.GetText(true)
	assert.Contains(t, summary, "Total FAQs: 23")
	assert.Contains(t, summary, "Active FAQs: 19")
	assert.Contains(t, summary, "Categories: 1")

	require.NoError(t, v.ApplyFilter("status", "inactive"))
	assert.Contains(t, v.summary.GetText(true), "Total FAQs: 23", "stats cover the whole table, not the filtered page")

	ds.SetRecords(sampleFAQs(5))
	v.Refresh()
	assert.Contains(t, v.summary.GetText(true), "Total FAQs: 5")

	bookings := NewTableView(records.NewDataset(records.Bookings), 0)
	assert.NotContains(t, bookings.summary.GetText(true), "Total")
}

func TestTableViewClearFiltersAndReset(t *testing.T) {
	v, _ := newFAQView(t, 23, 0)

	v.SetSearch("question 2")
	require.NoError(t, v.ApplyFilter("category", "General"))
	v.SortBy("usage_count")

	v.ClearFilters()
	assert.Empty(t, v.State().SearchTerm())
	assert.Empty(t, v.State().Filters())
	assert.Equal(t, "usage_count", v.State().SortConfig().Key, "sort survives clearing filters")

	v.Reset()
	assert.Equal(t, "question", v.State().SortConfig().Key)
}

func TestTableViewSnapsToLastPageWhenDataShrinks(t *testing.T) {
	v, ds := newFAQView(t, 23, 0)
	v.LastPage()

	ds.SetRecords(sampleFAQs(5))
	v.Refresh()

	assert.Equal(t, 1, v.State().Pagination().Page)
	assert.Len(t, v.Page().Rows, 5)
}

func TestTableViewSelection(t *testing.T) {
	v, _ := newFAQView(t, 3, 0)

	id, ok := v.SelectedID()
	require.True(t, ok)
	assert.Equal(t, "f01", id)

	v.Grid().Select(3, 0)
	row, ok := v.SelectedRow()
	require.True(t, ok)
	assert.Equal(t, "Question 03", row[0])

	v.Refresh()
	id, _ = v.SelectedID()
	assert.Equal(t, "f03", id, "selection survives refresh")
}

func TestTableViewEmptyStates(t *testing.T) {
	ds := records.NewDataset(records.FAQs)
	v := NewTableView(ds, 0)

	assert.Equal(t, "No records", v.Grid().GetCell(1, 0).Text)
	assert.False(t, v.Pager().Visible)
	assert.Empty(t, v.pager.GetText(true))

	_, ok := v.SelectedID()
	assert.False(t, ok)

	v.SetLoading(true)
	v.Refresh()
	assert.Equal(t, "Loading faqs...", v.Grid().GetCell(1, 0).Text)

	v.SetLoadError(errors.New("boom"))
	v.Refresh()
	assert.Equal(t, "Failed to load: boom", v.Grid().GetCell(1, 0).Text)

	ds.SetRecords(sampleFAQs(2))
	v.SetSearch("zzz")
	assert.Equal(t, "No records match the current search and filters", v.Grid().GetCell(1, 0).Text)
}

func TestTableViewPagerText(t *testing.T) {
	v, _ := newFAQView(t, 95, 10)
	v.GoTo(5)

	text := v.pager.GetText(true)
	assert.Contains(t, text, "1 ... 4 5 6 ... 10")
	assert.Contains(t, text, "Showing 41 to 50 of 95 results")
	assert.Contains(t, text, "10 per page")
}
