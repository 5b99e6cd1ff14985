package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lynva/lynva-tui/internal/records"
	"github.com/lynva/lynva-tui/internal/ui/theme"
	"github.com/lynva/lynva-tui/pkg/tablestate"
)

// TableView renders one records.Table page by page. Every mutation goes
// through the table's State and ends in Refresh, which re-derives the page.
type TableView struct {
	*tview.Flex

	table records.Table
	state *tablestate.State

	summary *tview.TextView
	grid    *tview.Table
	pager   *tview.TextView

	page    records.Page
	loading bool
	loadErr error
}

// NewTableView creates a view with the table's initial state. A positive
// pageSize replaces the table's initial page size, Reset included.
func NewTableView(table records.Table, pageSize int) *TableView {
	opts := table.StateOptions()
	if pageSize > 0 {
		opts.InitialPageSize = pageSize
	}

	v := &TableView{
		table:   table,
		state:   tablestate.New(opts),
		summary: tview.NewTextView().SetDynamicColors(true),
		grid:    tview.NewTable(),
		pager:   tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter),
	}

	v.grid.SetBorders(false)
	v.grid.SetSelectable(true, false)
	v.grid.SetFixed(1, 0)
	v.grid.SetSelectedStyle(tcell.StyleDefault.
		Background(theme.Colors.Selection).
		Foreground(theme.Colors.Primary))
	v.grid.SetBorder(true)
	v.grid.SetBorderColor(theme.Colors.Border)
	v.grid.SetTitle(" " + table.Title() + " ")
	v.grid.SetTitleColor(theme.Colors.Title)

	v.Flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.summary, 1, 0, false).
		AddItem(v.grid, 0, 1, true).
		AddItem(v.pager, 1, 0, false)

	v.Refresh()

	return v
}

// Table returns the underlying record table.
func (v *TableView) Table() records.Table { return v.table }

// State returns the view's table state.
func (v *TableView) State() *tablestate.State { return v.state }

// Grid returns the tview table holding the rows.
func (v *TableView) Grid() *tview.Table { return v.grid }

// Page returns the rows currently on screen.
func (v *TableView) Page() records.Page { return v.page }

// Pager returns the pagination model of the current page.
func (v *TableView) Pager() tablestate.Pager {
	return tablestate.BuildPager(v.state.Pagination())
}

// SetLoading marks the view as loading; Refresh shows a placeholder while
// the table is empty.
func (v *TableView) SetLoading(loading bool) {
	v.loading = loading
	if loading {
		v.loadErr = nil
	}
}

// SetLoadError records a failed load so the empty view can explain itself.
func (v *TableView) SetLoadError(err error) {
	v.loading = false
	v.loadErr = err
}

// Refresh derives the current page and redraws header, rows, summary and pager.
// A page past the end, left behind when filters shrink the result, snaps to
// the last page.
func (v *TableView) Refresh() {
	v.page = v.table.Derive(v.state)

	p := v.state.Pagination()
	if last := tablestate.TotalPages(p.Total, p.PageSize); last > 0 && p.Page > last {
		v.state.SetPage(last)
		v.page = v.table.Derive(v.state)
	}

	selected, _ := v.grid.GetSelection()

	v.grid.Clear()
	v.renderHeader()
	v.renderRows()

	switch {
	case len(v.page.Rows) == 0:
		v.grid.Select(0, 0)
	case selected < 1:
		v.grid.Select(1, 0)
	case selected > len(v.page.Rows):
		v.grid.Select(len(v.page.Rows), 0)
	default:
		v.grid.Select(selected, 0)
	}

	v.summary.SetText(v.summaryText())
	v.pager.SetText(v.pagerText())
}

func (v *TableView) renderHeader() {
	sortCfg := v.state.SortConfig()

	for col, c := range v.table.Columns() {
		title := c.Title
		color := theme.Colors.HeaderText

		if c.SortKey != "" {
			indicator := tablestate.SortIndicator(sortCfg, c.SortKey)
			title += " " + indicator

			if indicator != tablestate.IndicatorUnsorted {
				color = theme.Colors.Accent
			}
		}

		cell := tview.NewTableCell(title).
			SetTextColor(color).
			SetAlign(c.Align).
			SetExpansion(c.Expand).
			SetSelectable(false).
			SetAttributes(tcell.AttrBold)
		v.grid.SetCell(0, col, cell)
	}
}

func (v *TableView) renderRows() {
	columns := v.table.Columns()

	if len(v.page.Rows) == 0 {
		v.grid.SetCell(1, 0, tview.NewTableCell(v.emptyText()).
			SetTextColor(theme.Colors.Secondary).
			SetSelectable(false))

		return
	}

	for r, row := range v.page.Rows {
		for col, text := range row {
			cell := tview.NewTableCell(tview.Escape(text)).
				SetTextColor(theme.Colors.Primary).
				SetMaxWidth(48)

			if col < len(columns) {
				cell.SetAlign(columns[col].Align).SetExpansion(columns[col].Expand)

				if columns[col].Title == "Status" || columns[col].Title == "Outcome" {
					cell.SetTextColor(theme.StatusColor(text))
				}
			}

			v.grid.SetCell(r+1, col, cell)
		}
	}
}

func (v *TableView) emptyText() string {
	switch {
	case v.loading:
		return "Loading " + strings.ToLower(v.table.Title()) + "..."
	case v.table.Len() > 0:
		return "No records match the current search and filters"
	case v.loadErr != nil:
		return "Failed to load: " + v.loadErr.Error()
	default:
		return "No records"
	}
}

func (v *TableView) summaryText() string {
	var parts []string

	for _, stat := range v.table.Stats() {
		parts = append(parts, fmt.Sprintf("[secondary]%s:[primary] %s", stat.Label, tview.Escape(stat.Value)))
	}

	if term := v.state.SearchTerm(); term != "" {
		parts = append(parts, fmt.Sprintf("[secondary]search:[primary] %s", tview.Escape(term)))
	}

	filters := v.state.Filters()
	keys := make([]string, 0, len(filters))

	for k := range filters {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		label := k
		if opt, ok := v.table.FilterOption(k); ok {
			label = strings.ToLower(opt.Label)
		}

		parts = append(parts, fmt.Sprintf("[secondary]%s:[primary] %s", label, tview.Escape(filters[k].String())))
	}

	if cfg := v.state.SortConfig(); cfg != nil {
		parts = append(parts, fmt.Sprintf("[secondary]sort:[primary] %s %s", cfg.Key, cfg.Direction))
	}

	if n := v.state.ActiveFilterCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("[accent]%d active[-]", n))
	}

	return theme.ReplaceSemanticTags(strings.Join(parts, "  "))
}

func (v *TableView) pagerText() string {
	pager := v.Pager()
	if !pager.Visible {
		return ""
	}

	var b strings.Builder

	b.WriteString(navLabel("«", pager.FirstDisabled))
	b.WriteString(" ")
	b.WriteString(navLabel("‹", pager.PrevDisabled))

	for _, item := range pager.Items {
		b.WriteString(" ")

		switch {
		case item.Current:
			b.WriteString("[accent][::b]" + item.Label() + "[::-][-]")
		case item.Ellipsis:
			b.WriteString("[secondary]" + item.Label() + "[-]")
		default:
			b.WriteString("[primary]" + item.Label() + "[-]")
		}
	}

	b.WriteString(" ")
	b.WriteString(navLabel("›", pager.NextDisabled))
	b.WriteString(" ")
	b.WriteString(navLabel("»", pager.LastDisabled))
	b.WriteString("   [secondary]" + pager.PageInfo())
	b.WriteString(fmt.Sprintf(" · %d per page[-]", pager.PageSize))

	return theme.ReplaceSemanticTags(b.String())
}

func navLabel(glyph string, disabled bool) string {
	if disabled {
		return "[secondary]" + glyph + "[-]"
	}

	return "[primary]" + glyph + "[-]"
}

// SetSearch replaces the search term and returns to the first page.
func (v *TableView) SetSearch(term string) {
	v.state.SetSearchTerm(term)
	v.state.SetPage(1)
	v.Refresh()
}

// CycleSort advances the sort of the column at index col through
// ascending, descending and unsorted. Columns without a sort key are ignored.
func (v *TableView) CycleSort(col int) bool {
	columns := v.table.Columns()
	if col < 0 || col >= len(columns) || columns[col].SortKey == "" {
		return false
	}

	v.SortBy(columns[col].SortKey)

	return true
}

// SortBy advances the sort cycle of key.
func (v *TableView) SortBy(key string) {
	v.state.SetSortConfig(tablestate.NextSort(v.state.SortConfig(), key))
	v.Refresh()
}

// SortableColumns returns the indexes of columns with a sort key.
func (v *TableView) SortableColumns() []int {
	var out []int

	for i, c := range v.table.Columns() {
		if c.SortKey != "" {
			out = append(out, i)
		}
	}

	return out
}

// GoTo moves to page when it exists and reports whether it moved.
func (v *TableView) GoTo(page int) bool {
	p := v.state.Pagination()
	last := tablestate.TotalPages(p.Total, p.PageSize)

	if page < 1 || page > last || page == p.Page {
		return false
	}

	v.state.SetPage(page)
	v.Refresh()

	return true
}

// NextPage moves forward one page.
func (v *TableView) NextPage() bool { return v.GoTo(v.state.Pagination().Page + 1) }

// PrevPage moves back one page.
func (v *TableView) PrevPage() bool { return v.GoTo(v.state.Pagination().Page - 1) }

// FirstPage moves to page one.
func (v *TableView) FirstPage() bool { return v.GoTo(1) }

// LastPage moves to the last page.
func (v *TableView) LastPage() bool {
	p := v.state.Pagination()

	return v.GoTo(tablestate.TotalPages(p.Total, p.PageSize))
}

// SetPageSize changes the number of rows per page.
func (v *TableView) SetPageSize(size int) {
	if size <= 0 {
		return
	}

	v.state.SetPageSize(size)
	v.Refresh()
}

// ApplyFilter parses raw for the filter key and stores it. Empty input
// clears the filter.
func (v *TableView) ApplyFilter(key, raw string) error {
	opt, ok := v.table.FilterOption(key)
	if !ok {
		return fmt.Errorf("unknown filter %q", key)
	}

	if strings.TrimSpace(raw) == "" || strings.TrimSpace(raw) == tablestate.RangeSeparator {
		v.ClearFilter(key)

		return nil
	}

	value, err := opt.Parse(raw)
	if err != nil {
		return err
	}

	v.state.UpdateFilter(key, value)
	v.Refresh()

	return nil
}

// SetFilters replaces every filter and returns to the first page.
func (v *TableView) SetFilters(filters map[string]tablestate.FilterValue) {
	v.state.SetFilters(filters)
	v.state.SetPage(1)
	v.Refresh()
}

// ClearFilter removes the filter stored for key.
func (v *TableView) ClearFilter(key string) {
	v.state.ClearFilter(key)
	v.Refresh()
}

// ClearFilters removes every filter and the search term.
func (v *TableView) ClearFilters() {
	v.state.ClearAllFilters()
	v.Refresh()
}

// Reset restores the table's initial search, filters, sort and page size.
func (v *TableView) Reset() {
	v.state.Reset()
	v.Refresh()
}

// SelectedID returns the id of the highlighted record.
func (v *TableView) SelectedID() (string, bool) {
	row, _ := v.grid.GetSelection()
	if row < 1 || row > len(v.page.IDs) {
		return "", false
	}

	return v.page.IDs[row-1], true
}

// SelectedRow returns the rendered cells of the highlighted record.
func (v *TableView) SelectedRow() ([]string, bool) {
	row, _ := v.grid.GetSelection()
	if row < 1 || row > len(v.page.Rows) {
		return nil, false
	}

	return v.page.Rows[row-1], true
}
