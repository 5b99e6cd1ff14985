package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lynva/lynva-tui/internal/ui/theme"
	"github.com/lynva/lynva-tui/pkg/tablestate"
)

// centered wraps p in flex padding so it floats at width x height.
func centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}

// openModal shows p above the tables and focuses focus.
func (a *App) openModal(name string, p, focus tview.Primitive) {
	if a.modal == "" {
		a.lastFocus = a.GetFocus()
	}

	a.modal = name
	a.pages.AddPage(name, p, true, true)
	a.SetFocus(focus)
}

// closeModal removes the modal page and restores focus.
func (a *App) closeModal(name string) {
	if a.pages.HasPage(name) {
		a.pages.RemovePage(name)
	}

	if a.modal == name {
		a.modal = ""
	}

	if a.lastFocus != nil {
		a.SetFocus(a.lastFocus)
	} else if v := a.activeView(); v != nil {
		a.SetFocus(v.Grid())
	}
}

// modalActive reports whether a dialog currently owns the keyboard.
func (a *App) modalActive() bool {
	return a.modal != ""
}

// showMessage displays message in an OK dialog.
func (a *App) showMessage(message string) {
	const page = "message"

	modal := tview.NewModal().
		SetText(message).
		SetTextColor(theme.Colors.Primary).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(int, string) {
			a.closeModal(page)
		})

	a.openModal(page, modal, modal)
}

// showGoToPage asks for a page number and jumps to it.
func (a *App) showGoToPage() {
	view := a.activeView()
	if view == nil {
		return
	}

	pager := view.Pager()
	if !pager.Visible || pager.TotalPages < 2 {
		a.header.ShowError("Only one page")

		return
	}

	const page = "goto"

	input := tview.NewInputField().
		SetLabel(fmt.Sprintf("Page (1-%d): ", pager.TotalPages)).
		SetFieldWidth(8).
		SetAcceptanceFunc(tview.InputFieldInteger)
	input.SetBorder(true)
	input.SetTitle(" Go to page ")
	input.SetTitleColor(theme.Colors.Title)
	input.SetBorderColor(theme.Colors.Border)

	input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			target, ok := tablestate.ParseGoToPage(input.GetText(), pager.TotalPages)
			if !ok {
				// Invalid input is discarded.
				input.SetText("")

				return
			}

			view.GoTo(target)
		}

		a.closeModal(page)
	})

	a.openModal(page, centered(input, 30, 3), input)
}

// showPageSizeSelector offers the standard page sizes.
func (a *App) showPageSizeSelector() {
	view := a.activeView()
	if view == nil {
		return
	}

	const page = "pagesize"

	current := view.State().Pagination().PageSize
	list := tview.NewList().ShowSecondaryText(false)
	list.SetBorder(true)
	list.SetTitle(" Rows per page ")
	list.SetTitleColor(theme.Colors.Title)
	list.SetBorderColor(theme.Colors.Border)
	list.SetSelectedBackgroundColor(theme.Colors.Selection)

	for _, size := range tablestate.DefaultPageSizes {
		label := strconv.Itoa(size)
		if size == current {
			label += " *"
		}

		list.AddItem(label, "", 0, func() {
			view.SetPageSize(size)
			a.closeModal(page)
		})
	}

	for i, size := range tablestate.DefaultPageSizes {
		if size == current {
			list.SetCurrentItem(i)
		}
	}

	list.SetDoneFunc(func() { a.closeModal(page) })

	a.openModal(page, centered(list, 24, len(tablestate.DefaultPageSizes)+2), list)
}

// showSortSelector lists the sortable columns with their current indicator.
// Choosing one advances its sort cycle.
func (a *App) showSortSelector() {
	view := a.activeView()
	if view == nil {
		return
	}

	const page = "sort"

	columns := view.Table().Columns()
	sortable := view.SortableColumns()
	current := view.State().SortConfig()

	list := tview.NewList().ShowSecondaryText(false)
	list.SetBorder(true)
	list.SetTitle(" Sort by ")
	list.SetTitleColor(theme.Colors.Title)
	list.SetBorderColor(theme.Colors.Border)
	list.SetSelectedBackgroundColor(theme.Colors.Selection)

	for _, col := range sortable {
		c := columns[col]
		label := fmt.Sprintf("%s %s", tablestate.SortIndicator(current, c.SortKey), c.Title)

		list.AddItem(label, "", 0, func() {
			view.CycleSort(col)
			a.closeModal(page)
		})

		if current != nil && current.Key == c.SortKey {
			list.SetCurrentItem(list.GetItemCount() - 1)
		}
	}

	list.SetDoneFunc(func() { a.closeModal(page) })

	a.openModal(page, centered(list, 32, len(sortable)+2), list)
}

// showRecordDetails shows every column of the selected row.
func (a *App) showRecordDetails() {
	view := a.activeView()
	if view == nil {
		return
	}

	row, ok := view.SelectedRow()
	if !ok {
		return
	}

	const page = "details"

	var b strings.Builder

	for i, c := range view.Table().Columns() {
		if i >= len(row) {
			break
		}

		fmt.Fprintf(&b, "[header]%-14s[-] %s\n", c.Title, tview.Escape(row[i]))
	}

	if id, ok := view.SelectedID(); ok {
		fmt.Fprintf(&b, "\n[secondary]id %s[-]", id)
	}

	text := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true).
		SetText(theme.ReplaceSemanticTags(b.String()))
	text.SetBorder(true)
	text.SetTitle(" " + view.Table().Title() + " ")
	text.SetTitleColor(theme.Colors.Title)
	text.SetBorderColor(theme.Colors.Border)
	text.SetDoneFunc(func(tcell.Key) { a.closeModal(page) })

	a.openModal(page, centered(text, 80, len(row)+5), text)
}
