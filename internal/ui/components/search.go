package components

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lynva/lynva-tui/internal/ui/theme"
)

// activateSearch shows the search input above the footer. Typing filters the
// active table live; Enter or Escape returns focus to the table and keeps
// the term.
func (a *App) activateSearch() {
	view := a.activeView()
	if view == nil || a.searching {
		return
	}

	if a.searchInput == nil {
		a.searchInput = tview.NewInputField().
			SetLabel("Search: ").
			SetFieldWidth(0).
			SetLabelColor(theme.Colors.HeaderText).
			SetFieldBackgroundColor(theme.Colors.Contrast).
			SetPlaceholder("Type to search... Enter/Esc returns to the table")
	}

	a.searchInput.SetText(view.State().SearchTerm())

	// Bound to the view that was active when the search opened.
	a.searchInput.SetChangedFunc(func(text string) {
		view.SetSearch(text)
	})
	a.searchInput.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter || key == tcell.KeyEsc {
			a.deactivateSearch()
		}
	})

	a.mainLayout.RemoveItem(a.footer)
	a.mainLayout.AddItem(a.searchInput, 1, 0, true)
	a.mainLayout.AddItem(a.footer, 1, 0, false)
	a.searching = true

	a.SetFocus(a.searchInput)
}

// deactivateSearch hides the search input.
func (a *App) deactivateSearch() {
	if !a.searching {
		return
	}

	a.mainLayout.RemoveItem(a.searchInput)
	a.searching = false

	if v := a.activeView(); v != nil {
		a.SetFocus(v.Grid())
	}
}
