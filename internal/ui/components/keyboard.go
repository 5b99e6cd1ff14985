package components

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lynva/lynva-tui/internal/keys"
)

// setupKeyboardHandlers routes the configured key bindings. While the
// search input or a dialog has focus, keys go to it untouched.
func (a *App) setupKeyboardHandlers() {
	a.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if a.searching || a.modalActive() {
			return event
		}

		if a.handleKey(event) {
			return nil
		}

		return event
	})
}

// handleKey runs the action bound to event and reports whether one matched.
func (a *App) handleKey(event *tcell.EventKey) bool {
	kb := a.config.KeyBindings
	view := a.activeView()

	// Number keys jump straight to a tab.
	if event.Key() == tcell.KeyRune && event.Modifiers() == 0 {
		if r := event.Rune(); r >= '1' && r <= '9' && int(r-'1') < len(a.views) {
			a.SwitchTo(int(r - '1'))

			return true
		}
	}

	switch {
	case keys.Matches(event, kb.Quit):
		a.Stop()
	case keys.Matches(event, kb.Help):
		a.showHelp()
	case keys.Matches(event, kb.NextTable):
		a.NextTable()
	case keys.Matches(event, kb.PrevTable):
		a.PrevTable()
	case keys.Matches(event, kb.Refresh):
		a.refreshActive()
	case view == nil:
		return false
	case keys.Matches(event, kb.Search):
		a.activateSearch()
	case keys.Matches(event, kb.Filters):
		a.showFilterForm()
	case keys.Matches(event, kb.ClearFilters):
		view.ClearFilters()
		a.header.ShowSuccess("Filters cleared")
	case keys.Matches(event, kb.Sort):
		a.showSortSelector()
	case keys.Matches(event, kb.NextPage):
		view.NextPage()
	case keys.Matches(event, kb.PrevPage):
		view.PrevPage()
	case keys.Matches(event, kb.FirstPage):
		view.FirstPage()
	case keys.Matches(event, kb.LastPage):
		view.LastPage()
	case keys.Matches(event, kb.GoToPage):
		a.showGoToPage()
	case keys.Matches(event, kb.PageSize):
		a.showPageSizeSelector()
	case keys.Matches(event, kb.Reset):
		view.Reset()
		a.header.ShowSuccess("View reset")
	default:
		return false
	}

	return true
}
