package components

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lynva/lynva-tui/internal/config"
	"github.com/lynva/lynva-tui/internal/keys"
	"github.com/lynva/lynva-tui/internal/ui/theme"
)

// HelpText renders the keybinding reference for kb.
func HelpText(kb config.KeyBindings) string {
	section := func(b *strings.Builder, title string, rows [][2]string) {
		fmt.Fprintf(b, "[header]%s:[-]\n", title)

		for _, r := range rows {
			fmt.Fprintf(b, "  [primary]%-22s[-] %s\n", tview.Escape(r[0]), r[1])
		}

		b.WriteString("\n")
	}

	var b strings.Builder

	section(&b, "Tables", [][2]string{
		{kb.PrevTable + " / " + kb.NextTable, "Previous / next table"},
		{"1-9", "Jump to table"},
		{"Arrow keys / j k", "Move between rows"},
		{"Enter", "Show record details"},
		{kb.Refresh, "Reload from the server"},
	})
	section(&b, "Search and filters", [][2]string{
		{kb.Search, "Search the current table"},
		{kb.Filters, "Edit filters"},
		{kb.ClearFilters, "Clear search and filters"},
		{kb.Reset, "Restore initial sort, filters and page size"},
	})
	section(&b, "Sorting", [][2]string{
		{kb.Sort, "Pick a column; repeat to cycle ↑ ↓ ↕"},
	})
	section(&b, "Pages", [][2]string{
		{kb.PrevPage + " / " + kb.NextPage, "Previous / next page"},
		{kb.FirstPage + " / " + kb.LastPage, "First / last page"},
		{kb.GoToPage, "Go to page"},
		{kb.PageSize, "Rows per page"},
	})
	section(&b, "Filter input", [][2]string{
		{"from..to", "Ranges, either bound optional (e.g. 10.. or ..2024-06-30)"},
		{"Tab / Shift+Tab", "Move between fields"},
		{"Escape", "Close without applying"},
	})

	fmt.Fprintf(&b, "[secondary]Press %s, Escape or %s to close this help[-]", tview.Escape(kb.Help), tview.Escape(kb.Quit))

	return theme.ReplaceSemanticTags(b.String())
}

// showHelp opens the keybinding reference.
func (a *App) showHelp() {
	const page = "help"

	kb := a.config.KeyBindings

	tv := tview.NewTextView()
	tv.SetDynamicColors(true)
	tv.SetScrollable(true)
	tv.SetWrap(false)
	tv.SetBorder(true)
	tv.SetTitle(" Lynva - Help & Keybindings ")
	tv.SetTitleColor(theme.Colors.HeaderText)
	tv.SetBorderColor(theme.Colors.HeaderText)
	tv.SetText(HelpText(kb))

	tv.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || keys.Matches(event, kb.Help) || keys.Matches(event, kb.Quit) {
			a.closeModal(page)

			return nil
		}

		return event
	})

	a.openModal(page, centered(tv, 84, 34), tv)
}
