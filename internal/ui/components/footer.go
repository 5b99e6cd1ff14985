package components

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/lynva/lynva-tui/internal/config"
	"github.com/lynva/lynva-tui/internal/ui/theme"
)

// Footer shows the key hints and a short status note.
type Footer struct {
	*tview.TextView

	baseText string
	note     string
}

// NewFooter creates the footer with hints for kb.
func NewFooter(kb config.KeyBindings) *Footer {
	tv := tview.NewTextView()
	tv.SetTextAlign(tview.AlignCenter)
	tv.SetDynamicColors(true)
	tv.SetBackgroundColor(theme.Colors.Footer)

	f := &Footer{TextView: tv}
	f.UpdateKeybindings(kb)

	return f
}

// FormatKeyHints renders the footer hint line for kb.
func FormatKeyHints(kb config.KeyBindings) string {
	hints := []struct{ key, label string }{
		{kb.PrevTable + "/" + kb.NextTable, "Table"},
		{kb.Search, "Search"},
		{kb.Filters, "Filter"},
		{kb.Sort, "Sort"},
		{kb.PrevPage + "/" + kb.NextPage, "Page"},
		{kb.GoToPage, "Go to"},
		{kb.PageSize, "Size"},
		{kb.Reset, "Reset"},
		{kb.Help, "Help"},
		{kb.Quit, "Quit"},
	}

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, fmt.Sprintf("[header]%s:[footer]%s", tview.Escape(h.key), h.label))
	}

	return theme.ReplaceSemanticTags(strings.Join(parts, "  "))
}

// UpdateKeybindings re-renders the hints for kb.
func (f *Footer) UpdateKeybindings(kb config.KeyBindings) {
	f.baseText = FormatKeyHints(kb)
	f.updateDisplay()
}

// SetNote shows a short note after the hints, e.g. the realtime status.
func (f *Footer) SetNote(note string) {
	f.note = note
	f.updateDisplay()
}

func (f *Footer) updateDisplay() {
	text := f.baseText
	if f.note != "" {
		text = fmt.Sprintf("%s  [%s]%s[-]", text, theme.ColorToTag(theme.Colors.Success), tview.Escape(f.note))
	}

	f.SetText(text)
}
