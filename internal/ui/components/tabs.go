package components

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/lynva/lynva-tui/internal/ui/theme"
)

// TabBar lists the tables and highlights the active one.
type TabBar struct {
	*tview.TextView

	titles []string
	counts []int
	active int
}

// NewTabBar creates a tab bar for titles.
func NewTabBar(titles []string) *TabBar {
	tv := tview.NewTextView()
	tv.SetDynamicColors(true)
	tv.SetTextAlign(tview.AlignLeft)

	t := &TabBar{
		TextView: tv,
		titles:   titles,
		counts:   make([]int, len(titles)),
	}
	for i := range t.counts {
		t.counts[i] = -1
	}

	t.render()

	return t
}

// SetActive highlights tab i.
func (t *TabBar) SetActive(i int) {
	if i < 0 || i >= len(t.titles) {
		return
	}

	t.active = i
	t.render()
}

// Active returns the highlighted tab.
func (t *TabBar) Active() int { return t.active }

// SetCount shows the number of loaded records next to tab i. A negative
// count hides it.
func (t *TabBar) SetCount(i, count int) {
	if i < 0 || i >= len(t.counts) {
		return
	}

	t.counts[i] = count
	t.render()
}

func (t *TabBar) render() {
	parts := make([]string, len(t.titles))

	for i, title := range t.titles {
		label := fmt.Sprintf("%d %s", i+1, title)
		if t.counts[i] >= 0 {
			label += fmt.Sprintf(" (%d)", t.counts[i])
		}

		if i == t.active {
			parts[i] = "[accent][::r] " + label + " [::-][-]"
		} else {
			parts[i] = "[secondary] " + label + " [-]"
		}
	}

	t.SetText(theme.ReplaceSemanticTags(strings.Join(parts, " ")))
}
