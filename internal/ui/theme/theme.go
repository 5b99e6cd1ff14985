// Package theme holds the semantic color palette of the TUI.
//
// Components never hardcode tcell colors. They read Colors (or use semantic
// tags such as [accent] in tview text, see ReplaceSemanticTags) so a built-in
// theme or the user's overrides from the config file restyle everything.
//
// Usage:
//
//	cell.SetTextColor(theme.Colors.Primary)
//	cell.SetTextColor(theme.StatusColor(row[col]))
package theme

import (
	"fmt"
	"maps"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lynva/lynva-tui/internal/config"
	"github.com/lynva/lynva-tui/pkg/api"
)

// Palette is the set of semantic colors used by the UI.
type Palette struct {
	Primary   tcell.Color // main text
	Secondary tcell.Color // labels and muted text
	Accent    tcell.Color // active tab, sort indicator, key hints

	Success tcell.Color
	Warning tcell.Color
	Error   tcell.Color
	Info    tcell.Color

	Background tcell.Color
	Border     tcell.Color
	Selection  tcell.Color
	Header     tcell.Color
	HeaderText tcell.Color
	Footer     tcell.Color
	FooterText tcell.Color
	Title      tcell.Color
	Contrast   tcell.Color
	Inverse    tcell.Color

	// Record states
	StatusPending   tcell.Color
	StatusConfirmed tcell.Color
	StatusCompleted tcell.Color
	StatusCancelled tcell.Color
	StatusActive    tcell.Color
	StatusInactive  tcell.Color
}

// Colors is the palette in effect. ApplyCustomTheme replaces its fields.
var Colors = defaultPalette()

func defaultPalette() Palette {
	return Palette{
		Primary:   tcell.ColorWhite,
		Secondary: tcell.ColorGray,
		Accent:    tcell.ColorFuchsia,

		Success: tcell.ColorGreen,
		Warning: tcell.ColorYellow,
		Error:   tcell.ColorRed,
		Info:    tcell.ColorBlue,

		Background: tcell.ColorDefault,
		Border:     tcell.ColorGray,
		Selection:  tcell.ColorNavy,
		Header:     tcell.ColorDefault,
		HeaderText: tcell.ColorYellow,
		Footer:     tcell.ColorDefault,
		FooterText: tcell.ColorWhite,
		Title:      tcell.ColorWhite,
		Contrast:   tcell.ColorBlue,
		Inverse:    tcell.ColorBlack,

		StatusPending:   tcell.ColorYellow,
		StatusConfirmed: tcell.ColorAqua,
		StatusCompleted: tcell.ColorGreen,
		StatusCancelled: tcell.ColorRed,
		StatusActive:    tcell.ColorGreen,
		StatusInactive:  tcell.ColorGray,
	}
}

// slots maps config color names to palette fields.
func (p *Palette) slots() map[string]*tcell.Color {
	return map[string]*tcell.Color{
		"primary":         &p.Primary,
		"secondary":       &p.Secondary,
		"accent":          &p.Accent,
		"success":         &p.Success,
		"warning":         &p.Warning,
		"error":           &p.Error,
		"info":            &p.Info,
		"background":      &p.Background,
		"border":          &p.Border,
		"selection":       &p.Selection,
		"header":          &p.Header,
		"headertext":      &p.HeaderText,
		"footer":          &p.Footer,
		"footertext":      &p.FooterText,
		"title":           &p.Title,
		"contrast":        &p.Contrast,
		"inverse":         &p.Inverse,
		"statuspending":   &p.StatusPending,
		"statusconfirmed": &p.StatusConfirmed,
		"statuscompleted": &p.StatusCompleted,
		"statuscancelled": &p.StatusCancelled,
		"statusactive":    &p.StatusActive,
		"statusinactive":  &p.StatusInactive,
	}
}

// Semantic tags usable inside tview dynamic color text.
var semanticTags = []string{
	"primary", "secondary", "accent", "success", "warning", "error", "info",
	"header", "footer", "title",
}

func tagColor(tag string) tcell.Color {
	switch tag {
	case "header":
		return Colors.HeaderText
	case "footer":
		return Colors.FooterText
	}

	return *Colors.slots()[tag]
}

// ReplaceSemanticTags replaces tags like [accent] with the current color tag.
func ReplaceSemanticTags(s string) string {
	for _, tag := range semanticTags {
		s = strings.ReplaceAll(s, "["+tag+"]", "["+ColorToTag(tagColor(tag))+"]")
	}

	return s
}

// StatusColor returns the color for a rendered status cell. Unknown values
// use the primary text color.
func StatusColor(status string) tcell.Color {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case api.BookingStatusPending:
		return Colors.StatusPending
	case api.BookingStatusConfirmed:
		return Colors.StatusConfirmed
	case api.BookingStatusCompleted, api.OutcomeBooked:
		return Colors.StatusCompleted
	case api.BookingStatusCancelled:
		return Colors.StatusCancelled
	case api.StatusActive:
		return Colors.StatusActive
	case api.StatusInactive, api.OutcomeNotBooked:
		return Colors.StatusInactive
	default:
		return Colors.Primary
	}
}

var namedColors = map[tcell.Color]string{
	tcell.ColorDefault: "default",
	tcell.ColorBlack:   "black",
	tcell.ColorMaroon:  "maroon",
	tcell.ColorGreen:   "green",
	tcell.ColorOlive:   "olive",
	tcell.ColorNavy:    "navy",
	tcell.ColorPurple:  "purple",
	tcell.ColorTeal:    "teal",
	tcell.ColorSilver:  "silver",
	tcell.ColorGray:    "gray",
	tcell.ColorRed:     "red",
	tcell.ColorLime:    "lime",
	tcell.ColorYellow:  "yellow",
	tcell.ColorBlue:    "blue",
	tcell.ColorFuchsia: "fuchsia",
	tcell.ColorAqua:    "aqua",
	tcell.ColorWhite:   "white",
}

// ColorToTag returns a tview color tag string for c.
func ColorToTag(c tcell.Color) string {
	if name, ok := namedColors[c]; ok {
		return name
	}

	return fmt.Sprintf("#%06x", c.Hex())
}

// ApplyToTview sets the global tview.Styles from Colors.
func ApplyToTview() {
	tview.Styles = tview.Theme{
		PrimitiveBackgroundColor:    Colors.Background,
		ContrastBackgroundColor:     Colors.Contrast,
		MoreContrastBackgroundColor: Colors.Selection,
		BorderColor:                 Colors.Border,
		TitleColor:                  Colors.Title,
		GraphicsColor:               Colors.Info,
		PrimaryTextColor:            Colors.Primary,
		SecondaryTextColor:          Colors.Secondary,
		TertiaryTextColor:           Colors.Accent,
		InverseTextColor:            Colors.Inverse,
		ContrastSecondaryTextColor:  Colors.Selection,
	}
}

// BuiltInThemes lists the selectable themes. Missing keys fall back to the
// default palette.
var BuiltInThemes = map[string]map[string]string{
	"default": {},
	"lynva": {
		"primary":         "#e5e7eb",
		"secondary":       "#9ca3af",
		"accent":          "#a78bfa",
		"success":         "#34d399",
		"warning":         "#fbbf24",
		"error":           "#f87171",
		"info":            "#60a5fa",
		"background":      "#111827",
		"border":          "#374151",
		"selection":       "#4c1d95",
		"header":          "#1f2937",
		"headertext":      "#c4b5fd",
		"footer":          "#1f2937",
		"footertext":      "#e5e7eb",
		"title":           "#a78bfa",
		"contrast":        "#1f2937",
		"inverse":         "#111827",
		"statuspending":   "#fbbf24",
		"statusconfirmed": "#60a5fa",
		"statuscompleted": "#34d399",
		"statuscancelled": "#f87171",
		"statusactive":    "#34d399",
		"statusinactive":  "#6b7280",
	},
	// Catppuccin Mocha (https://github.com/catppuccin/catppuccin)
	"catppuccin-mocha": {
		"primary":         "#cdd6f4",
		"secondary":       "#a6adc8",
		"accent":          "#cba6f7",
		"success":         "#a6e3a1",
		"warning":         "#f9e2af",
		"error":           "#f38ba8",
		"info":            "#89b4fa",
		"background":      "#1e1e2e",
		"border":          "#45475a",
		"selection":       "#585b70",
		"header":          "#313244",
		"headertext":      "#f5e0dc",
		"footer":          "#313244",
		"footertext":      "#cdd6f4",
		"title":           "#b4befe",
		"contrast":        "#313244",
		"inverse":         "#1e1e2e",
		"statuspending":   "#f9e2af",
		"statusconfirmed": "#89dceb",
		"statuscompleted": "#a6e3a1",
		"statuscancelled": "#f38ba8",
		"statusactive":    "#a6e3a1",
		"statusinactive":  "#6c7086",
	},
	// Nord (https://www.nordtheme.com/docs/colors-and-palettes)
	"nord": {
		"primary":         "#d8dee9",
		"secondary":       "#e5e9f0",
		"accent":          "#b48ead",
		"success":         "#a3be8c",
		"warning":         "#ebcb8b",
		"error":           "#bf616a",
		"info":            "#5e81ac",
		"background":      "#2e3440",
		"border":          "#4c566a",
		"selection":       "#434c5e",
		"header":          "#3b4252",
		"headertext":      "#88c0d0",
		"footer":          "#3b4252",
		"footertext":      "#d8dee9",
		"title":           "#b48ead",
		"contrast":        "#3b4252",
		"inverse":         "#2e3440",
		"statuspending":   "#ebcb8b",
		"statusconfirmed": "#88c0d0",
		"statuscompleted": "#a3be8c",
		"statuscancelled": "#bf616a",
		"statusactive":    "#a3be8c",
		"statusinactive":  "#4c566a",
	},
	// Dracula (https://draculatheme.com/contribute)
	"dracula": {
		"primary":         "#f8f8f2",
		"secondary":       "#6272a4",
		"accent":          "#bd93f9",
		"success":         "#50fa7b",
		"warning":         "#f1fa8c",
		"error":           "#ff5555",
		"info":            "#8be9fd",
		"background":      "#282a36",
		"border":          "#44475a",
		"selection":       "#44475a",
		"header":          "#44475a",
		"headertext":      "#bd93f9",
		"footer":          "#44475a",
		"footertext":      "#f8f8f2",
		"title":           "#ff79c6",
		"contrast":        "#44475a",
		"inverse":         "#282a36",
		"statuspending":   "#f1fa8c",
		"statusconfirmed": "#8be9fd",
		"statuscompleted": "#50fa7b",
		"statuscancelled": "#ff5555",
		"statusactive":    "#50fa7b",
		"statusinactive":  "#6272a4",
	},
	// Gruvbox (https://github.com/morhetz/gruvbox)
	"gruvbox": {
		"primary":         "#ebdbb2",
		"secondary":       "#a89984",
		"accent":          "#d3869b",
		"success":         "#b8bb26",
		"warning":         "#fabd2f",
		"error":           "#fb4934",
		"info":            "#83a598",
		"background":      "#282828",
		"border":          "#504945",
		"selection":       "#665c54",
		"header":          "#3c3836",
		"headertext":      "#fe8019",
		"footer":          "#3c3836",
		"footertext":      "#ebdbb2",
		"title":           "#d3869b",
		"contrast":        "#3c3836",
		"inverse":         "#282828",
		"statuspending":   "#fabd2f",
		"statusconfirmed": "#83a598",
		"statuscompleted": "#b8bb26",
		"statuscancelled": "#fb4934",
		"statusactive":    "#b8bb26",
		"statusinactive":  "#928374",
	},
}

// ThemeNames returns the built-in theme names.
func ThemeNames() []string {
	names := make([]string, 0, len(BuiltInThemes))
	for name := range BuiltInThemes {
		names = append(names, name)
	}

	return names
}

// ResolveTheme merges the selected built-in theme with user overrides.
// Unknown theme names resolve to the default theme.
func ResolveTheme(cfg *config.ThemeConfig) map[string]string {
	resolved := make(map[string]string)

	if cfg != nil {
		if t, ok := BuiltInThemes[cfg.Name]; ok {
			maps.Copy(resolved, t)
		}

		for k, v := range cfg.Colors {
			resolved[strings.ToLower(k)] = v
		}
	}

	return resolved
}

// ApplyCustomTheme rebuilds Colors from the default palette, the selected
// theme and overrides. It returns the names of keys it did not recognize.
func ApplyCustomTheme(cfg *config.ThemeConfig) []string {
	p := defaultPalette()
	slots := p.slots()

	var unknown []string

	for key, val := range ResolveTheme(cfg) {
		slot, ok := slots[key]
		if !ok {
			unknown = append(unknown, key)

			continue
		}

		*slot = parseColor(val)
	}

	Colors = p

	return unknown
}

// parseColor parses an ANSI name, W3C name or hex code.
func parseColor(s string) tcell.Color {
	if strings.EqualFold(s, "default") {
		return tcell.ColorDefault
	}

	return tcell.GetColor(s)
}
