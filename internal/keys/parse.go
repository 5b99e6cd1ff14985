// Package keys parses key binding specs such as "Ctrl+R", "F5" or "/" and
// matches them against tcell key events.
package keys

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

var namedKeys = map[string]tcell.Key{
	"TAB":       tcell.KeyTab,
	"BACKTAB":   tcell.KeyBacktab,
	"ENTER":     tcell.KeyEnter,
	"RETURN":    tcell.KeyEnter,
	"ESC":       tcell.KeyEsc,
	"ESCAPE":    tcell.KeyEsc,
	"UP":        tcell.KeyUp,
	"DOWN":      tcell.KeyDown,
	"LEFT":      tcell.KeyLeft,
	"RIGHT":     tcell.KeyRight,
	"HOME":      tcell.KeyHome,
	"END":       tcell.KeyEnd,
	"PGUP":      tcell.KeyPgUp,
	"PAGEUP":    tcell.KeyPgUp,
	"PGDN":      tcell.KeyPgDn,
	"PAGEDOWN":  tcell.KeyPgDn,
	"BACKSPACE": tcell.KeyBackspace2,
	"DELETE":    tcell.KeyDelete,
}

// Parse converts a key specification to tcell values.
// It returns the key, optional rune, and modifier mask.
func Parse(spec string) (tcell.Key, rune, tcell.ModMask, error) {
	if strings.TrimSpace(spec) == "" {
		return 0, 0, 0, fmt.Errorf("empty key specification")
	}

	// "+" alone or a trailing "++" binds the plus key itself.
	parts := strings.Split(spec, "+")
	base := parts[len(parts)-1]
	modParts := parts[:len(parts)-1]

	if base == "" && len(parts) >= 2 {
		base = "+"
		modParts = parts[:len(parts)-2]
	}

	var mods tcell.ModMask

	for _, p := range modParts {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl", "control":
			mods |= tcell.ModCtrl
		case "alt", "opt", "option":
			mods |= tcell.ModAlt
		case "shift":
			mods |= tcell.ModShift
		case "meta", "win", "cmd", "super":
			mods |= tcell.ModMeta
		case "":
		default:
			return 0, 0, 0, fmt.Errorf("unknown modifier %q", p)
		}
	}

	upper := strings.ToUpper(strings.TrimSpace(base))
	if key, ok := namedKeys[upper]; ok {
		if key == tcell.KeyTab && mods&tcell.ModShift != 0 {
			return tcell.KeyBacktab, 0, mods &^ tcell.ModShift, nil
		}

		return key, 0, mods, nil
	}

	if strings.HasPrefix(upper, "F") && len(upper) > 1 {
		if n, err := strconv.Atoi(upper[1:]); err == nil && n >= 1 && n <= 12 {
			return tcell.KeyF1 + tcell.Key(n-1), 0, mods, nil
		}
	}

	runes := []rune(strings.TrimSpace(base))
	if len(runes) == 1 {
		// Terminals do not report Shift reliably for printable keys.
		return tcell.KeyRune, unicode.ToLower(runes[0]), mods &^ tcell.ModShift, nil
	}

	return 0, 0, 0, fmt.Errorf("unknown key %q", base)
}

// Validate returns an error if the key specification is not recognized.
func Validate(spec string) error {
	_, _, _, err := Parse(spec)

	return err
}

// CanonicalID returns a unique identifier for a parsed key combination.
func CanonicalID(key tcell.Key, r rune, mod tcell.ModMask) string {
	if key == tcell.KeyRune {
		r = unicode.ToLower(r)
	}

	return fmt.Sprintf("%d:%d:%d", key, r, mod)
}

// IsReserved reports whether a combination is used for navigation or
// terminal control and must not be rebound.
func IsReserved(key tcell.Key, r rune, mod tcell.ModMask) bool {
	if mod == 0 {
		switch key {
		case tcell.KeyUp, tcell.KeyDown, tcell.KeyLeft, tcell.KeyRight,
			tcell.KeyEsc, tcell.KeyEnter, tcell.KeyTab, tcell.KeyBacktab,
			tcell.KeyBackspace, tcell.KeyBackspace2:
			return true
		case tcell.KeyRune:
			switch unicode.ToLower(r) {
			case 'h', 'j', 'k', 'l':
				return true
			}
		}
	}

	if mod == tcell.ModCtrl && key == tcell.KeyRune {
		switch unicode.ToLower(r) {
		case 'c', 'z':
			return true
		}
	}

	return false
}

// NormalizeEvent converts an EventKey into a canonical (key, rune, mod)
// triple. Ctrl+letter events become KeyRune with the letter.
func NormalizeEvent(ev *tcell.EventKey) (tcell.Key, rune, tcell.ModMask) {
	key, r, mod := ev.Key(), ev.Rune(), ev.Modifiers()

	switch {
	case key == tcell.KeyTab && mod&tcell.ModCtrl == 0:
		return tcell.KeyTab, 0, mod
	case key == tcell.KeyEnter:
		return tcell.KeyEnter, 0, mod
	case key == tcell.KeyBackspace || key == tcell.KeyBackspace2:
		return tcell.KeyBackspace2, 0, mod
	case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ:
		return tcell.KeyRune, 'a' + rune(key-tcell.KeyCtrlA), mod | tcell.ModCtrl
	case key == tcell.KeyRune:
		return key, unicode.ToLower(r), mod &^ tcell.ModShift
	}

	return key, r, mod
}

// Matches reports whether ev triggers the binding spec. Invalid specs never match.
func Matches(ev *tcell.EventKey, spec string) bool {
	if ev == nil || spec == "" {
		return false
	}

	key, r, mod, err := Parse(spec)
	if err != nil {
		return false
	}

	ek, er, em := NormalizeEvent(ev)

	return CanonicalID(key, r, mod) == CanonicalID(ek, er, em)
}
