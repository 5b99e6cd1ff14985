package tablestate

import (
	"cmp"
	"strings"
	"time"
)

// Sort indicators shown next to column headers.
const (
	IndicatorUnsorted = "↕"
	IndicatorAsc      = "↑"
	IndicatorDesc     = "↓"
)

// SortKey is a comparable value extracted from a record for one sort column.
// Build it with NumberKey, StringKey, TimeKey or DateKey.
type SortKey struct {
	num     float64
	str     string
	numeric bool
}

// SortAccessor maps a record to its key for one sort column.
type SortAccessor[T any] func(T) SortKey

// NumberKey orders numerically.
func NumberKey(v float64) SortKey {
	return SortKey{num: v, numeric: true}
}

// StringKey orders by byte-wise string comparison.
func StringKey(v string) SortKey {
	return SortKey{str: v}
}

// TimeKey orders by epoch milliseconds. The zero time sorts as 0.
func TimeKey(t time.Time) SortKey {
	if t.IsZero() {
		return NumberKey(0)
	}

	return NumberKey(float64(t.UnixMilli()))
}

// DateKey parses a date-like string and orders it like TimeKey. Missing or
// unparseable dates sort as 0.
func DateKey(v string) SortKey {
	t, ok := parseDate(v)
	if !ok {
		return NumberKey(0)
	}

	return TimeKey(t)
}

// Compare returns -1, 0 or +1. Numeric keys sort before string keys so a
// mixed column still has a total order.
func (k SortKey) Compare(other SortKey) int {
	switch {
	case k.numeric && other.numeric:
		return cmp.Compare(k.num, other.num)
	case k.numeric:
		return -1
	case other.numeric:
		return 1
	default:
		return strings.Compare(k.str, other.str)
	}
}

// NextSort returns the sort that results from activating column while
// current is in effect: unsorted, then asc, then desc, then unsorted again.
// Activating a different column always starts it ascending.
func NextSort(current *SortConfig, column string) *SortConfig {
	if current == nil || current.Key != column {
		return &SortConfig{Key: column, Direction: SortAsc}
	}

	if current.Direction == SortAsc {
		return &SortConfig{Key: column, Direction: SortDesc}
	}

	return nil
}

// SortIndicator returns the header glyph for column under current.
func SortIndicator(current *SortConfig, column string) string {
	if current == nil || current.Key != column {
		return IndicatorUnsorted
	}

	if current.Direction == SortDesc {
		return IndicatorDesc
	}

	return IndicatorAsc
}

// ParseSort reads "key" or "key:asc" / "key:desc". An empty string yields nil.
func ParseSort(s string) *SortConfig {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	key, dir, _ := strings.Cut(s, ":")
	cfg := &SortConfig{Key: strings.TrimSpace(key), Direction: SortAsc}
	if strings.EqualFold(strings.TrimSpace(dir), string(SortDesc)) {
		cfg.Direction = SortDesc
	}

	return cfg
}
