package tablestate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// FilterType tells a view how to render and interpret a filter.
type FilterType string

const (
	FilterText        FilterType = "text"
	FilterSelect      FilterType = "select"
	FilterDate        FilterType = "date"
	FilterDateRange   FilterType = "dateRange"
	FilterNumber      FilterType = "number"
	FilterNumberRange FilterType = "numberRange"
)

// RangeSeparator splits the two bounds of a range in textual filter input,
// e.g. "100..250", "..250" or "2024-01-01..".
const RangeSeparator = ".."

// SelectOption is one choice of a select filter.
type SelectOption struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// FilterOption is the static declaration of a filter a view exposes.
type FilterOption struct {
	Key         string         `json:"key"`
	Label       string         `json:"label"`
	Type        FilterType     `json:"type"`
	Options     []SelectOption `json:"options,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
	Min         *float64       `json:"min,omitempty"`
	Max         *float64       `json:"max,omitempty"`
}

// FilterValue is the value stored under a filter key. It is one of Text,
// NumberRange or DateRange.
type FilterValue interface {
	// Active reports whether the value should be applied at all.
	Active() bool
	String() string
}

// Text is the value of text, select, date and number filters.
type Text string

func (t Text) Active() bool   { return t != "" }
func (t Text) String() string { return string(t) }

// NumberRange is the value of numberRange filters. Bounds are kept as the
// raw strings the user typed; an empty bound is absent.
type NumberRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

func (r NumberRange) Active() bool   { return true }
func (r NumberRange) String() string { return r.Min + RangeSeparator + r.Max }

// DateRange is the value of dateRange filters. Bounds are date-like strings;
// an empty bound is absent.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r DateRange) Active() bool   { return true }
func (r DateRange) String() string { return r.Start + RangeSeparator + r.End }

// Predicate reports whether record passes the filter holding value.
type Predicate[T any] func(record T, value FilterValue) bool

// StringField reads a string column of a record. Missing values are "".
type StringField[T any] func(T) string

// NumberField reads a numeric column of a record. Missing values are 0.
type NumberField[T any] func(T) float64

// Contains matches when field contains the Text value, ignoring case.
func Contains[T any](field StringField[T]) Predicate[T] {
	return func(record T, value FilterValue) bool {
		needle := strings.ToLower(value.String())
		v := field(record)
		if v == "" {
			return needle == ""
		}

		return strings.Contains(strings.ToLower(v), needle)
	}
}

// Equals matches when field equals the Text value exactly.
func Equals[T any](field StringField[T]) Predicate[T] {
	return func(record T, value FilterValue) bool {
		return field(record) == value.String()
	}
}

// InDateRange matches when the date held in field lies within a DateRange.
// Both bounds are inclusive and optional. Records whose date is missing or
// unparseable fail as soon as one usable bound is set. Unparseable bounds are
// ignored. A date-only end bound means midnight at the start of that day, so
// timestamps later on the end date fall outside the range.
func InDateRange[T any](field StringField[T]) Predicate[T] {
	return func(record T, value FilterValue) bool {
		r, ok := value.(DateRange)
		if !ok {
			return true
		}

		start, hasStart := parseDate(r.Start)
		end, hasEnd := parseDate(r.End)
		if !hasStart && !hasEnd {
			return true
		}

		at, ok := parseDate(field(record))
		if !ok {
			return false
		}

		if hasStart && at.Before(start) {
			return false
		}
		if hasEnd && at.After(end) {
			return false
		}

		return true
	}
}

// InNumberRange matches when field lies within a NumberRange. Both bounds are
// inclusive and optional. Non-numeric bounds are ignored.
func InNumberRange[T any](field NumberField[T]) Predicate[T] {
	return func(record T, value FilterValue) bool {
		r, ok := value.(NumberRange)
		if !ok {
			return true
		}

		v := field(record)
		if lo, ok := parseNumber(r.Min); ok && v < lo {
			return false
		}
		if hi, ok := parseNumber(r.Max); ok && v > hi {
			return false
		}

		return true
	}
}

// Validate rejects values that do not fit the option's type. It is meant to
// be called where user input enters the State.
func (o FilterOption) Validate(value FilterValue) error {
	switch o.Type {
	case FilterNumberRange:
		r, ok := value.(NumberRange)
		if !ok {
			return fmt.Errorf("filter %q expects a number range", o.Key)
		}
		for _, bound := range []string{r.Min, r.Max} {
			if err := o.checkNumber(bound); err != nil {
				return err
			}
		}
	case FilterDateRange:
		r, ok := value.(DateRange)
		if !ok {
			return fmt.Errorf("filter %q expects a date range", o.Key)
		}
		for _, bound := range []string{r.Start, r.End} {
			if _, ok := parseDate(bound); bound != "" && !ok {
				return fmt.Errorf("filter %q: invalid date %q", o.Key, bound)
			}
		}
	case FilterNumber:
		if err := o.checkNumber(value.String()); err != nil {
			return err
		}
	case FilterDate:
		if _, ok := parseDate(value.String()); value.String() != "" && !ok {
			return fmt.Errorf("filter %q: invalid date %q", o.Key, value.String())
		}
	case FilterSelect:
		v := value.String()
		if v == "" || len(o.Options) == 0 {
			return nil
		}
		for _, opt := range o.Options {
			if opt.Value == v {
				return nil
			}
		}

		return fmt.Errorf("filter %q: unknown option %q", o.Key, v)
	}

	return nil
}

// Parse converts raw user input into the value shape for the option's type
// and validates it. Range bounds are split on RangeSeparator.
func (o FilterOption) Parse(raw string) (FilterValue, error) {
	raw = strings.TrimSpace(raw)

	var value FilterValue
	switch o.Type {
	case FilterNumberRange:
		lo, hi := splitRange(raw)
		value = NumberRange{Min: lo, Max: hi}
	case FilterDateRange:
		lo, hi := splitRange(raw)
		value = DateRange{Start: lo, End: hi}
	default:
		value = Text(raw)
	}

	if err := o.Validate(value); err != nil {
		return nil, err
	}

	return value, nil
}

func (o FilterOption) checkNumber(bound string) error {
	if bound == "" {
		return nil
	}

	n, ok := parseNumber(bound)
	if !ok {
		return fmt.Errorf("filter %q: %q is not a number", o.Key, bound)
	}
	if o.Min != nil && n < *o.Min {
		return fmt.Errorf("filter %q: %v is below the minimum %v", o.Key, n, *o.Min)
	}
	if o.Max != nil && n > *o.Max {
		return fmt.Errorf("filter %q: %v is above the maximum %v", o.Key, n, *o.Max)
	}

	return nil
}

func splitRange(raw string) (string, string) {
	lo, hi, found := strings.Cut(raw, RangeSeparator)
	if !found {
		return raw, ""
	}

	return strings.TrimSpace(lo), strings.TrimSpace(hi)
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) {
		return 0, false
	}

	return n, true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}
