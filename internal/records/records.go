// Package records describes how each dashboard entity is searched, filtered,
// sorted and rendered as a table. Every view and the headless list command
// derive pages through the same tablestate pipeline with these descriptors.
package records

import (
	"context"
	"fmt"
	"sort"

	"github.com/lynva/lynva-tui/pkg/api"
	"github.com/lynva/lynva-tui/pkg/tablestate"
)

// Column is one rendered table column. SortKey is empty for columns that
// cannot be sorted.
type Column struct {
	Title   string
	SortKey string
	Align   int
	Expand  int
}

// Column alignment, matching tview's AlignLeft/AlignRight values.
const (
	AlignLeft  = 0
	AlignRight = 2
)

// View bundles everything a table view needs for one record type.
type View[T any] struct {
	Name          string
	Title         string
	Table         string
	Descriptor    tablestate.Descriptor[T]
	FilterOptions []tablestate.FilterOption
	Columns       []Column
	Row           func(T) []string
	ID            func(T) string
	Options       tablestate.Options
	Fetch         func(ctx context.Context, c *api.Client) ([]T, error)
	// Stats summarizes a whole snapshot. Nil for views without headline
	// figures.
	Stats func([]T) []Stat
}

// NewState creates a fresh State with the view's initial configuration.
func (v View[T]) NewState() *tablestate.State {
	return tablestate.New(v.Options)
}

// FilterOption returns the declared option for key.
func (v View[T]) FilterOption(key string) (tablestate.FilterOption, bool) {
	for _, opt := range v.FilterOptions {
		if opt.Key == key {
			return opt, true
		}
	}

	return tablestate.FilterOption{}, false
}

// SortKeys returns the sortable keys in a stable order.
func (v View[T]) SortKeys() []string {
	keys := make([]string, 0, len(v.Descriptor.Sorters))
	for k := range v.Descriptor.Sorters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// Rows renders records as table cells.
func (v View[T]) Rows(records []T) [][]string {
	out := make([][]string, len(records))
	for i, r := range records {
		out[i] = v.Row(r)
	}

	return out
}

// Headers returns the column titles.
func (v View[T]) Headers() []string {
	out := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		out[i] = c.Title
	}

	return out
}

// ViewCalls names the call log view, which reads api.TableCallLogs.
const ViewCalls = "calls"

// Names lists the views in menu order.
var Names = []string{api.TableBookings, api.TableServices, api.TableFAQs, ViewCalls}

// Aliases maps accepted command line names to view names.
var Aliases = map[string]string{
	"bookings":  api.TableBookings,
	"booking":   api.TableBookings,
	"services":  api.TableServices,
	"service":   api.TableServices,
	"faqs":      api.TableFAQs,
	"faq":       api.TableFAQs,
	"calls":     ViewCalls,
	"call":      ViewCalls,
	"call_logs": ViewCalls,
}

// Resolve maps a user supplied name to a canonical view name.
func Resolve(name string) (string, error) {
	if v, ok := Aliases[name]; ok {
		return v, nil
	}

	return "", fmt.Errorf("%w: %q (expected one of bookings, services, faqs, calls)", api.ErrUnknownTable, name)
}

func float(v float64) *float64 {
	return &v
}

func activeStatus(active bool) string {
	if active {
		return api.StatusActive
	}

	return api.StatusInactive
}

// dateRangePlaceholder warns that a date-only end bound stops at 00:00.
const dateRangePlaceholder = "2024-01-01..2024-02-01 (end at 00:00)"

var statusOptions = []tablestate.SelectOption{
	{Value: api.StatusActive, Label: "Active"},
	{Value: api.StatusInactive, Label: "Inactive"},
}
