package records

import (
	"context"
	"sync"

	"github.com/lynva/lynva-tui/pkg/api"
	"github.com/lynva/lynva-tui/pkg/tablestate"
)

// Page is a derived page rendered as strings.
type Page struct {
	Rows  [][]string
	IDs   []string
	Total int
}

// Table is the type-erased form of a View plus its loaded records. The TUI
// and the list command work against it without knowing the record type.
type Table interface {
	Name() string
	Title() string
	Source() string
	Columns() []Column
	FilterOptions() []tablestate.FilterOption
	FilterOption(key string) (tablestate.FilterOption, bool)
	SortKeys() []string
	StateOptions() tablestate.Options
	NewState() *tablestate.State

	// Load fetches the record set through the client, replacing the snapshot.
	Load(ctx context.Context, c *api.Client) error
	// Derive runs the pipeline over the current snapshot and writes the total back into state.
	Derive(state *tablestate.State) Page
	// Len is the size of the unfiltered snapshot.
	Len() int
	// Stats summarizes the unfiltered snapshot, nil when the view has none.
	Stats() []Stat
}

// Dataset holds the records of one view. Load may run on a background
// goroutine while Derive runs on the UI goroutine.
type Dataset[T any] struct {
	view View[T]

	mu      sync.RWMutex
	records []T
}

// NewDataset creates an empty dataset for view.
func NewDataset[T any](view View[T]) *Dataset[T] {
	return &Dataset[T]{view: view}
}

func (d *Dataset[T]) Name() string   { return d.view.Name }
func (d *Dataset[T]) Title() string  { return d.view.Title }
func (d *Dataset[T]) Source() string { return d.view.Table }

func (d *Dataset[T]) Columns() []Column { return d.view.Columns }

func (d *Dataset[T]) FilterOptions() []tablestate.FilterOption { return d.view.FilterOptions }

func (d *Dataset[T]) FilterOption(key string) (tablestate.FilterOption, bool) {
	return d.view.FilterOption(key)
}

func (d *Dataset[T]) SortKeys() []string { return d.view.SortKeys() }

func (d *Dataset[T]) StateOptions() tablestate.Options { return d.view.Options }

func (d *Dataset[T]) NewState() *tablestate.State { return d.view.NewState() }

// View returns the typed view definition.
func (d *Dataset[T]) View() View[T] { return d.view }

// SetRecords replaces the snapshot.
func (d *Dataset[T]) SetRecords(records []T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records = records
}

// Records returns the current snapshot. Callers must not modify it.
func (d *Dataset[T]) Records() []T {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.records
}

func (d *Dataset[T]) Len() int {
	return len(d.Records())
}

func (d *Dataset[T]) Stats() []Stat {
	if d.view.Stats == nil {
		return nil
	}

	return d.view.Stats(d.Records())
}

func (d *Dataset[T]) Load(ctx context.Context, c *api.Client) error {
	records, err := d.view.Fetch(ctx, c)
	if err != nil {
		return err
	}

	d.SetRecords(records)

	return nil
}

func (d *Dataset[T]) Derive(state *tablestate.State) Page {
	res := tablestate.Derive(d.Records(), state, d.view.Descriptor)

	ids := make([]string, len(res.Page))
	for i, r := range res.Page {
		ids[i] = d.view.ID(r)
	}

	return Page{
		Rows:  d.view.Rows(res.Page),
		IDs:   ids,
		Total: res.Total,
	}
}

// Tables returns a fresh, empty Table for every view in menu order.
func Tables() []Table {
	return []Table{
		NewDataset(Bookings),
		NewDataset(Services),
		NewDataset(FAQs),
		NewDataset(Calls),
	}
}

// Lookup returns a fresh Table for a user supplied name.
func Lookup(name string) (Table, error) {
	canonical, err := Resolve(name)
	if err != nil {
		return nil, err
	}

	for _, t := range Tables() {
		if t.Name() == canonical {
			return t, nil
		}
	}

	return nil, api.ErrUnknownTable
}
