package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lynva/lynva-tui/internal/app"
	"github.com/lynva/lynva-tui/internal/bootstrap"
	"github.com/lynva/lynva-tui/internal/records"
	"github.com/lynva/lynva-tui/pkg/tablestate"
)

// listQuery is the table state requested on the command line.
type listQuery struct {
	Search   string
	Filters  []string
	Sort     string
	Page     int
	PageSize int
}

func newListCmd(v *viper.Viper) *cobra.Command {
	var (
		q       listQuery
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "list <table>",
		Short: "Print one page of a table",
		Long: `Print one page of bookings, services, faqs or calls.

Records go through the same search, filter, sort and pagination steps as
the interactive views. Filters take key=value; ranges use "min..max" and
either bound may be left out.`,
		Example: `  lynva-tui list bookings --filter status=pending --sort appointment_date:desc
  lynva-tui list calls --search booking --filter duration=60.. --page 2
  lynva-tui list faqs --sort none`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: records.Names,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := records.Lookup(args[0])
			if err != nil {
				return err
			}

			result, err := bootstrap.Bootstrap(bootstrapOptions(cmd, v))
			if err != nil {
				return err
			}

			if q.PageSize == 0 {
				q.PageSize = result.Config.PageSize
			}

			state, err := buildState(table, q)
			if err != nil {
				return err
			}

			env, err := app.Open(result.Config, app.Options{NoCache: result.NoCache})
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			if err := load(cmd.Context(), env, table, refresh); err != nil {
				if hint := bootstrap.StartupHint(err, result.Config); hint != "" {
					return fmt.Errorf("%w\n%s", err, hint)
				}
				return err
			}

			page := table.Derive(state)
			if pager := tablestate.BuildPager(state.Pagination()); pager.Visible && q.Page > pager.TotalPages {
				return fmt.Errorf("page %d is out of range (1-%d)", q.Page, pager.TotalPages)
			}

			return renderPage(cmd.OutOrStdout(), table, state, page)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&q.Search, "search", "s", "", "Free-text search across the table's text columns")
	flags.StringArrayVarP(&q.Filters, "filter", "f", nil, "Filter as key=value (repeatable)")
	flags.StringVar(&q.Sort, "sort", "", `Sort as key[:asc|desc], or "none" for server order`)
	flags.IntVarP(&q.Page, "page", "p", 1, "Page number")
	flags.BoolVarP(&refresh, "refresh", "r", false, "Ignore cached records")

	return cmd
}

func load(ctx context.Context, env *app.Env, table records.Table, refresh bool) error {
	if refresh {
		// The business must be known before its cache entry can be dropped.
		if _, err := env.Client.BusinessID(ctx); err != nil {
			return err
		}
		env.Client.InvalidateTable(table.Source())
	}

	return table.Load(ctx, env.Client)
}

// buildState applies q on top of the table's initial state.
func buildState(table records.Table, q listQuery) (*tablestate.State, error) {
	state := table.NewState()

	if q.PageSize > 0 {
		state.SetPageSize(q.PageSize)
	}

	state.SetSearchTerm(strings.TrimSpace(q.Search))

	for _, raw := range q.Filters {
		key, value, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("filter %q: expected key=value", raw)
		}

		opt, ok := table.FilterOption(strings.TrimSpace(key))
		if !ok {
			return nil, fmt.Errorf("unknown filter %q for %s (available: %s)", key, table.Name(), strings.Join(filterKeys(table), ", "))
		}

		if value = strings.TrimSpace(value); value == "" || value == tablestate.RangeSeparator {
			state.ClearFilter(opt.Key)
			continue
		}

		parsed, err := opt.Parse(value)
		if err != nil {
			return nil, err
		}
		state.UpdateFilter(opt.Key, parsed)
	}

	switch sortSpec := strings.TrimSpace(q.Sort); {
	case sortSpec == "":
	case strings.EqualFold(sortSpec, "none"):
		state.SetSortConfig(nil)
	default:
		cfg := tablestate.ParseSort(sortSpec)
		if !slices.Contains(table.SortKeys(), cfg.Key) {
			return nil, fmt.Errorf("cannot sort %s by %q (available: %s)", table.Name(), cfg.Key, strings.Join(table.SortKeys(), ", "))
		}
		state.SetSortConfig(cfg)
	}

	if q.Page < 1 {
		return nil, errors.New("page must be 1 or greater")
	}
	state.SetPage(q.Page)

	return state, nil
}

func filterKeys(table records.Table) []string {
	opts := table.FilterOptions()
	keys := make([]string, len(opts))
	for i, o := range opts {
		keys[i] = o.Key
	}

	return keys
}

var cellReplacer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

// renderPage writes the page as aligned columns followed by the page info.
func renderPage(w io.Writer, table records.Table, state *tablestate.State, page records.Page) error {
	if len(page.Rows) == 0 {
		msg := "No records"
		if table.Len() > 0 {
			msg = "No records match the current search and filters"
		}
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	columns := table.Columns()
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = strings.ToUpper(c.Title)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, row := range page.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cellReplacer.Replace(cell)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	pager := tablestate.BuildPager(state.Pagination())
	_, err := fmt.Fprintf(w, "\n%s (page %d of %d)\n", pager.PageInfo(), pager.Page, pager.TotalPages)

	return err
}
