package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lynva/lynva-tui/internal/app"
	"github.com/lynva/lynva-tui/internal/bootstrap"
	"github.com/lynva/lynva-tui/internal/records"
)

func newStatsCmd(v *viper.Viper) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "stats [table]",
		Short: "Print headline figures",
		Long: `Print headline figures computed over every loaded record.

Without a table, prints the dashboard overview: today's bookings against
yesterday, calls and revenue this month, the call conversion rate and the
latest bookings and calls. With services, faqs or calls, prints that table's
totals and averages.`,
		Example: `  lynva-tui stats
  lynva-tui stats calls --refresh`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: records.Names,
		RunE: func(cmd *cobra.Command, args []string) error {
			var table records.Table

			if len(args) == 1 {
				t, err := records.Lookup(args[0])
				if err != nil {
					return err
				}
				table = t
			}

			result, err := bootstrap.Bootstrap(bootstrapOptions(cmd, v))
			if err != nil {
				return err
			}

			env, err := app.Open(result.Config, app.Options{NoCache: result.NoCache})
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			withHint := func(err error) error {
				if hint := bootstrap.StartupHint(err, result.Config); hint != "" {
					return fmt.Errorf("%w\n%s", err, hint)
				}
				return err
			}

			out := cmd.OutOrStdout()

			if table != nil {
				if err := load(cmd.Context(), env, table, refresh); err != nil {
					return withHint(err)
				}

				stats := table.Stats()
				if stats == nil {
					fmt.Fprintf(out, "%s has no table stats; run lynva-tui stats for the overview.\n", table.Title())
					return nil
				}

				fmt.Fprintln(out, table.Title())
				return writeStats(out, stats)
			}

			bookings := records.NewDataset(records.Bookings)
			calls := records.NewDataset(records.Calls)

			for _, t := range []records.Table{bookings, calls} {
				if err := load(cmd.Context(), env, t, refresh); err != nil {
					return withHint(err)
				}
			}

			overview := records.BuildOverview(bookings.Records(), calls.Records(), time.Now())

			return renderOverview(out, overview)
		},
	}

	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "Ignore cached records")

	return cmd
}

func writeStats(w io.Writer, stats []records.Stat) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range stats {
		fmt.Fprintf(tw, "  %s\t%s\n", s.Label, s.Value)
	}

	return tw.Flush()
}

func writeRows(w io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	upper := make([]string, len(headers))
	for i, h := range headers {
		upper[i] = strings.ToUpper(h)
	}
	fmt.Fprintln(tw, strings.Join(upper, "\t"))

	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	return tw.Flush()
}

func renderOverview(w io.Writer, o records.Overview) error {
	fmt.Fprintln(w, "Overview")
	if err := writeStats(w, o.Stats()); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recent bookings")
	if len(o.RecentBookings) == 0 {
		fmt.Fprintln(w, "  No bookings yet.")
	} else if err := writeRows(w, records.Bookings.Headers(), records.Bookings.Rows(o.RecentBookings)); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recent calls")
	if len(o.RecentCalls) == 0 {
		fmt.Fprintln(w, "  No calls yet.")
		return nil
	}

	return writeRows(w, records.Calls.Headers(), records.Calls.Rows(o.RecentCalls))
}
