package records

import (
	"context"
	"strings"

	"github.com/lynva/lynva-tui/pkg/api"
	ts "github.com/lynva/lynva-tui/pkg/tablestate"
)

func callOutcome(c api.CallLog) string {
	if c.LeadToBooking {
		return api.OutcomeBooked
	}

	return api.OutcomeNotBooked
}

// Calls is the call log table.
var Calls = View[api.CallLog]{
	Name:  ViewCalls,
	Title: "Call Logs",
	Table: api.TableCallLogs,
	Descriptor: ts.Descriptor[api.CallLog]{
		SearchFields: []ts.StringField[api.CallLog]{
			func(c api.CallLog) string { return c.CallerName },
			func(c api.CallLog) string { return c.CallerPhone },
			func(c api.CallLog) string { return c.IntentDetected },
			func(c api.CallLog) string { return c.AISummary },
		},
		Filters: map[string]ts.Predicate[api.CallLog]{
			"intent":     ts.Equals(func(c api.CallLog) string { return strings.ToLower(c.IntentDetected) }),
			"outcome":    ts.Equals(callOutcome),
			"started_at": ts.InDateRange(api.CallLog.StartTime),
			"duration":   ts.InNumberRange(api.CallLog.Duration),
		},
		Sorters: map[string]ts.SortAccessor[api.CallLog]{
			"started_at":            func(c api.CallLog) ts.SortKey { return ts.DateKey(c.StartTime()) },
			"caller_name":           func(c api.CallLog) ts.SortKey { return ts.StringKey(c.CallerName) },
			"call_duration_seconds": func(c api.CallLog) ts.SortKey { return ts.NumberKey(c.Duration()) },
			"call_cost":             func(c api.CallLog) ts.SortKey { return ts.NumberKey(c.Cost()) },
		},
	},
	FilterOptions: []ts.FilterOption{
		{
			Key:   "intent",
			Label: "Intent",
			Type:  ts.FilterSelect,
			Options: []ts.SelectOption{
				{Value: "booking", Label: "Booking"},
				{Value: "information", Label: "Information"},
				{Value: "rescheduling", Label: "Rescheduling"},
				{Value: "cancellation", Label: "Cancellation"},
				{Value: "complaint", Label: "Complaint"},
				{Value: "general", Label: "General"},
			},
		},
		{
			Key:   "outcome",
			Label: "Outcome",
			Type:  ts.FilterSelect,
			Options: []ts.SelectOption{
				{Value: api.OutcomeBooked, Label: "Booked"},
				{Value: api.OutcomeNotBooked, Label: "Not booked"},
			},
		},
		{Key: "started_at", Label: "Call date", Type: ts.FilterDateRange, Placeholder: dateRangePlaceholder},
		{Key: "duration", Label: "Duration (s)", Type: ts.FilterNumberRange, Placeholder: "min..max", Min: float(0)},
	},
	Columns: []Column{
		{Title: "Started", SortKey: "started_at", Expand: 1},
		{Title: "Caller", SortKey: "caller_name", Expand: 1},
		{Title: "Phone", Expand: 1},
		{Title: "Intent"},
		{Title: "Duration", SortKey: "call_duration_seconds", Align: AlignRight},
		{Title: "Outcome"},
		{Title: "Cost", SortKey: "call_cost", Align: AlignRight},
		{Title: "Summary", Expand: 3},
	},
	Row: func(c api.CallLog) []string {
		return []string{
			formatDateTime(c.StartTime()),
			orNone(c.CallerName),
			orNone(c.CallerPhone),
			orNone(c.IntentDetected),
			formatSeconds(c.CallDurationSeconds),
			callOutcome(c),
			formatMoney(c.CallCost, "USD"),
			truncate(c.AISummary, 80),
		}
	},
	ID: func(c api.CallLog) string { return c.ID },
	Options: ts.Options{
		InitialSort:     &ts.SortConfig{Key: "started_at", Direction: ts.SortDesc},
		InitialPageSize: ts.DefaultPageSize,
	},
	Stats: callStats,
	Fetch: func(ctx context.Context, c *api.Client) ([]api.CallLog, error) {
		return c.ListCallLogs(ctx)
	},
}
