package records

import (
	"context"
	"strings"

	"github.com/lynva/lynva-tui/pkg/api"
	ts "github.com/lynva/lynva-tui/pkg/tablestate"
)

// appointmentAt joins date and time so same-day bookings sort by time.
func appointmentAt(b api.Booking) string {
	if b.AppointmentDate == "" {
		return ""
	}

	return strings.TrimSpace(b.AppointmentDate + " " + b.AppointmentTime)
}

// Bookings is the bookings table.
var Bookings = View[api.Booking]{
	Name:  api.TableBookings,
	Title: "Bookings",
	Table: api.TableBookings,
	Descriptor: ts.Descriptor[api.Booking]{
		SearchFields: []ts.StringField[api.Booking]{
			func(b api.Booking) string { return b.CustomerName },
			func(b api.Booking) string { return b.CustomerPhone },
			func(b api.Booking) string { return b.CustomerEmail },
			func(b api.Booking) string { return b.Notes },
		},
		Filters: map[string]ts.Predicate[api.Booking]{
			"customer":         ts.Contains(func(b api.Booking) string { return b.CustomerName }),
			"status":           ts.Equals(func(b api.Booking) string { return strings.ToLower(b.Status) }),
			"appointment_date": ts.InDateRange(func(b api.Booking) string { return b.AppointmentDate }),
			"amount":           ts.InNumberRange(api.Booking.Amount),
		},
		Sorters: map[string]ts.SortAccessor[api.Booking]{
			"customer_name":    func(b api.Booking) ts.SortKey { return ts.StringKey(b.CustomerName) },
			"appointment_date": func(b api.Booking) ts.SortKey { return ts.DateKey(appointmentAt(b)) },
			"total_amount":     func(b api.Booking) ts.SortKey { return ts.NumberKey(b.Amount()) },
			"status":           func(b api.Booking) ts.SortKey { return ts.StringKey(b.Status) },
			"duration_minutes": func(b api.Booking) ts.SortKey { return ts.NumberKey(float64(b.DurationMinutes)) },
			"created_at":       func(b api.Booking) ts.SortKey { return ts.DateKey(b.CreatedAt) },
		},
	},
	FilterOptions: []ts.FilterOption{
		{Key: "customer", Label: "Customer", Type: ts.FilterText, Placeholder: "Customer name"},
		{
			Key:   "status",
			Label: "Status",
			Type:  ts.FilterSelect,
			Options: []ts.SelectOption{
				{Value: api.BookingStatusPending, Label: "Pending"},
				{Value: api.BookingStatusConfirmed, Label: "Confirmed"},
				{Value: api.BookingStatusCompleted, Label: "Completed"},
				{Value: api.BookingStatusCancelled, Label: "Cancelled"},
			},
		},
		{Key: "appointment_date", Label: "Appointment date", Type: ts.FilterDateRange, Placeholder: dateRangePlaceholder},
		{Key: "amount", Label: "Amount", Type: ts.FilterNumberRange, Placeholder: "min..max", Min: float(0)},
	},
	Columns: []Column{
		{Title: "Customer", SortKey: "customer_name", Expand: 2},
		{Title: "Phone", Expand: 1},
		{Title: "Appointment", SortKey: "appointment_date", Expand: 1},
		{Title: "Duration", SortKey: "duration_minutes", Align: AlignRight},
		{Title: "Status", SortKey: "status"},
		{Title: "Amount", SortKey: "total_amount", Align: AlignRight},
		{Title: "Created", SortKey: "created_at"},
	},
	Row: func(b api.Booking) []string {
		return []string{
			orNone(b.CustomerName),
			orNone(b.CustomerPhone),
			formatDateTime(appointmentAt(b)),
			formatMinutes(b.DurationMinutes),
			orNone(strings.ToLower(b.Status)),
			formatMoney(b.TotalAmount, b.Currency),
			formatDate(b.CreatedAt),
		}
	},
	ID: func(b api.Booking) string { return b.ID },
	Options: ts.Options{
		InitialSort:     &ts.SortConfig{Key: "appointment_date", Direction: ts.SortDesc},
		InitialPageSize: ts.DefaultPageSize,
	},
	Fetch: func(ctx context.Context, c *api.Client) ([]api.Booking, error) {
		return c.ListBookings(ctx)
	},
}
