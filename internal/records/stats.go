package records

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/lynva/lynva-tui/pkg/api"
)

// Stat is one headline figure computed over a whole loaded table.
type Stat struct {
	Label string
	Value string
}

// recentLimit is how many bookings and calls the overview lists.
const recentLimit = 5

// round rounds half away from zero for the non-negative values used here.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// formatClock renders seconds as m:ss.
func formatClock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func serviceStats(services []api.Service) []Stat {
	var active, minutes int

	var price float64

	for _, s := range services {
		if s.IsActive {
			active++
		}

		minutes += s.DurationMinutes
		price += s.PriceValue()
	}

	var avgMinutes, avgPrice int
	if n := len(services); n > 0 {
		avgMinutes = round(float64(minutes) / float64(n))
		avgPrice = round(price / float64(n))
	}

	currency := "USD"
	if len(services) > 0 && services[0].Currency != "" {
		currency = strings.ToUpper(services[0].Currency)
	}

	return []Stat{
		{Label: "Total Services", Value: formatCount(len(services))},
		{Label: "Active Services", Value: formatCount(active)},
		{Label: "Avg Duration", Value: fmt.Sprintf("%d min", avgMinutes)},
		{Label: "Avg Price", Value: fmt.Sprintf("%d %s", avgPrice, currency)},
	}
}

func faqStats(faqs []api.FAQ) []Stat {
	var active int

	categories := make(map[string]struct{})

	for _, f := range faqs {
		if f.IsActive {
			active++
		}

		if f.Category != "" {
			categories[f.Category] = struct{}{}
		}
	}

	return []Stat{
		{Label: "Total FAQs", Value: formatCount(len(faqs))},
		{Label: "Active FAQs", Value: formatCount(active)},
		{Label: "Categories", Value: formatCount(len(categories))},
	}
}

func callStats(calls []api.CallLog) []Stat {
	var completed, missed int

	var seconds float64

	for _, c := range calls {
		switch c.CallStatus {
		case api.CallStatusCompleted:
			completed++
		case api.CallStatusMissed:
			missed++
		}

		seconds += c.Duration()
	}

	avg := 0
	if len(calls) > 0 {
		avg = round(seconds / float64(len(calls)))
	}

	return []Stat{
		{Label: "Total Calls", Value: formatCount(len(calls))},
		{Label: "Completed", Value: formatCount(completed)},
		{Label: "Missed", Value: formatCount(missed)},
		{Label: "Avg Duration", Value: formatClock(avg)},
	}
}

// Overview is the dashboard summary across bookings and calls.
type Overview struct {
	TodayBookings     int
	YesterdayBookings int
	// BookingsTrend is today's change against yesterday in percent, 0
	// when there were no bookings yesterday.
	BookingsTrend int
	// MonthCalls counts calls created since the first of the month.
	MonthCalls int
	// ConversionRate is the share of this month's calls that led to a
	// booking, in percent with one decimal.
	ConversionRate float64
	// MonthRevenue sums confirmed and completed bookings from the first of
	// the month on.
	MonthRevenue   float64
	Currency       string
	RecentBookings []api.Booking
	RecentCalls    []api.CallLog
}

func countsTowardRevenue(b api.Booking) bool {
	return strings.EqualFold(b.Status, api.BookingStatusConfirmed) ||
		strings.EqualFold(b.Status, api.BookingStatusCompleted)
}

// BuildOverview summarizes bookings and calls as of now. Dates are compared
// as UTC calendar days.
func BuildOverview(bookings []api.Booking, calls []api.CallLog, now time.Time) Overview {
	now = now.UTC()
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var o Overview

	for _, b := range bookings {
		if !countsTowardRevenue(b) {
			continue
		}

		switch b.AppointmentDate {
		case today:
			o.TodayBookings++
		case yesterday:
			o.YesterdayBookings++
		}

		if b.TotalAmount != nil && b.AppointmentDate >= monthStart.Format(dateLayout) {
			o.MonthRevenue += *b.TotalAmount
			if o.Currency == "" {
				o.Currency = strings.ToUpper(b.Currency)
			}
		}
	}

	if o.Currency == "" {
		o.Currency = "USD"
	}

	if o.YesterdayBookings > 0 {
		change := float64(o.TodayBookings-o.YesterdayBookings) / float64(o.YesterdayBookings) * 100
		o.BookingsTrend = int(math.Round(change))
	}

	var booked int

	for _, c := range calls {
		created, err := dateparse.ParseAny(c.CreatedAt)
		if err != nil || created.Before(monthStart) {
			continue
		}

		o.MonthCalls++
		if c.LeadToBooking {
			booked++
		}
	}

	if o.MonthCalls > 0 {
		o.ConversionRate = math.Round(float64(booked)/float64(o.MonthCalls)*1000) / 10
	}

	o.RecentBookings = latest(bookings, func(b api.Booking) string { return b.CreatedAt })
	o.RecentCalls = latest(calls, func(c api.CallLog) string { return c.CreatedAt })

	return o
}

// latest returns up to recentLimit records, newest created first.
func latest[T any](items []T, created func(T) string) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return -cmp.Compare(dateKey(created(a)), dateKey(created(b)))
	})

	return out[:min(len(out), recentLimit)]
}

func dateKey(s string) int64 {
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return 0
	}

	return t.UnixMilli()
}

// Stats renders the overview headline figures.
func (o Overview) Stats() []Stat {
	trend := "same as yesterday"
	if o.BookingsTrend != 0 {
		trend = fmt.Sprintf("%+d%% vs yesterday", o.BookingsTrend)
	}

	return []Stat{
		{Label: "Today's Bookings", Value: fmt.Sprintf("%d (%s)", o.TodayBookings, trend)},
		{Label: "Calls This Month", Value: formatCount(o.MonthCalls)},
		{Label: "Revenue This Month", Value: fmt.Sprintf("%.2f %s", o.MonthRevenue, o.Currency)},
		{Label: "Conversion Rate", Value: fmt.Sprintf("%.1f%%", o.ConversionRate)},
	}
}
