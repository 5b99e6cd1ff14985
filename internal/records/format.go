package records

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
	none           = "-"
)

func formatMoney(amount *float64, currency string) string {
	if amount == nil {
		return none
	}

	if currency == "" {
		currency = "USD"
	}

	return fmt.Sprintf("%.2f %s", *amount, strings.ToUpper(currency))
}

func formatMinutes(m int) string {
	if m <= 0 {
		return none
	}
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}

	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}

func formatSeconds(s *int) string {
	if s == nil {
		return none
	}

	return (time.Duration(*s) * time.Second).String()
}

func formatDate(s string) string {
	return formatTime(s, dateLayout)
}

func formatDateTime(s string) string {
	return formatTime(s, dateTimeLayout)
}

func formatTime(s, layout string) string {
	if s == "" {
		return none
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return s
	}

	return t.Format(layout)
}

func orNone(s string) string {
	if s == "" {
		return none
	}

	return s
}

func truncate(s string, n int) string {
	r := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(r) <= n {
		return string(r)
	}

	return string(r[:n-1]) + "…"
}

func formatCount(n int) string {
	return strconv.Itoa(n)
}
