package records

import (
	"context"

	"github.com/lynva/lynva-tui/pkg/api"
	ts "github.com/lynva/lynva-tui/pkg/tablestate"
)

// FAQs is the FAQ table.
var FAQs = View[api.FAQ]{
	Name:  api.TableFAQs,
	Title: "FAQs",
	Table: api.TableFAQs,
	Descriptor: ts.Descriptor[api.FAQ]{
		SearchFields: []ts.StringField[api.FAQ]{
			func(f api.FAQ) string { return f.Question },
			func(f api.FAQ) string { return f.Answer },
			func(f api.FAQ) string { return f.Category },
		},
		Filters: map[string]ts.Predicate[api.FAQ]{
			"category": ts.Equals(func(f api.FAQ) string { return f.Category }),
			"status":   ts.Equals(func(f api.FAQ) string { return activeStatus(f.IsActive) }),
		},
		Sorters: map[string]ts.SortAccessor[api.FAQ]{
			"question":    func(f api.FAQ) ts.SortKey { return ts.StringKey(f.Question) },
			"category":    func(f api.FAQ) ts.SortKey { return ts.StringKey(f.Category) },
			"status":      func(f api.FAQ) ts.SortKey { return ts.StringKey(activeStatus(f.IsActive)) },
			"usage_count": func(f api.FAQ) ts.SortKey { return ts.NumberKey(float64(f.UsageCount)) },
			"created_at":  func(f api.FAQ) ts.SortKey { return ts.DateKey(f.CreatedAt) },
		},
	},
	FilterOptions: []ts.FilterOption{
		{
			Key:   "category",
			Label: "Category",
			Type:  ts.FilterSelect,
			Options: []ts.SelectOption{
				{Value: "General", Label: "General"},
				{Value: "Booking", Label: "Booking"},
				{Value: "Services", Label: "Services"},
				{Value: "Policy", Label: "Policy"},
				{Value: "Billing", Label: "Billing"},
				{Value: "Support", Label: "Support"},
				{Value: "Location", Label: "Location"},
				{Value: "Appointment", Label: "Appointment"},
				{Value: "Pricing", Label: "Pricing"},
			},
		},
		{Key: "status", Label: "Status", Type: ts.FilterSelect, Options: statusOptions},
	},
	Columns: []Column{
		{Title: "Question", SortKey: "question", Expand: 3},
		{Title: "Answer", Expand: 3},
		{Title: "Category", SortKey: "category", Expand: 1},
		{Title: "Status", SortKey: "status"},
		{Title: "Used", SortKey: "usage_count", Align: AlignRight},
		{Title: "Created", SortKey: "created_at"},
	},
	Row: func(f api.FAQ) []string {
		return []string{
			truncate(f.Question, 60),
			truncate(f.Answer, 60),
			orNone(f.Category),
			activeStatus(f.IsActive),
			formatCount(f.UsageCount),
			formatDate(f.CreatedAt),
		}
	},
	ID: func(f api.FAQ) string { return f.ID },
	Options: ts.Options{
		InitialSort:     &ts.SortConfig{Key: "question", Direction: ts.SortAsc},
		InitialPageSize: 10,
	},
	Stats: faqStats,
	Fetch: func(ctx context.Context, c *api.Client) ([]api.FAQ, error) {
		return c.ListFAQs(ctx)
	},
}
