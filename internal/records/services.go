package records

import (
	"context"

	"github.com/lynva/lynva-tui/pkg/api"
	ts "github.com/lynva/lynva-tui/pkg/tablestate"
)

// Services is the services table.
var Services = View[api.Service]{
	Name:  api.TableServices,
	Title: "Services",
	Table: api.TableServices,
	Descriptor: ts.Descriptor[api.Service]{
		SearchFields: []ts.StringField[api.Service]{
			func(s api.Service) string { return s.Name },
			func(s api.Service) string { return s.Description },
			func(s api.Service) string { return s.Category },
			func(s api.Service) string { return s.PractitionerName },
		},
		Filters: map[string]ts.Predicate[api.Service]{
			"category": ts.Equals(func(s api.Service) string { return s.Category }),
			"status":   ts.Equals(func(s api.Service) string { return activeStatus(s.IsActive) }),
			"price":    ts.InNumberRange(api.Service.PriceValue),
			"duration": ts.InNumberRange(func(s api.Service) float64 { return float64(s.DurationMinutes) }),
		},
		Sorters: map[string]ts.SortAccessor[api.Service]{
			"name":             func(s api.Service) ts.SortKey { return ts.StringKey(s.Name) },
			"category":         func(s api.Service) ts.SortKey { return ts.StringKey(s.Category) },
			"price":            func(s api.Service) ts.SortKey { return ts.NumberKey(s.PriceValue()) },
			"duration_minutes": func(s api.Service) ts.SortKey { return ts.NumberKey(float64(s.DurationMinutes)) },
			"status":           func(s api.Service) ts.SortKey { return ts.StringKey(activeStatus(s.IsActive)) },
			"created_at":       func(s api.Service) ts.SortKey { return ts.DateKey(s.CreatedAt) },
		},
	},
	FilterOptions: []ts.FilterOption{
		{
			Key:   "category",
			Label: "Category",
			Type:  ts.FilterSelect,
			Options: []ts.SelectOption{
				{Value: "Consultation", Label: "Consultation"},
				{Value: "Regular Check", Label: "Regular Check"},
				{Value: "Therapy", Label: "Therapy"},
				{Value: "Treatment", Label: "Treatment"},
			},
		},
		{Key: "status", Label: "Status", Type: ts.FilterSelect, Options: statusOptions},
		{Key: "price", Label: "Price", Type: ts.FilterNumberRange, Placeholder: "min..max", Min: float(0)},
		{Key: "duration", Label: "Duration (min)", Type: ts.FilterNumberRange, Placeholder: "min..max", Min: float(0), Max: float(1440)},
	},
	Columns: []Column{
		{Title: "Name", SortKey: "name", Expand: 2},
		{Title: "Category", SortKey: "category", Expand: 1},
		{Title: "Practitioner", Expand: 1},
		{Title: "Duration", SortKey: "duration_minutes", Align: AlignRight},
		{Title: "Price", SortKey: "price", Align: AlignRight},
		{Title: "Status", SortKey: "status"},
	},
	Row: func(s api.Service) []string {
		return []string{
			orNone(s.Name),
			orNone(s.Category),
			orNone(s.PractitionerName),
			formatMinutes(s.DurationMinutes),
			formatMoney(s.Price, s.Currency),
			activeStatus(s.IsActive),
		}
	},
	ID: func(s api.Service) string { return s.ID },
	Options: ts.Options{
		InitialSort:     &ts.SortConfig{Key: "name", Direction: ts.SortAsc},
		InitialPageSize: ts.DefaultPageSize,
	},
	Stats: serviceStats,
	Fetch: func(ctx context.Context, c *api.Client) ([]api.Service, error) {
		return c.ListServices(ctx)
	},
}
