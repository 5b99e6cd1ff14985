package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lynva/lynva-tui/internal/config"
	"github.com/lynva/lynva-tui/internal/records"
	"github.com/lynva/lynva-tui/pkg/tablestate"
)

func TestFilterFormPrefillAndValues(t *testing.T) {
	current := map[string]tablestate.FilterValue{
		"status": tablestate.Text("confirmed"),
		"amount": tablestate.NumberRange{Min: "10", Max: "50"},
	}

	form := NewFilterForm("Bookings", records.Bookings.FilterOptions, current)

	values, err := form.Values()
	require.NoError(t, err)
	assert.Equal(t, current, values)

	idx, label := form.dropDown["status"].GetCurrentOption()
	assert.Equal(t, 2, idx)
	assert.Equal(t, "Confirmed", label)
	assert.Equal(t, "10..50", form.inputs["amount"].GetText())
}

func TestFilterFormParsesRanges(t *testing.T) {
	form := NewFilterForm("Bookings", records.Bookings.FilterOptions, nil)

	form.inputs["customer"].SetText("ada")
	form.inputs["appointment_date"].SetText("2024-01-01..")
	form.inputs["amount"].SetText("..")

	values, err := form.Values()
	require.NoError(t, err)
	assert.Equal(t, map[string]tablestate.FilterValue{
		"customer":         tablestate.Text("ada"),
		"appointment_date": tablestate.DateRange{Start: "2024-01-01"},
	}, values)
}

func TestFilterFormRejectsInvalidInput(t *testing.T) {
	form := NewFilterForm("Bookings", records.Bookings.FilterOptions, nil)
	form.inputs["amount"].SetText("ten..20")

	_, err := form.Values()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Amount")
}

func TestFilterFormClearFields(t *testing.T) {
	form := NewFilterForm("Bookings", records.Bookings.FilterOptions, map[string]tablestate.FilterValue{
		"status":   tablestate.Text("pending"),
		"customer": tablestate.Text("ada"),
	})

	form.ClearFields()

	values, err := form.Values()
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestFormatKeyHints(t *testing.T) {
	kb := config.DefaultKeyBindings()
	kb.Search = "Ctrl+F"

	text := FormatKeyHints(kb)
	assert.Contains(t, text, "Ctrl+F:")
	assert.Contains(t, text, "Search")
	assert.Contains(t, text, "Quit")
}

func TestHelpTextUsesBindings(t *testing.T) {
	kb := config.DefaultKeyBindings()
	kb.GoToPage = "F7"

	text := HelpText(kb)
	assert.Contains(t, text, "F7")
	assert.Contains(t, text, "Go to page")
	assert.Contains(t, text, "Rows per page")
}

func TestTabBar(t *testing.T) {
	tabs := NewTabBar([]string{"Bookings", "FAQs"})
	tabs.SetCount(1, 3)
	tabs.SetActive(1)
	tabs.SetActive(7)

	text := tabs.GetText(true)
	assert.Contains(t, text, "1 Bookings")
	assert.Contains(t, text, "2 FAQs (3)")
	assert.Equal(t, 1, tabs.Active())
}

func TestHeaderMessages(t *testing.T) {
	h := NewHeader("Lynva")

	h.ShowLoading("Loading bookings")
	assert.True(t, h.IsLoading())
	assert.Contains(t, h.GetText(true), "Loading bookings")

	h.StopLoading()
	assert.False(t, h.IsLoading())
	assert.Equal(t, "Lynva", strings.TrimSpace(h.GetText(true)))

	h.ShowError("Failed")
	assert.Contains(t, h.GetText(true), "✗ Failed")

	h.SetTitle("Lynva · Salon")
	assert.Equal(t, "Lynva · Salon", h.Title())
}
