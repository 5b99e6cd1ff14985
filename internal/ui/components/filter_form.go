package components

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lynva/lynva-tui/internal/ui/theme"
	"github.com/lynva/lynva-tui/pkg/tablestate"
)

const anyOption = "Any"

// FilterForm edits every declared filter of a table at once. Select filters
// become drop-downs; all other types are text inputs, with ranges typed as
// "from..to".
type FilterForm struct {
	*tview.Form

	options  []tablestate.FilterOption
	inputs   map[string]*tview.InputField
	dropDown map[string]*tview.DropDown
}

// NewFilterForm creates a form prefilled with current.
func NewFilterForm(title string, options []tablestate.FilterOption, current map[string]tablestate.FilterValue) *FilterForm {
	f := &FilterForm{
		Form:     tview.NewForm(),
		options:  options,
		inputs:   make(map[string]*tview.InputField),
		dropDown: make(map[string]*tview.DropDown),
	}

	f.SetBorder(true)
	f.SetTitle(" Filter " + title + " ")
	f.SetTitleColor(theme.Colors.Title)
	f.SetBorderColor(theme.Colors.Border)
	f.SetFieldBackgroundColor(theme.Colors.Contrast)
	f.SetButtonBackgroundColor(theme.Colors.Selection)

	for _, opt := range options {
		value := ""
		if v, ok := current[opt.Key]; ok && v != nil {
			value = v.String()
		}

		if opt.Type == tablestate.FilterSelect && len(opt.Options) > 0 {
			labels := []string{anyOption}
			selected := 0

			for i, o := range opt.Options {
				labels = append(labels, o.Label)
				if o.Value == value {
					selected = i + 1
				}
			}

			dd := tview.NewDropDown().
				SetLabel(opt.Label+" ").
				SetOptions(labels, nil).
				SetCurrentOption(selected)
			f.dropDown[opt.Key] = dd
			f.AddFormItem(dd)

			continue
		}

		in := tview.NewInputField().
			SetLabel(opt.Label + " ").
			SetText(value).
			SetFieldWidth(32).
			SetPlaceholder(placeholderFor(opt))
		f.inputs[opt.Key] = in
		f.AddFormItem(in)
	}

	return f
}

func placeholderFor(opt tablestate.FilterOption) string {
	if opt.Placeholder != "" {
		return opt.Placeholder
	}

	switch opt.Type {
	case tablestate.FilterNumberRange:
		return "min" + tablestate.RangeSeparator + "max"
	case tablestate.FilterDateRange:
		return "YYYY-MM-DD" + tablestate.RangeSeparator + "YYYY-MM-DD"
	case tablestate.FilterDate:
		return "YYYY-MM-DD"
	default:
		return ""
	}
}

// Values parses every field. Empty fields and "Any" are left out of the
// result. The first invalid field is reported and focused.
func (f *FilterForm) Values() (map[string]tablestate.FilterValue, error) {
	out := make(map[string]tablestate.FilterValue)

	for i, opt := range f.options {
		if dd, ok := f.dropDown[opt.Key]; ok {
			idx, _ := dd.GetCurrentOption()
			if idx > 0 && idx <= len(opt.Options) {
				out[opt.Key] = tablestate.Text(opt.Options[idx-1].Value)
			}

			continue
		}

		raw := strings.TrimSpace(f.inputs[opt.Key].GetText())
		if raw == "" || raw == tablestate.RangeSeparator {
			continue
		}

		value, err := opt.Parse(raw)
		if err != nil {
			f.SetFocus(i)

			return nil, fmt.Errorf("%s: %w", opt.Label, err)
		}

		out[opt.Key] = value
	}

	return out, nil
}

// ClearFields empties every input and resets drop-downs to "Any".
func (f *FilterForm) ClearFields() {
	for _, in := range f.inputs {
		in.SetText("")
	}

	for _, dd := range f.dropDown {
		dd.SetCurrentOption(0)
	}
}

// showFilterForm opens the filter form for the active table.
func (a *App) showFilterForm() {
	view := a.activeView()
	if view == nil {
		return
	}

	if len(view.Table().FilterOptions()) == 0 {
		a.header.ShowError(view.Table().Title() + " has no filters")

		return
	}

	const page = "filters"

	form := NewFilterForm(view.Table().Title(), view.Table().FilterOptions(), view.State().Filters())

	closeForm := func() {
		a.closeModal(page)
	}

	form.AddButton("Apply", func() {
		values, err := form.Values()
		if err != nil {
			a.header.ShowError(err.Error())

			return
		}

		view.SetFilters(values)
		closeForm()
	})
	form.AddButton("Clear", func() {
		form.ClearFields()
	})
	form.AddButton("Cancel", closeForm)
	form.SetCancelFunc(closeForm)
	form.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc {
			closeForm()

			return nil
		}

		return event
	})

	height := len(view.Table().FilterOptions())*2 + 5
	a.openModal(page, centered(form, 60, height), form)
}
