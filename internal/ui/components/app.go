package components

import (
	"context"
	"errors"
	"fmt"

	"github.com/rivo/tview"

	"github.com/lynva/lynva-tui/internal/config"
	"github.com/lynva/lynva-tui/internal/records"
	"github.com/lynva/lynva-tui/internal/ui/theme"
	"github.com/lynva/lynva-tui/pkg/api"
	"github.com/lynva/lynva-tui/pkg/api/interfaces"
)

const appTitle = "Lynva"

// App is the main application component. It owns one TableView per record
// table and routes keys to the active one.
type App struct {
	*tview.Application

	ctx    context.Context
	client *api.Client
	config *config.Config
	logger interfaces.Logger

	views  []*TableView
	active int

	header      *Header
	tabs        *TabBar
	pages       *tview.Pages
	footer      *Footer
	mainLayout  *tview.Flex
	searchInput *tview.InputField
	searching   bool

	modal     string
	lastFocus tview.Primitive
}

// NewApp creates the application with a view per table. client may be nil
// in tests; loading is then a no-op.
func NewApp(ctx context.Context, client *api.Client, cfg *config.Config, tables []records.Table, logger interfaces.Logger) *App {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	if unknown := theme.ApplyCustomTheme(&cfg.Theme); len(unknown) > 0 {
		logger.Error("Unknown theme colors ignored: %v", unknown)
	}

	theme.ApplyToTview()

	a := &App{
		Application: tview.NewApplication(),
		ctx:         ctx,
		client:      client,
		config:      cfg,
		logger:      logger,
		pages:       tview.NewPages(),
	}

	titles := make([]string, len(tables))
	for i, t := range tables {
		titles[i] = t.Title()

		view := NewTableView(t, cfg.PageSize)
		view.Grid().SetSelectedFunc(func(int, int) { a.showRecordDetails() })
		a.views = append(a.views, view)
		a.pages.AddPage(pageName(t), view, true, i == 0)
	}

	a.header = NewHeader(appTitle)
	a.header.SetApp(a.Application)
	a.tabs = NewTabBar(titles)
	a.footer = NewFooter(cfg.KeyBindings)

	a.mainLayout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.header, 1, 0, false).
		AddItem(a.tabs, 1, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.footer, 1, 0, false)

	a.setupKeyboardHandlers()

	a.SetRoot(a.mainLayout, true)

	if v := a.activeView(); v != nil {
		a.SetFocus(v.Grid())
	}

	return a
}

func pageName(t records.Table) string {
	return "table:" + t.Name()
}

// Views returns the table views in tab order.
func (a *App) Views() []*TableView { return a.views }

// activeView returns the view of the selected tab.
func (a *App) activeView() *TableView {
	if a.active < 0 || a.active >= len(a.views) {
		return nil
	}

	return a.views[a.active]
}

// SwitchTo selects tab i.
func (a *App) SwitchTo(i int) {
	if i < 0 || i >= len(a.views) {
		return
	}

	a.active = i
	a.tabs.SetActive(i)
	a.pages.SwitchToPage(pageName(a.views[i].Table()))
	a.SetFocus(a.views[i].Grid())
}

// NextTable selects the next tab, wrapping around.
func (a *App) NextTable() {
	if len(a.views) > 0 {
		a.SwitchTo((a.active + 1) % len(a.views))
	}
}

// PrevTable selects the previous tab, wrapping around.
func (a *App) PrevTable() {
	if len(a.views) > 0 {
		a.SwitchTo((a.active - 1 + len(a.views)) % len(a.views))
	}
}

// Run loads every table in the background, starts the realtime
// subscription when enabled and blocks until the UI exits.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()

	a.ctx = ctx

	if a.client != nil {
		go a.loadBusiness(ctx)

		for i := range a.views {
			a.reload(ctx, i, false)
		}

		if a.config.Realtime {
			go a.runRealtime(ctx)
		}
	}

	return a.Application.Run()
}

func (a *App) loadBusiness(ctx context.Context) {
	biz, err := a.client.GetBusiness(ctx)
	if err != nil {
		a.logger.Error("Failed to load business: %v", err)

		return
	}

	a.QueueUpdateDraw(func() {
		a.header.SetTitle(fmt.Sprintf("%s · %s", appTitle, biz.Name))
	})
}

// reload fetches table i in the background. force drops the cached copy first.
func (a *App) reload(ctx context.Context, i int, force bool) {
	if a.client == nil || i < 0 || i >= len(a.views) {
		return
	}

	view := a.views[i]
	table := view.Table()

	if force {
		a.client.InvalidateTable(table.Source())
	}

	view.SetLoading(true)
	view.Refresh()

	go func() {
		err := table.Load(ctx, a.client)
		if errors.Is(err, context.Canceled) {
			return
		}

		a.QueueUpdateDraw(func() {
			if err != nil {
				a.logger.Error("Failed to load %s: %v", table.Name(), err)
				view.SetLoadError(err)
				a.header.ShowError(fmt.Sprintf("Failed to load %s", table.Title()))
			} else {
				view.SetLoading(false)
				a.tabs.SetCount(i, table.Len())
			}

			view.Refresh()
		})
	}()
}

// refreshActive reloads the visible table from the server.
func (a *App) refreshActive() {
	if a.client == nil {
		return
	}

	a.reload(a.ctx, a.active, true)
	a.header.ShowSuccess("Refreshing " + a.views[a.active].Table().Title())
}

// runRealtime keeps the change subscription open until ctx ends and reloads
// the affected table on every change.
func (a *App) runRealtime(ctx context.Context) {
	sources := make([]string, len(a.views))
	for i, v := range a.views {
		sources[i] = v.Table().Source()
	}

	rc := api.NewRealtimeClient(a.client, sources, api.WithRealtimeLogger(a.logger))

	a.QueueUpdateDraw(func() { a.footer.SetNote("● live") })

	err := rc.Run(ctx, func(ev api.ChangeEvent) {
		a.logger.Debug("Realtime %s on %s", ev.Type, ev.Table)
		a.handleChange(ctx, ev)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("Realtime subscription ended: %v", err)
		a.QueueUpdateDraw(func() { a.footer.SetNote("") })
	}
}

func (a *App) handleChange(ctx context.Context, ev api.ChangeEvent) {
	for i, v := range a.views {
		if v.Table().Source() == ev.Table {
			a.QueueUpdateDraw(func() { a.reload(ctx, i, true) })
		}
	}
}
