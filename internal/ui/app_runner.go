// Package ui wires the tview components to a live API client.
package ui

import (
	"context"

	"github.com/lynva/lynva-tui/internal/config"
	"github.com/lynva/lynva-tui/internal/records"
	"github.com/lynva/lynva-tui/internal/ui/components"
	"github.com/lynva/lynva-tui/pkg/api"
	"github.com/lynva/lynva-tui/pkg/api/interfaces"
)

// RunApp creates the application over every record table and blocks until
// the user quits or ctx is cancelled.
func RunApp(ctx context.Context, client *api.Client, cfg *config.Config, logger interfaces.Logger) error {
	app := components.NewApp(ctx, client, cfg, records.Tables(), logger)

	stop := context.AfterFunc(ctx, app.Stop)
	defer stop()

	return app.Run()
}
