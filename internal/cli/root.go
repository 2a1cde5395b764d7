package cli

import (
	"factorybook/internal/catalog"
	"factorybook/internal/service"

	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Worlds   service.WorldService
	Settings service.SettingsService
	Catalog  *catalog.Catalog

	// IsInteractive reports whether stdin is a terminal. The edit command
	// refuses to start the full-screen editor without one.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "factorybook" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "factorybook",
		Short: "Balance ledger for factory builds",
	}

	root.AddCommand(
		newWorldCmd(app),
		newShowCmd(app),
		newNodeCmd(app),
		newCatalogCmd(app),
		newSettingsCmd(app),
		newEditCmd(app),
	)

	return root
}
