package cli

import (
	"context"
	"fmt"

	"factorybook/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [WORLD]",
		Short: "Open a world in the full-screen editor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive == nil || !app.IsInteractive() {
				return fmt.Errorf("edit requires an interactive terminal")
			}

			ctx := context.Background()
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			sess, err := app.Worlds.Open(ctx, ref)
			if err != nil {
				return err
			}
			st, err := app.Settings.Get(ctx)
			if err != nil {
				return err
			}

			model := tui.New(sess, app.Worlds, st)
			p := tea.NewProgram(model, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}
