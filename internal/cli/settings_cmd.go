package cli

import (
	"context"
	"fmt"

	"factorybook/internal/cli/formatter"
	"factorybook/internal/repository"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change display settings",
	}

	cmd.AddCommand(
		newSettingsShowCmd(app),
		newSettingsSetCmd(app),
	)

	return cmd
}

func newSettingsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.Settings.Get(context.Background())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %v\n", formatter.Bold("hide-neutral"), st.HideNeutral)
			fmt.Fprintf(out, "%s %s\n", formatter.Bold("sort-mode"), st.SortMode)
			return nil
		},
	}
}

func newSettingsSetCmd(app *App) *cobra.Command {
	var hideNeutral bool
	var sortMode string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			st, err := app.Settings.Get(ctx)
			if err != nil {
				return err
			}
			// Only flags the user passed overwrite stored values.
			cmd.Flags().Visit(func(f *pflag.Flag) {
				switch f.Name {
				case "hide-neutral":
					st.HideNeutral = hideNeutral
				case "sort-mode":
					st.SortMode = repository.SortMode(sortMode)
				}
			})
			if err := app.Settings.Update(ctx, st); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Updated settings")
			return nil
		},
	}

	cmd.Flags().BoolVar(&hideNeutral, "hide-neutral", false, "Hide items whose rates cancel to zero")
	cmd.Flags().StringVar(&sortMode, "sort-mode", "", "Balance row order: io or item")

	return cmd
}
