package cli

import (
	"context"
	"fmt"

	"factorybook/internal/cli/formatter"

	"github.com/spf13/cobra"
)

func newWorldCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "world",
		Short: "Manage worlds",
	}

	cmd.AddCommand(
		newWorldListCmd(app),
		newWorldCreateCmd(app),
		newWorldRenameCmd(app),
		newWorldDeleteCmd(app),
		newWorldDuplicateCmd(app),
		newWorldExportCmd(app),
		newWorldImportCmd(app),
	)

	return cmd
}

func newWorldListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all worlds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			worlds, err := app.Worlds.List(ctx)
			if err != nil {
				return err
			}
			st, err := app.Settings.Get(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatWorldList(worlds, st.LastWorldID))
			return nil
		},
	}
}

func newWorldCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new empty world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.Worlds.Create(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created world %q (%s)\n", sess.WorldName, formatter.TruncID(sess.WorldID))
			return nil
		},
	}
}

func newWorldRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename WORLD NEW_NAME",
		Short: "Rename a world",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Worlds.Rename(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed world to %q\n", args[1])
			return nil
		},
	}
}

func newWorldDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete WORLD",
		Short: "Delete a world and its build tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			w, err := app.Worlds.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Worlds.Delete(ctx, w.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted world %q\n", w.Name)
			return nil
		},
	}
}

func newWorldDuplicateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate WORLD [NAME]",
		Short: "Copy a world under a new name",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			w, err := app.Worlds.Duplicate(context.Background(), args[0], name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created world %q (%s)\n", w.Name, formatter.TruncID(w.ID))
			return nil
		},
	}
}

func newWorldExportCmd(app *App) *cobra.Command {
	var worldRef string

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export a world to a save file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			w, err := app.Worlds.Resolve(ctx, worldRef)
			if err != nil {
				return err
			}
			if err := app.Worlds.Export(ctx, w.ID, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %q to %s\n", w.Name, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&worldRef, "world", "", "World name, ID or ID prefix (default: last world)")

	return cmd
}

func newWorldImportCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a world from a save file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.Worlds.Import(context.Background(), args[0], name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported world %q (%s)\n", w.Name, formatter.TruncID(w.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name for the imported world (default: name stored in the file)")

	return cmd
}
