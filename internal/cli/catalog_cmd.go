package cli

import (
	"bytes"
	"fmt"
	"os"

	"factorybook/internal/catalog"
	"factorybook/internal/cli/formatter"

	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the active recipe catalog",
	}

	cmd.AddCommand(
		newCatalogInfoCmd(app),
		newCatalogItemsCmd(app),
		newCatalogRecipesCmd(app),
		newCatalogConvertCmd(app),
	)

	return cmd
}

func newCatalogInfoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show catalog version and entry counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCatalogInfo(app.Catalog))
			return nil
		},
	}
}

func newCatalogItemsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "items",
		Short: "List items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatItemList(app.Catalog.Items()))
			return nil
		},
	}
}

func newCatalogRecipesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "recipes [RECIPE]",
		Short: "List recipes, or show one in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRecipeList(app.Catalog.Recipes()))
				return nil
			}
			id, err := resolveRecipe(app.Catalog, args[0])
			if err != nil {
				return err
			}
			r, err := app.Catalog.Recipe(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRecipeDetail(r, app.Catalog))
			return nil
		},
	}
}

func newCatalogConvertCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "convert RAW_FILE OUT_FILE",
		Short: "Convert a raw game data export into a catalog file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			converted, err := catalog.ConvertRaw(raw)
			if err != nil {
				return fmt.Errorf("converting %s: %w", args[0], err)
			}
			cat, err := catalog.Load(bytes.NewReader(converted))
			if err != nil {
				return fmt.Errorf("validating converted catalog: %w", err)
			}
			if err := os.WriteFile(args[1], converted, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote catalog %s (%d items, %d recipes) to %s\n",
				cat.Version(), len(cat.Items()), len(cat.Recipes()), args[1])
			return nil
		},
	}
}
