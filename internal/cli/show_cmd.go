package cli

import (
	"context"
	"fmt"

	"factorybook/internal/accounting"
	"factorybook/internal/cli/formatter"
	"factorybook/internal/repository"
	"factorybook/internal/service"

	"github.com/spf13/cobra"
)

func newShowCmd(app *App) *cobra.Command {
	var flat, tree, hideNeutral bool

	cmd := &cobra.Command{
		Use:   "show [WORLD]",
		Short: "Show a world's build tree and production balance",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			sess, err := app.Worlds.Open(ctx, ref)
			if err != nil {
				return err
			}
			printRecipeWarnings(cmd, sess)

			st, err := app.Settings.Get(ctx)
			if err != nil {
				return err
			}
			hide := st.HideNeutral
			if cmd.Flags().Changed("hide-neutral") {
				hide = hideNeutral
			}
			view := formatter.BalanceView{
				HideNeutral: hide,
				ByItem:      st.SortMode == repository.SortItem,
			}

			out := cmd.OutOrStdout()
			if !flat {
				items, err := treeItems(sess)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, formatter.RenderTree(items))
				fmt.Fprintln(out)
			} else {
				fmt.Fprintln(out, formatter.Bold(sess.WorldName))
			}

			rootBal, err := sess.Balance(sess.Tree().Root())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.FormatBalance(rootBal, sess.Catalog(), view))
			return nil
		},
	}

	cmd.Flags().BoolVar(&flat, "flat", false, "Print the root balance sheet without the tree")
	cmd.Flags().BoolVar(&tree, "tree", false, "Print the full tree with per-node balances (default)")
	cmd.Flags().BoolVar(&hideNeutral, "hide-neutral", false, "Hide items whose rates cancel to zero")
	cmd.MarkFlagsMutuallyExclusive("flat", "tree")

	return cmd
}

// treeItems flattens the session's tree into renderable rows. Collapsed
// groups keep their children hidden; the badge still carries the whole
// subtree's balance.
func treeItems(sess *service.Session) ([]formatter.TreeItem, error) {
	t := sess.Tree()
	var items []formatter.TreeItem
	var walkErr error

	t.Walk(func(n accounting.Node, depth int) bool {
		bal, err := sess.Balance(n.ID)
		if err != nil {
			walkErr = err
			return false
		}
		items = append(items, formatter.TreeItem{
			Title:     formatter.NodeTitle(n, sess.Catalog()),
			Level:     depth,
			IsLast:    isLastSibling(t, n.ID),
			Group:     n.IsGroup(),
			Collapsed: n.Collapsed,
			Badge:     formatter.BalanceSummary(bal, sess.Catalog(), 3),
		})
		return !(n.IsGroup() && n.Collapsed)
	})

	return items, walkErr
}

func isLastSibling(t *accounting.Tree, id accounting.NodeID) bool {
	parent := t.Parent(id)
	if parent == "" {
		return true
	}
	siblings := t.Children(parent)
	return len(siblings) > 0 && siblings[len(siblings)-1] == id
}

// printRecipeWarnings reports recipes cleared on open because the active
// catalog no longer carries them. They go to stderr so piped output stays
// clean.
func printRecipeWarnings(cmd *cobra.Command, sess *service.Session) {
	for _, w := range sess.Warnings() {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", formatter.StyleYellow.Render(
			fmt.Sprintf("warning: recipe %q is missing from the catalog; cleared on node %s", w.Recipe, formatter.TruncID(string(w.Node)))))
	}
}
