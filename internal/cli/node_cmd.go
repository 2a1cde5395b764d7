package cli

import (
	"context"
	"fmt"
	"strconv"

	"factorybook/internal/accounting"
	"factorybook/internal/cli/formatter"
	"factorybook/internal/service"

	"github.com/spf13/cobra"
)

func newNodeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Edit a world's build tree",
	}

	cmd.AddCommand(
		newNodeAddGroupCmd(app),
		newNodeAddBuildingCmd(app),
		newNodeRemoveCmd(app),
		newNodeMoveCmd(app),
		newNodeReorderCmd(app),
		newNodeSetClockCmd(app),
		newNodeSetCopiesCmd(app),
		newNodeSetRecipeCmd(app),
		newNodeSetNameCmd(app),
	)

	return cmd
}

// worldFlag registers the world selector shared by every node subcommand.
func worldFlag(cmd *cobra.Command, ref *string) {
	cmd.Flags().StringVar(ref, "world", "", "World name, ID or ID prefix (default: last world)")
}

// editWorld opens the target world, applies one edit, and saves the result.
// Nothing is written back when the edit fails.
func editWorld(cmd *cobra.Command, app *App, ref string, fn func(ctx context.Context, sess *service.Session) (string, error)) error {
	ctx := context.Background()
	sess, err := app.Worlds.Open(ctx, ref)
	if err != nil {
		return err
	}
	printRecipeWarnings(cmd, sess)

	msg, err := fn(ctx, sess)
	if err != nil {
		return err
	}
	if err := app.Worlds.Save(ctx, sess); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

// insertSlot resolves a parent reference (root when empty) and turns the
// append default into a concrete child index.
func insertSlot(tree *accounting.Tree, parentRef string, index int) (accounting.NodeID, int, error) {
	parent := tree.Root()
	if parentRef != "" {
		var err error
		parent, err = resolveNode(tree, parentRef)
		if err != nil {
			return "", 0, err
		}
	}
	if index < 0 {
		index = len(tree.Children(parent))
	}
	return parent, index, nil
}

func subtreeSize(t *accounting.Tree, id accounting.NodeID) int {
	n := 1
	for _, child := range t.Children(id) {
		n += subtreeSize(t, child)
	}
	return n
}

func newNodeAddGroupCmd(app *App) *cobra.Command {
	var worldRef, parentRef string
	var index int

	cmd := &cobra.Command{
		Use:   "add-group NAME",
		Short: "Add a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editWorld(cmd, app, worldRef, func(ctx context.Context, sess *service.Session) (string, error) {
				parent, idx, err := insertSlot(sess.Tree(), parentRef, index)
				if err != nil {
					return "", err
				}
				id, err := sess.AddGroup(ctx, parent, idx, args[0])
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Added group %q (%s)", args[0], formatter.TruncID(string(id))), nil
			})
		},
	}

	worldFlag(cmd, &worldRef)
	cmd.Flags().StringVar(&parentRef, "parent", "", "Parent group ID or prefix (default: root)")
	cmd.Flags().IntVar(&index, "index", -1, "Position among siblings (default: append)")

	return cmd
}

func newNodeAddBuildingCmd(app *App) *cobra.Command {
	var worldRef, parentRef string
	var index int
	var clock, copies float64

	cmd := &cobra.Command{
		Use:   "add-building RECIPE",
		Short: "Add a building running a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editWorld(cmd, app, worldRef, func(ctx context.Context, sess *service.Session) (string, error) {
				recipe, err := resolveRecipe(sess.Catalog(), args[0])
				if err != nil {
					return "", err
				}
				parent, idx, err := insertSlot(sess.Tree(), parentRef, index)
				if err != nil {
					return "", err
				}
				id, err := sess.AddBuilding(ctx, parent, idx, recipe, clock)
				if err != nil {
					return "", err
				}
				if copies != 1 {
					if err := sess.SetCopies(ctx, id, copies); err != nil {
						return "", err
					}
				}
				return fmt.Sprintf("Added building %s (%s)", nodeLabel(sess, id), formatter.TruncID(string(id))), nil
			})
		},
	}

	worldFlag(cmd, &worldRef)
	cmd.Flags().StringVar(&parentRef, "parent", "", "Parent group ID or prefix (default: root)")
	cmd.Flags().IntVar(&index, "index", -1, "Position among siblings (default: append)")
	cmd.Flags().Float64Var(&clock, "clock", 100, "Clock speed percent")
	cmd.Flags().Float64Var(&copies, "copies", 1, "Number of identical copies")

	return cmd
}

func newNodeRemoveCmd(app *App) *cobra.Command {
	var worldRef string

	cmd := &cobra.Command{
		Use:   "remove NODE",
		Short: "Remove a node and its children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editWorld(cmd, app, worldRef, func(ctx context.Context, sess *service.Session) (string, error) {
				id, err := resolveNode(sess.Tree(), args[0])
				if err != nil {
					return "", err
				}
				label := nodeLabel(sess, id)
				size := subtreeSize(sess.Tree(), id)
				parent, idx, err := locate(sess.Tree(), id)
				if err != nil {
					return "", err
				}
				if err := sess.Remove(ctx, parent, idx); err != nil {
					return "", err
				}
				if size > 1 {
					return fmt.Sprintf("Removed %q and %d descendants", label, size-1), nil
				}
				return fmt.Sprintf("Removed %q", label), nil
			})
		},
	}

	worldFlag(cmd, &worldRef)

	return cmd
}

func newNodeMoveCmd(app *App) *cobra.Command {
	var worldRef, toRef string
	var index int

	cmd := &cobra.Command{
		Use:   "move NODE",
		Short: "Move a node under another group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editWorld(cmd, app, worldRef, func(ctx context.Context, sess *service.Session) (string, error) {
				id, err := resolveNode(sess.Tree(), args[0])
				if err != nil {
					return "", err
				}
				srcParent, srcIdx, err := locate(sess.Tree(), id)
				if err != nil {
					return "", err
				}
				dst, dstIdx, err := insertSlot(sess.Tree(), toRef, index)
				if err != nil {
					return "", err
				}
				if err := sess.Move(ctx, srcParent, srcIdx, dst, dstIdx); err != nil {
					return "", err
				}
				return fmt.Sprintf("Moved %q under %q", nodeLabel(sess, id), nodeLabel(sess, dst)), nil
			})
		},
	}

	worldFlag(cmd, &worldRef)
	cmd.Flags().StringVar(&toRef, "to", "", "Destination group ID or prefix (default: root)")
	cmd.Flags().IntVar(&index, "index", -1, "Position among the destination's children (default: append)")

	return cmd
}

func newNodeReorderCmd(app *App) *cobra.Command {
	var worldRef string
	var index int

	cmd := &cobra.Command{
		Use:   "reorder NODE",
		Short: "Move a node to a new position among its siblings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editWorld(cmd, app, worldRef, func(ctx context.Context, sess *service.Session) (string, error) {
				id, err := resolveNode(sess.Tree(), args[0])
				if err != nil {
					return "", err
				}
				parent, from, err := locate(sess.Tree(), id)
				if err != nil {
					return "", err
				}
				if err := sess.Reorder(ctx, parent, from, index); err != nil {
					return "", err
				}
				return fmt.Sprintf("Moved %q to position %d", nodeLabel(sess, id), index), nil
			})
		},
	}

	worldFlag(cmd, &worldRef)
	cmd.Flags().IntVar(&index, "index", 0, "New position among siblings")
	_ = cmd.MarkFlagRequired("index")

	return cmd
}

func newNodeSetClockCmd(app *App) *cobra.Command {
	var worldRef string

	cmd := &cobra.Command{
		Use:   "set-clock NODE PERCENT",
		Short: "Set a building's clock speed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editWorld(cmd, app, worldRef, func(ctx context.Context, sess *service.Session) (string, error) {
				pct, err := strconv.ParseFloat(args[1], 64)
				if err != nil {
					return "", fmt.Errorf("invalid clock %q: %w", args[1], err)
				}
				id, err := resolveNode(sess.Tree(), args[0])
				if err != nil {
					return "", err
				}
				if err := sess.SetClock(ctx, id, pct); err != nil {
					return "", err
				}
				return fmt.Sprintf("Set clock to %s on %q", formatter.FormatClock(pct), nodeLabel(sess, id)), nil
			})
		},
	}

	worldFlag(cmd, &worldRef)

	return cmd
}

func newNodeSetCopiesCmd(app *App) *cobra.Command {
	var worldRef string

	cmd := &cobra.Command{
		Use:   "set-copies NODE COUNT",
		Short: "Set how many identical copies a node counts for",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editWorld(cmd, app, worldRef, func(ctx context.Context, sess *service.Session) (string, error) {
				copies, err := strconv.ParseFloat(args[1], 64)
				if err != nil {
					return "", fmt.Errorf("invalid count %q: %w", args[1], err)
				}
				id, err := resolveNode(sess.Tree(), args[0])
				if err != nil {
					return "", err
				}
				if err := sess.SetCopies(ctx, id, copies); err != nil {
					return "", err
				}
				return fmt.Sprintf("Set count to %s for %q", formatter.FormatCount(copies), nodeLabel(sess, id)), nil
			})
		},
	}

	worldFlag(cmd, &worldRef)

	return cmd
}

func newNodeSetRecipeCmd(app *App) *cobra.Command {
	var worldRef string

	cmd := &cobra.Command{
		Use:   "set-recipe NODE [RECIPE]",
		Short: "Set or clear a building's recipe",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editWorld(cmd, app, worldRef, func(ctx context.Context, sess *service.Session) (string, error) {
				id, err := resolveNode(sess.Tree(), args[0])
				if err != nil {
					return "", err
				}
				if len(args) == 1 {
					if err := sess.SetRecipe(ctx, id, ""); err != nil {
						return "", err
					}
					return fmt.Sprintf("Cleared recipe on %s", formatter.TruncID(string(id))), nil
				}
				recipe, err := resolveRecipe(sess.Catalog(), args[1])
				if err != nil {
					return "", err
				}
				if err := sess.SetRecipe(ctx, id, recipe); err != nil {
					return "", err
				}
				return fmt.Sprintf("Set recipe to %s on %s", nodeLabel(sess, id), formatter.TruncID(string(id))), nil
			})
		},
	}

	worldFlag(cmd, &worldRef)

	return cmd
}

func newNodeSetNameCmd(app *App) *cobra.Command {
	var worldRef string

	cmd := &cobra.Command{
		Use:   "set-name NODE NAME",
		Short: "Rename a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editWorld(cmd, app, worldRef, func(ctx context.Context, sess *service.Session) (string, error) {
				id, err := resolveNode(sess.Tree(), args[0])
				if err != nil {
					return "", err
				}
				if err := sess.SetName(ctx, id, args[1]); err != nil {
					return "", err
				}
				return fmt.Sprintf("Renamed group to %q", args[1]), nil
			})
		},
	}

	worldFlag(cmd, &worldRef)

	return cmd
}
