package service

import (
	"context"
	"fmt"
	"time"

	"factorybook/internal/accounting"
	"factorybook/internal/catalog"
)

// maxUndo bounds a session's edit history. The oldest snapshot falls off
// when a new edit would exceed it.
const maxUndo = 100

// RecipeWarning records a building whose recipe was missing from the active
// catalog when the world was opened. The recipe is cleared on the node; the
// warning is what remains for the user to act on.
type RecipeWarning struct {
	Node   accounting.NodeID
	Recipe catalog.RecipeID
}

// Session is one open world: the tree, the catalog it is valued against,
// a dirty flag, and bounded undo/redo history of serialized documents.
//
// A session belongs to one goroutine at a time. All edits must go through
// the session so history and the dirty flag stay consistent; the tree
// returned by Tree is for reading.
type Session struct {
	WorldID   string
	WorldName string

	tree     *accounting.Tree
	cat      *catalog.Catalog
	undo     []accounting.Document
	redo     []accounting.Document
	dirty    bool
	warnings []RecipeWarning
	observer UseCaseObserver
}

// NewSession wraps a tree for editing.
func NewSession(worldID, worldName string, tree *accounting.Tree, cat *catalog.Catalog, observers ...UseCaseObserver) *Session {
	return &Session{
		WorldID:   worldID,
		WorldName: worldName,
		tree:      tree,
		cat:       cat,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *Session) Tree() *accounting.Tree { return s.tree }

func (s *Session) Catalog() *catalog.Catalog { return s.cat }

// Balance returns the node's cached balance, recomputing stale parts first.
func (s *Session) Balance(id accounting.NodeID) (accounting.Balance, error) {
	return s.tree.Balance(id, s.cat)
}

// Dirty reports whether the session has edits not yet saved.
func (s *Session) Dirty() bool { return s.dirty }

func (s *Session) CanUndo() bool { return len(s.undo) > 0 }

func (s *Session) CanRedo() bool { return len(s.redo) > 0 }

// Warnings lists recipes cleared when the world was opened against a
// catalog that no longer has them.
func (s *Session) Warnings() []RecipeWarning { return s.warnings }

// Document serializes the current tree state.
func (s *Session) Document() accounting.Document { return s.tree.Document() }

// AddGroup creates an empty group under parent at index.
func (s *Session) AddGroup(ctx context.Context, parent accounting.NodeID, index int, name string) (accounting.NodeID, error) {
	var id accounting.NodeID
	err := s.edit(ctx, "add-group", s.pathField(parent), func() error {
		if err := s.checkInsertSlot(parent, index); err != nil {
			return err
		}
		id = s.tree.NewGroup(name)
		return s.tree.InsertChild(parent, index, id)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// AddBuilding creates a building under parent at index. A non-empty recipe
// must exist in the session's catalog; an empty recipe is a placeholder.
func (s *Session) AddBuilding(ctx context.Context, parent accounting.NodeID, index int, recipe catalog.RecipeID, clock float64) (accounting.NodeID, error) {
	var id accounting.NodeID
	err := s.edit(ctx, "add-building", s.pathField(parent), func() error {
		if recipe != "" {
			if _, err := s.cat.Recipe(recipe); err != nil {
				return err
			}
		}
		if err := s.checkInsertSlot(parent, index); err != nil {
			return err
		}
		var err error
		id, err = s.tree.NewBuilding(recipe, clock)
		if err != nil {
			return err
		}
		return s.tree.InsertChild(parent, index, id)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Remove deletes the index-th child of parent together with its subtree.
func (s *Session) Remove(ctx context.Context, parent accounting.NodeID, index int) error {
	return s.edit(ctx, "remove-node", s.pathField(parent), func() error {
		sub, err := s.tree.RemoveChild(parent, index)
		if err != nil {
			return err
		}
		sub.Discard()
		return nil
	})
}

// Move relocates the srcIdx-th child of srcParent under dstParent at dstIdx.
func (s *Session) Move(ctx context.Context, srcParent accounting.NodeID, srcIdx int, dstParent accounting.NodeID, dstIdx int) error {
	fields := s.pathField(srcParent)
	fields["dest_depth"] = s.depth(dstParent)
	return s.edit(ctx, "move-node", fields, func() error {
		return s.tree.MoveChild(srcParent, srcIdx, dstParent, dstIdx)
	})
}

// Reorder moves a child between positions of the same group.
func (s *Session) Reorder(ctx context.Context, parent accounting.NodeID, from, to int) error {
	return s.edit(ctx, "reorder-node", s.pathField(parent), func() error {
		return s.tree.ReorderSibling(parent, from, to)
	})
}

// SetName renames a group.
func (s *Session) SetName(ctx context.Context, id accounting.NodeID, name string) error {
	return s.edit(ctx, "set-name", s.pathField(id), func() error {
		return s.tree.SetName(id, name)
	})
}

// SetRecipe assigns a recipe to a building; it must exist in the catalog.
// An empty recipe clears the building.
func (s *Session) SetRecipe(ctx context.Context, id accounting.NodeID, recipe catalog.RecipeID) error {
	return s.edit(ctx, "set-recipe", s.pathField(id), func() error {
		if recipe != "" {
			if _, err := s.cat.Recipe(recipe); err != nil {
				return err
			}
		}
		return s.tree.SetRecipe(id, recipe)
	})
}

// SetClock sets a building's clock percentage.
func (s *Session) SetClock(ctx context.Context, id accounting.NodeID, percent float64) error {
	return s.edit(ctx, "set-clock", s.pathField(id), func() error {
		return s.tree.SetClock(id, percent)
	})
}

// SetCopies sets a node's virtual copy count.
func (s *Session) SetCopies(ctx context.Context, id accounting.NodeID, copies float64) error {
	return s.edit(ctx, "set-copies", s.pathField(id), func() error {
		return s.tree.SetCopies(id, copies)
	})
}

// SetCollapsed flips a group's presentation fold. View state only: the
// session is marked dirty so the fold persists, but no undo step is
// recorded and balances are untouched.
func (s *Session) SetCollapsed(id accounting.NodeID, collapsed bool) error {
	if err := s.tree.SetCollapsed(id, collapsed); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// Undo restores the tree to the state before the latest edit.
func (s *Session) Undo(ctx context.Context) error {
	return s.restore(ctx, "undo", &s.undo, &s.redo, ErrNothingToUndo)
}

// Redo reapplies the latest undone edit.
func (s *Session) Redo(ctx context.Context) error {
	return s.restore(ctx, "redo", &s.redo, &s.undo, ErrNothingToRedo)
}

// edit runs one engine mutation. On success the pre-edit document becomes
// an undo entry and redo history is dropped; on error the tree is untouched
// (engine ops are all-or-nothing).
func (s *Session) edit(ctx context.Context, op string, fields map[string]any, fn func() error) error {
	startedAt := time.Now().UTC()
	before := s.tree.Document()

	err := fn()
	if err == nil {
		s.undo = append(s.undo, before)
		if len(s.undo) > maxUndo {
			s.undo = s.undo[len(s.undo)-maxUndo:]
		}
		s.redo = nil
		s.dirty = true
	}

	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      op,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
	return err
}

func (s *Session) restore(ctx context.Context, op string, from, to *[]accounting.Document, emptyErr error) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      op,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
		})
	}()

	stack := *from
	if len(stack) == 0 {
		return emptyErr
	}
	snapshot := stack[len(stack)-1]

	tree, err := accounting.FromDocument(snapshot)
	if err != nil {
		return fmt.Errorf("restoring history snapshot: %w", err)
	}

	*to = append(*to, s.tree.Document())
	*from = stack[:len(stack)-1]
	s.tree = tree
	s.dirty = true
	s.warm()
	return nil
}

// checkInsertSlot validates parent and index before a node is created, so a
// failed add never leaves a detached node behind.
func (s *Session) checkInsertSlot(parent accounting.NodeID, index int) error {
	n, ok := s.tree.Get(parent)
	if !ok {
		return &accounting.UnknownNodeError{ID: parent}
	}
	if !n.IsGroup() {
		return &accounting.NotAGroupError{ID: parent}
	}
	if count := len(s.tree.Children(parent)); index < 0 || index > count {
		return &accounting.IndexOutOfRangeError{Index: index, Len: count}
	}
	return nil
}

// warm recomputes the root balance so every attached node's cache entry is
// clean again after a wholesale tree swap.
func (s *Session) warm() {
	_, _ = s.tree.Balance(s.tree.Root(), s.cat)
}

// depth counts nodes on the path from id to the root: the number of cache
// entries an edit at id invalidates.
func (s *Session) depth(id accounting.NodeID) int {
	d := 0
	for cur := id; cur != ""; cur = s.tree.Parent(cur) {
		d++
	}
	return d
}

func (s *Session) pathField(id accounting.NodeID) map[string]any {
	return map[string]any{"world": s.WorldID, "depth": s.depth(id)}
}
