package accounting

import (
	"fmt"
	"math"
	"slices"

	"factorybook/internal/catalog"
)

// Editor methods. Every operation validates before it mutates: a returned
// error means the tree and its cache are exactly as they were.

// finite and not negative; NaN fails the comparison
func validScale(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

func (t *Tree) group(id NodeID) (*Node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, &UnknownNodeError{ID: id}
	}
	if n.Kind != KindGroup {
		return nil, &NotAGroupError{ID: id}
	}
	return n, nil
}

func (t *Tree) building(id NodeID) (*Node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, &UnknownNodeError{ID: id}
	}
	if n.Kind != KindBuilding {
		return nil, &NotABuildingError{ID: id}
	}
	return n, nil
}

// NewGroup creates a detached empty group. Attach it with InsertChild.
func (t *Tree) NewGroup(name string) NodeID {
	n := &Node{ID: NewNodeID(), Kind: KindGroup, Name: name, Copies: 1}
	t.nodes[n.ID] = n
	return n.ID
}

// NewBuilding creates a detached building. An empty recipe means unset;
// clock is a percentage.
func (t *Tree) NewBuilding(recipe catalog.RecipeID, clock float64) (NodeID, error) {
	if !validScale(clock) {
		return "", &InvalidClockSpeedError{Value: clock}
	}
	n := &Node{ID: NewNodeID(), Kind: KindBuilding, Recipe: recipe, Clock: clock, Copies: 1}
	t.nodes[n.ID] = n
	return n.ID, nil
}

// InsertChild attaches a detached node under parent at index, which may be
// anywhere from 0 to the current child count.
func (t *Tree) InsertChild(parent NodeID, index int, child NodeID) error {
	p, err := t.group(parent)
	if err != nil {
		return err
	}
	c, ok := t.nodes[child]
	if !ok {
		return &UnknownNodeError{ID: child}
	}
	if t.attached(c) {
		return fmt.Errorf("inserting %s: %w", child, ErrAlreadyAttached)
	}
	if index < 0 || index > len(p.children) {
		return &IndexOutOfRangeError{Index: index, Len: len(p.children)}
	}
	if t.wouldCycle(child, parent) {
		return &CycleDetectedError{Node: child, Dest: parent}
	}

	p.children = slices.Insert(p.children, index, child)
	c.parent = parent
	t.invalidate(parent)
	return nil
}

// Subtree is a detached chunk of tree produced by RemoveChild. It owns its
// nodes until InsertSubtree splices them into a tree again.
type Subtree struct {
	root  NodeID
	nodes map[NodeID]*Node
}

func (s *Subtree) Root() NodeID { return s.root }

func (s *Subtree) Len() int { return len(s.nodes) }

// Discard drops the nodes; the subtree cannot be inserted afterwards.
func (s *Subtree) Discard() { s.nodes = nil }

// RemoveChild detaches the index-th child of parent and returns it as a
// standalone subtree. Cache entries of every removed node leave the tree
// with it.
func (t *Tree) RemoveChild(parent NodeID, index int) (*Subtree, error) {
	p, err := t.group(parent)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(p.children) {
		return nil, &IndexOutOfRangeError{Index: index, Len: len(p.children)}
	}

	child := p.children[index]
	p.children = slices.Delete(p.children, index, index+1)

	sub := &Subtree{root: child, nodes: make(map[NodeID]*Node)}
	t.extract(child, sub)
	sub.nodes[child].parent = ""
	t.invalidate(parent)
	return sub, nil
}

func (t *Tree) extract(id NodeID, sub *Subtree) {
	n := t.nodes[id]
	delete(t.nodes, id)
	t.dropCache(id)
	sub.nodes[id] = n
	for _, child := range n.children {
		t.extract(child, sub)
	}
}

// InsertSubtree splices a removed subtree under parent at index. The
// subtree is consumed on success.
func (t *Tree) InsertSubtree(parent NodeID, index int, sub *Subtree) error {
	if sub == nil || len(sub.nodes) == 0 {
		return fmt.Errorf("inserting subtree: nothing to insert")
	}
	p, err := t.group(parent)
	if err != nil {
		return err
	}
	if index < 0 || index > len(p.children) {
		return &IndexOutOfRangeError{Index: index, Len: len(p.children)}
	}
	for id := range sub.nodes {
		if _, exists := t.nodes[id]; exists {
			return fmt.Errorf("inserting subtree: node %s already in tree", id)
		}
	}

	for id, n := range sub.nodes {
		t.nodes[id] = n
	}
	t.nodes[sub.root].parent = parent
	p.children = slices.Insert(p.children, index, sub.root)
	sub.nodes = nil
	t.invalidate(parent)
	return nil
}

// MoveChild moves the srcIdx-th child of srcParent under dstParent at
// dstIdx as one atomic step. For same-parent moves dstIdx addresses the
// child list as it was before removal.
func (t *Tree) MoveChild(srcParent NodeID, srcIdx int, dstParent NodeID, dstIdx int) error {
	src, err := t.group(srcParent)
	if err != nil {
		return err
	}
	if srcIdx < 0 || srcIdx >= len(src.children) {
		return &IndexOutOfRangeError{Index: srcIdx, Len: len(src.children)}
	}
	dst, err := t.group(dstParent)
	if err != nil {
		return err
	}
	if dstIdx < 0 || dstIdx > len(dst.children) {
		return &IndexOutOfRangeError{Index: dstIdx, Len: len(dst.children)}
	}

	moved := src.children[srcIdx]
	if t.wouldCycle(moved, dstParent) {
		return &CycleDetectedError{Node: moved, Dest: dstParent}
	}

	src.children = slices.Delete(src.children, srcIdx, srcIdx+1)
	insertAt := dstIdx
	if srcParent == dstParent && srcIdx < dstIdx {
		insertAt--
	}
	dst.children = slices.Insert(dst.children, insertAt, moved)
	t.nodes[moved].parent = dstParent

	t.invalidate(srcParent)
	if dstParent != srcParent {
		t.invalidate(dstParent)
	}
	return nil
}

// ReorderSibling moves the child at from to position to within the same
// group. Sibling order never changes sums, so the cache stays warm.
func (t *Tree) ReorderSibling(parent NodeID, from, to int) error {
	p, err := t.group(parent)
	if err != nil {
		return err
	}
	if from < 0 || from >= len(p.children) {
		return &IndexOutOfRangeError{Index: from, Len: len(p.children)}
	}
	if to < 0 || to >= len(p.children) {
		return &IndexOutOfRangeError{Index: to, Len: len(p.children)}
	}
	if from == to {
		return nil
	}

	id := p.children[from]
	p.children = slices.Delete(p.children, from, from+1)
	p.children = slices.Insert(p.children, to, id)
	return nil
}

func (t *Tree) SetName(id NodeID, name string) error {
	n, err := t.group(id)
	if err != nil {
		return err
	}
	n.Name = name
	return nil
}

// SetCollapsed flips the presentation fold; balances are untouched.
func (t *Tree) SetCollapsed(id NodeID, collapsed bool) error {
	n, err := t.group(id)
	if err != nil {
		return err
	}
	n.Collapsed = collapsed
	return nil
}

// SetRecipe assigns a recipe id to a building. The id is not checked
// against any catalog here; aggregation surfaces unknown recipes.
func (t *Tree) SetRecipe(id NodeID, recipe catalog.RecipeID) error {
	n, err := t.building(id)
	if err != nil {
		return err
	}
	n.Recipe = recipe
	t.invalidate(id)
	return nil
}

func (t *Tree) SetClock(id NodeID, percent float64) error {
	n, err := t.building(id)
	if err != nil {
		return err
	}
	if !validScale(percent) {
		return &InvalidClockSpeedError{Value: percent}
	}
	n.Clock = percent
	t.invalidate(id)
	return nil
}

func (t *Tree) SetCopies(id NodeID, copies float64) error {
	n, ok := t.nodes[id]
	if !ok {
		return &UnknownNodeError{ID: id}
	}
	if !validScale(copies) {
		return &InvalidCopyCountError{Value: copies}
	}
	n.Copies = copies
	t.invalidate(id)
	return nil
}
