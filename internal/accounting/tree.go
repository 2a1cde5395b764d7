package accounting

import "slices"

// Tree is a build hierarchy stored as an arena of nodes keyed by id, with
// parent/child relations held as id references. A single group is the root.
// Nodes created by NewGroup/NewBuilding live in the arena detached (no
// parent) until InsertChild attaches them.
//
// The tree carries the lazy balance cache described in cache.go. It is not
// safe for concurrent use; one goroutine owns a tree at a time.
type Tree struct {
	nodes map[NodeID]*Node
	root  NodeID
	cache map[NodeID]*cacheEntry
}

// NewTree creates a tree holding a single empty root group.
func NewTree(rootName string) *Tree {
	t := &Tree{
		nodes: make(map[NodeID]*Node),
		cache: make(map[NodeID]*cacheEntry),
	}
	root := &Node{
		ID:     NewNodeID(),
		Kind:   KindGroup,
		Name:   rootName,
		Copies: 1,
	}
	t.nodes[root.ID] = root
	t.root = root.ID
	return t
}

func (t *Tree) Root() NodeID { return t.root }

// Len is the number of nodes in the arena, detached ones included.
func (t *Tree) Len() int { return len(t.nodes) }

// Get returns a snapshot of the node. Mutating the copy does not touch the
// tree; edits go through the editor methods.
func (t *Tree) Get(id NodeID) (Node, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Parent returns the parent id, or "" for the root, detached nodes and
// unknown ids.
func (t *Tree) Parent(id NodeID) NodeID {
	n, ok := t.nodes[id]
	if !ok {
		return ""
	}
	return n.parent
}

// Children returns a copy of the ordered child ids. Buildings and unknown
// ids yield nil.
func (t *Tree) Children(id NodeID) []NodeID {
	n, ok := t.nodes[id]
	if !ok || len(n.children) == 0 {
		return nil
	}
	return slices.Clone(n.children)
}

// Slot returns the parent id and sibling index of an attached node.
// The root has no slot.
func (t *Tree) Slot(id NodeID) (NodeID, int, bool) {
	n, ok := t.nodes[id]
	if !ok || n.parent == "" {
		return "", 0, false
	}
	for i, c := range t.nodes[n.parent].children {
		if c == id {
			return n.parent, i, true
		}
	}
	return "", 0, false
}

// Walk visits the attached tree in preorder. Returning false skips the
// node's children.
func (t *Tree) Walk(fn func(n Node, depth int) bool) {
	t.walk(t.root, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(Node, int) bool) {
	n := t.nodes[id]
	if !fn(*n, depth) {
		return
	}
	for _, child := range n.children {
		t.walk(child, depth+1, fn)
	}
}

// attached reports whether the node is reachable from the root.
func (t *Tree) attached(n *Node) bool {
	return n.ID == t.root || n.parent != ""
}

// wouldCycle reports whether attaching moved under dest would make moved an
// ancestor of itself: true when dest is moved or any descendant of moved.
func (t *Tree) wouldCycle(moved, dest NodeID) bool {
	for cur := dest; cur != ""; {
		if cur == moved {
			return true
		}
		n, ok := t.nodes[cur]
		if !ok {
			return false
		}
		cur = n.parent
	}
	return false
}
