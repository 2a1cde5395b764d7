package accounting

import "factorybook/internal/catalog"

// The balance cache keeps one entry per computed node. Edits mark the edited
// node and its ancestors dirty; nothing recomputes until asked. Balance then
// rebuilds only the dirty slice of the tree, so the cost of an edit is
// proportional to the edited subtree plus its depth, not the whole tree.
//
// Invariant: a clean entry always equals Aggregate of the current tree.
type cacheEntry struct {
	balance Balance
	clean   bool
}

// invalidate marks id and every ancestor dirty.
func (t *Tree) invalidate(id NodeID) {
	for cur := id; cur != ""; {
		if e, ok := t.cache[cur]; ok {
			e.clean = false
		}
		n, ok := t.nodes[cur]
		if !ok {
			return
		}
		cur = n.parent
	}
}

// dropCache removes the node's cache entry entirely (for nodes leaving the
// tree).
func (t *Tree) dropCache(id NodeID) {
	delete(t.cache, id)
}

// Balance returns the cached balance of a node, recomputing stale
// descendants first. The returned value is shared with the cache; treat it
// as read-only.
func (t *Tree) Balance(id NodeID, cat *catalog.Catalog) (Balance, error) {
	n, ok := t.nodes[id]
	if !ok {
		return Balance{}, &UnknownNodeError{ID: id}
	}
	return t.computeBalance(n, cat)
}

func (t *Tree) computeBalance(n *Node, cat *catalog.Catalog) (Balance, error) {
	if e, ok := t.cache[n.ID]; ok && e.clean {
		return e.balance, nil
	}

	var b Balance
	if n.Kind == KindBuilding {
		var err error
		b, err = buildingBalance(n, cat)
		if err != nil {
			return Balance{}, err
		}
	} else {
		acc := Balance{}
		for _, child := range n.children {
			cb, err := t.computeBalance(t.nodes[child], cat)
			if err != nil {
				return Balance{}, err
			}
			acc = acc.Add(cb)
		}
		b = acc.Scale(n.Copies)
	}

	t.cache[n.ID] = &cacheEntry{balance: b, clean: true}
	return b, nil
}
