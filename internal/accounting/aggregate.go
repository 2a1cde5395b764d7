package accounting

import (
	"fmt"

	"factorybook/internal/catalog"
)

// Aggregate recomputes the balance of a node from scratch, ignoring the
// cache. It is the reference the cache must agree with.
//
// A building with no recipe set is an empty balance. A set but unknown
// recipe is an UnknownRecipeError even at clock 0 or 0 copies. Group
// balances sum children in child order before scaling by Copies, so the
// result is deterministic for a given tree shape. Item entries that cancel
// to exactly zero are retained: a group consuming everything it produces
// shows those items at rate zero rather than hiding them.
func Aggregate(t *Tree, id NodeID, cat *catalog.Catalog) (Balance, error) {
	n, ok := t.nodes[id]
	if !ok {
		return Balance{}, &UnknownNodeError{ID: id}
	}
	switch n.Kind {
	case KindBuilding:
		return buildingBalance(n, cat)
	default:
		acc := Balance{}
		for _, child := range n.children {
			cb, err := Aggregate(t, child, cat)
			if err != nil {
				return Balance{}, err
			}
			acc = acc.Add(cb)
		}
		return acc.Scale(n.Copies), nil
	}
}

func buildingBalance(n *Node, cat *catalog.Catalog) (Balance, error) {
	if n.Recipe == "" {
		return Balance{}, nil
	}
	r, err := cat.Recipe(n.Recipe)
	if err != nil {
		return Balance{}, &UnknownRecipeError{Recipe: n.Recipe}
	}

	frac := n.Clock / 100
	items := make(map[catalog.ItemID]float64, len(r.ItemsPerMin))
	for item, rate := range r.ItemsPerMin {
		items[item] = rate * frac * n.Copies
	}
	mw, err := r.Power.MW(frac)
	if err != nil {
		return Balance{}, fmt.Errorf("recipe %q: %w", n.Recipe, err)
	}
	return Balance{Power: mw * n.Copies, Items: items}, nil
}
