package accounting

import (
	"github.com/google/uuid"

	"factorybook/internal/catalog"
)

type NodeID string

func NewNodeID() NodeID {
	return NodeID(uuid.NewString())
}

type NodeKind string

const (
	KindGroup    NodeKind = "group"
	KindBuilding NodeKind = "building"
)

// Node is one entry in a build tree: a named group of children or a single
// building line. Kind decides which fields carry meaning: Name and Collapsed
// belong to groups, Recipe and Clock to buildings, Copies to both. Clock is
// a percentage (100 = nominal); Copies is a virtual multiplier and may be
// fractional. Structure fields are private so edits go through the tree.
type Node struct {
	ID        NodeID
	Kind      NodeKind
	Name      string
	Collapsed bool
	Copies    float64
	Recipe    catalog.RecipeID
	Clock     float64

	parent   NodeID
	children []NodeID
}

func (n Node) IsGroup() bool    { return n.Kind == KindGroup }
func (n Node) IsBuilding() bool { return n.Kind == KindBuilding }

// ChildCount is the number of direct children (always 0 for buildings).
func (n Node) ChildCount() int { return len(n.children) }
