package accounting

import (
	"fmt"

	"factorybook/internal/catalog"
)

// DocumentVersion is the current serialized tree format.
const DocumentVersion = 2

// Document is the serialized form of a tree: nested node records instead of
// the arena. Fields at their defaults (copies 1, clock 100) are omitted so
// files stay small and hand-editable.
type Document struct {
	FormatVersion int     `json:"format_version"`
	Root          NodeDoc `json:"root"`
}

type NodeDoc struct {
	ID        string    `json:"id,omitempty"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name,omitempty"`
	Collapsed bool      `json:"collapsed,omitempty"`
	Copies    *float64  `json:"copies,omitempty"`
	Recipe    string    `json:"recipe,omitempty"`
	Clock     *float64  `json:"clock,omitempty"`
	Children  []NodeDoc `json:"children,omitempty"`
}

// ClearIDs strips node ids recursively so the document builds a tree of
// fresh identities on the next FromDocument (world duplication).
func (d *NodeDoc) ClearIDs() {
	d.ID = ""
	for i := range d.Children {
		d.Children[i].ClearIDs()
	}
}

// Document serializes the attached tree. Detached nodes are not part of it.
func (t *Tree) Document() Document {
	return Document{FormatVersion: DocumentVersion, Root: t.docNode(t.root)}
}

func (t *Tree) docNode(id NodeID) NodeDoc {
	n := t.nodes[id]
	d := NodeDoc{ID: string(n.ID), Kind: string(n.Kind)}
	if n.Copies != 1 {
		c := n.Copies
		d.Copies = &c
	}
	switch n.Kind {
	case KindBuilding:
		d.Recipe = string(n.Recipe)
		if n.Clock != 100 {
			c := n.Clock
			d.Clock = &c
		}
	default:
		d.Name = n.Name
		d.Collapsed = n.Collapsed
		for _, child := range n.children {
			d.Children = append(d.Children, t.docNode(child))
		}
	}
	return d
}

// FromDocument rebuilds a tree from its serialized form. Structural
// problems are errors: unknown kinds, mixed kind fields, duplicate ids,
// negative or non-finite copies/clock, a root that is not a group. Nodes
// without ids get fresh ones. The cache starts cold.
func FromDocument(doc Document) (*Tree, error) {
	if doc.FormatVersion > DocumentVersion {
		return nil, fmt.Errorf("document format %d is newer than supported %d", doc.FormatVersion, DocumentVersion)
	}
	if NodeKind(doc.Root.Kind) != KindGroup {
		return nil, fmt.Errorf("root must be a group, got %q", doc.Root.Kind)
	}
	t := &Tree{
		nodes: make(map[NodeID]*Node),
		cache: make(map[NodeID]*cacheEntry),
	}
	root, err := t.addDocNode(doc.Root, "")
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

func (t *Tree) addDocNode(d NodeDoc, parent NodeID) (NodeID, error) {
	n := &Node{Kind: NodeKind(d.Kind), Copies: 1, parent: parent}

	switch n.Kind {
	case KindGroup:
		if d.Recipe != "" || d.Clock != nil {
			return "", fmt.Errorf("group %s carries building fields", docRef(d))
		}
		n.Name = d.Name
		n.Collapsed = d.Collapsed
	case KindBuilding:
		if d.Name != "" || d.Collapsed || len(d.Children) > 0 {
			return "", fmt.Errorf("building %s carries group fields", docRef(d))
		}
		n.Recipe = catalog.RecipeID(d.Recipe)
		n.Clock = 100
		if d.Clock != nil {
			if !validScale(*d.Clock) {
				return "", fmt.Errorf("node %s: %w", docRef(d), &InvalidClockSpeedError{Value: *d.Clock})
			}
			n.Clock = *d.Clock
		}
	default:
		return "", fmt.Errorf("node %s: unknown kind %q", docRef(d), d.Kind)
	}

	if d.Copies != nil {
		if !validScale(*d.Copies) {
			return "", fmt.Errorf("node %s: %w", docRef(d), &InvalidCopyCountError{Value: *d.Copies})
		}
		n.Copies = *d.Copies
	}

	n.ID = NodeID(d.ID)
	if n.ID == "" {
		n.ID = NewNodeID()
	}
	if _, exists := t.nodes[n.ID]; exists {
		return "", fmt.Errorf("duplicate node id %s", n.ID)
	}
	t.nodes[n.ID] = n

	for _, cd := range d.Children {
		child, err := t.addDocNode(cd, n.ID)
		if err != nil {
			return "", err
		}
		n.children = append(n.children, child)
	}
	return n.ID, nil
}

func docRef(d NodeDoc) string {
	if d.ID != "" {
		return d.ID
	}
	if d.Name != "" {
		return fmt.Sprintf("%q", d.Name)
	}
	return "(unnamed)"
}
