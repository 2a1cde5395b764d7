package cli

import (
	"fmt"
	"strings"

	"factorybook/internal/accounting"
	"factorybook/internal/catalog"
	"factorybook/internal/cli/formatter"
	"factorybook/internal/service"
)

// resolveNode resolves a node reference against an open tree. The reference
// is a full node ID or a unique ID prefix.
func resolveNode(tree *accounting.Tree, input string) (accounting.NodeID, error) {
	if input == "" {
		return "", fmt.Errorf("node ID is required")
	}

	// 1. Exact ID match
	if _, ok := tree.Get(accounting.NodeID(input)); ok {
		return accounting.NodeID(input), nil
	}

	// 2. ID prefix match
	var matches []accounting.NodeID
	tree.Walk(func(n accounting.Node, _ int) bool {
		if strings.HasPrefix(string(n.ID), input) {
			matches = append(matches, n.ID)
		}
		return true
	})

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("node not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("node ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// locate returns the parent ID and sibling index of a node. Structural
// edits address children by position, so commands taking a node reference
// translate through here.
func locate(tree *accounting.Tree, id accounting.NodeID) (accounting.NodeID, int, error) {
	parent, idx, ok := tree.Slot(id)
	if !ok {
		return "", 0, fmt.Errorf("node %s is the root and cannot be moved or removed", formatter.TruncID(string(id)))
	}
	return parent, idx, nil
}

// nodeLabel is the display name used in confirmation messages.
func nodeLabel(sess *service.Session, id accounting.NodeID) string {
	n, ok := sess.Tree().Get(id)
	if !ok {
		return string(id)
	}
	return formatter.NodeLabel(n, sess.Catalog())
}

// resolveRecipe accepts a recipe ID or a unique ID prefix, so "smelt" works
// when only one recipe starts with it.
func resolveRecipe(cat *catalog.Catalog, input string) (catalog.RecipeID, error) {
	if _, err := cat.Recipe(catalog.RecipeID(input)); err == nil {
		return catalog.RecipeID(input), nil
	}

	var matches []catalog.RecipeID
	for _, r := range cat.Recipes() {
		if strings.HasPrefix(string(r.ID), input) {
			matches = append(matches, r.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("recipe not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("recipe ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
