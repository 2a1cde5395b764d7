package formatter

import (
	"factorybook/internal/accounting"
	"factorybook/internal/catalog"
)

// NodeLabel is the display name of a tree node: the group's name, or the
// recipe name for buildings.
func NodeLabel(n accounting.Node, cat *catalog.Catalog) string {
	if n.IsGroup() {
		return n.Name
	}
	if n.Recipe == "" {
		return "(no recipe)"
	}
	if r, err := cat.Recipe(n.Recipe); err == nil {
		return r.Name
	}
	return string(n.Recipe)
}

// NodeTitle is the full row text for a node: the label, the clock when it
// is off nominal, and the copy count when it is not 1.
func NodeTitle(n accounting.Node, cat *catalog.Catalog) string {
	title := NodeLabel(n, cat)
	if n.IsBuilding() && n.Clock != 100 {
		title += " @ " + FormatClock(n.Clock)
	}
	if n.Copies != 1 {
		title += " " + FormatCount(n.Copies)
	}
	return title
}
