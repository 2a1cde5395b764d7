package formatter

import (
	"fmt"
	"strings"

	"factorybook/internal/repository"
)

// FormatWorldList renders the stored worlds as a table. The world matching
// lastID gets an active marker in front of its name.
func FormatWorldList(worlds []*repository.StoredWorld, lastID string) string {
	if len(worlds) == 0 {
		return Dim("No worlds yet. Create one with: factorybook world create <name>") + "\n"
	}

	rows := make([][]string, 0, len(worlds))
	for _, w := range worlds {
		name := w.Name
		if w.ID == lastID {
			name = StyleGreen.Render("● ") + Bold(w.Name)
		}
		catVersion := w.CatalogVersion
		if catVersion == "" {
			catVersion = Dim("--")
		}
		rows = append(rows, []string{
			TruncID(w.ID),
			name,
			catVersion,
			HumanTimestamp(w.UpdatedAt),
		})
	}
	return RenderTable([]string{"ID", "NAME", "CATALOG", "UPDATED"}, rows, nil)
}

// WorldStats summarizes a world's tree for the info box.
type WorldStats struct {
	Groups    int // root included
	Buildings int
}

// FormatWorldInfo renders a single world's metadata and tree size.
func FormatWorldInfo(w *repository.StoredWorld, stats WorldStats) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", Bold(w.Name), TruncID(w.ID)))
	b.WriteString(fmt.Sprintf("%s %d groups, %d buildings\n", Dim("Tree:"), stats.Groups, stats.Buildings))
	if w.CatalogVersion != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("Catalog:"), w.CatalogVersion))
	}
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Created:"), HumanDate(w.CreatedAt)))
	b.WriteString(fmt.Sprintf("%s %s", Dim("Updated:"), HumanTimestamp(w.UpdatedAt)))
	return RenderBox("world", b.String())
}
