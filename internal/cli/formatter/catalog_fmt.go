package formatter

import (
	"fmt"
	"sort"
	"strings"

	"factorybook/internal/catalog"
)

// FormatCatalogInfo renders the catalog version and entry counts.
func FormatCatalogInfo(cat *catalog.Catalog) string {
	return fmt.Sprintf("%s %s\n%s %d items, %d recipes\n",
		Bold("Catalog"), cat.Version(),
		Dim("Entries:"), len(cat.Items()), len(cat.Recipes()))
}

// FormatItemList renders the catalog items in display order.
func FormatItemList(items []*catalog.Item) string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{string(it.ID), it.Name})
	}
	return RenderTable([]string{"ID", "NAME"}, rows, nil)
}

// FormatRecipeList renders one row per recipe with its base power draw.
func FormatRecipeList(recipes []*catalog.Recipe) string {
	rows := make([][]string, 0, len(recipes))
	for _, r := range recipes {
		rows = append(rows, []string{
			string(r.ID),
			r.Name,
			r.Building,
			StyledPower(r.Power.BaseMW),
		})
	}
	return RenderTable(
		[]string{"ID", "NAME", "BUILDING", "POWER @100%"},
		rows,
		[]Align{AlignLeft, AlignLeft, AlignLeft, AlignRight},
	)
}

// FormatRecipeDetail renders a recipe's full flow sheet: signed item rates
// at 100% clock and the power behavior including its curve.
func FormatRecipeDetail(r *catalog.Recipe, cat *catalog.Catalog) string {
	ids := make([]catalog.ItemID, 0, len(r.ItemsPerMin))
	for id := range r.ItemsPerMin {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ri, rj := r.ItemsPerMin[ids[i]], r.ItemsPerMin[ids[j]]
		if (ri > 0) != (rj > 0) {
			return ri > 0 // products first
		}
		return ids[i] < ids[j]
	})

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, []string{cat.ItemName(id), StyledRate(r.ItemsPerMin[id])})
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", Bold(r.Name), Dim(string(r.ID))))
	if r.Building != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("Building:"), r.Building))
	}
	b.WriteString("\n")
	if len(rows) > 0 {
		b.WriteString(RenderTable([]string{"ITEM", "PER MIN"}, rows, []Align{AlignLeft, AlignRight}))
		b.WriteString("\n")
	}
	b.WriteString(Bold("Power") + "  " + StyledPower(r.Power.BaseMW))
	if r.Power.Curve != nil {
		b.WriteString("  " + Dim("curve: "+r.Power.Curve.String()))
	} else {
		b.WriteString("  " + Dim("curve: linear"))
	}
	b.WriteString("\n")
	return b.String()
}
