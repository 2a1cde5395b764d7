package formatter

import (
	"fmt"
	"sort"
	"strings"

	"factorybook/internal/accounting"
	"factorybook/internal/catalog"
)

// BalanceView controls how a balance is laid out.
type BalanceView struct {
	// HideNeutral drops items whose rates net to exactly zero.
	HideNeutral bool
	// ByItem renders one id-ordered list instead of the produced, neutral,
	// consumed blocks.
	ByItem bool
}

// FormatBalance renders a node's net balance as an item table followed by
// the power line.
func FormatBalance(b accounting.Balance, cat *catalog.Catalog, view BalanceView) string {
	bb := b.Partition()
	if view.HideNeutral {
		bb = bb.WithoutNeutral()
	}

	var rows [][]string
	appendEntries := func(entries []accounting.Entry) {
		for _, e := range entries {
			rows = append(rows, []string{
				cat.ItemName(e.Item),
				StyledRate(e.Rate),
			})
		}
	}

	if view.ByItem {
		entries := append(append(append([]accounting.Entry{}, bb.Positive...), bb.Neutral...), bb.Negative...)
		sort.Slice(entries, func(i, j int) bool { return entries[i].Item < entries[j].Item })
		appendEntries(entries)
	} else {
		appendEntries(bb.Positive)
		appendEntries(bb.Neutral)
		appendEntries(bb.Negative)
	}

	var out strings.Builder
	if len(rows) == 0 {
		out.WriteString(Dim("no item flows") + "\n")
	} else {
		out.WriteString(RenderTable(
			[]string{"ITEM", "PER MIN"},
			rows,
			[]Align{AlignLeft, AlignRight},
		))
	}
	out.WriteString("\n" + Bold("Power") + "  " + StyledPower(bb.Power) + "\n")
	return out.String()
}

// BalanceSummary renders a compact one-line balance for tree badges: the
// strongest item flows plus net power. maxItems caps the item count; the
// rest collapse into a count.
func BalanceSummary(b accounting.Balance, cat *catalog.Catalog, maxItems int) string {
	pruned := b.Prune()
	type flow struct {
		item catalog.ItemID
		rate float64
	}
	flows := make([]flow, 0, len(pruned.Items))
	for item, rate := range pruned.Items {
		flows = append(flows, flow{item, rate})
	}
	sort.Slice(flows, func(i, j int) bool {
		ri, rj := flows[i].rate, flows[j].rate
		if ri < 0 {
			ri = -ri
		}
		if rj < 0 {
			rj = -rj
		}
		if ri != rj {
			return ri > rj
		}
		return flows[i].item < flows[j].item
	})

	var parts []string
	for i, f := range flows {
		if maxItems > 0 && i == maxItems {
			parts = append(parts, Dim(fmt.Sprintf("+%d more", len(flows)-maxItems)))
			break
		}
		parts = append(parts, RateStyle(f.rate).Render(FormatRate(f.rate)+" "+cat.ItemName(f.item)))
	}
	if b.Power != 0 || len(parts) == 0 {
		parts = append(parts, StyledPower(b.Power))
	}
	return strings.Join(parts, Dim(" · "))
}
