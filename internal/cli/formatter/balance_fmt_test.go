package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factorybook/internal/accounting"
	"factorybook/internal/catalog"
	"factorybook/internal/testutil"
)

func demoBalance() accounting.Balance {
	return accounting.Balance{
		Power: -9,
		Items: map[catalog.ItemID]float64{
			"iron-plate": 20,
			"iron-ore":   0,
			"coal":       -15,
		},
	}
}

func TestFormatBalance_Buckets(t *testing.T) {
	out := stripANSI(FormatBalance(demoBalance(), testutil.NewTestCatalog(), BalanceView{}))

	assert.Contains(t, out, "ITEM")
	assert.Contains(t, out, "PER MIN")
	assert.Contains(t, out, "Iron Plate")
	assert.Contains(t, out, "+20")
	assert.Contains(t, out, "Iron Ore")
	assert.Contains(t, out, "Coal")
	assert.Contains(t, out, "-15")
	assert.Contains(t, out, "Power")
	assert.Contains(t, out, "-9 MW")

	// Produced before neutral before consumed.
	plate := strings.Index(out, "Iron Plate")
	ore := strings.Index(out, "Iron Ore")
	coal := strings.Index(out, "Coal")
	require.True(t, plate >= 0 && ore >= 0 && coal >= 0)
	assert.Less(t, plate, ore)
	assert.Less(t, ore, coal)
}

func TestFormatBalance_HideNeutral(t *testing.T) {
	out := stripANSI(FormatBalance(demoBalance(), testutil.NewTestCatalog(), BalanceView{HideNeutral: true}))

	assert.Contains(t, out, "Iron Plate")
	assert.Contains(t, out, "Coal")
	assert.NotContains(t, out, "Iron Ore")
}

func TestFormatBalance_ByItem(t *testing.T) {
	out := stripANSI(FormatBalance(demoBalance(), testutil.NewTestCatalog(), BalanceView{ByItem: true}))

	// Item-id order regardless of sign: coal, iron-ore, iron-plate.
	coal := strings.Index(out, "Coal")
	ore := strings.Index(out, "Iron Ore")
	plate := strings.Index(out, "Iron Plate")
	require.True(t, plate >= 0 && ore >= 0 && coal >= 0)
	assert.Less(t, coal, ore)
	assert.Less(t, ore, plate)
}

func TestFormatBalance_Empty(t *testing.T) {
	out := stripANSI(FormatBalance(accounting.Balance{}, testutil.NewTestCatalog(), BalanceView{}))

	assert.Contains(t, out, "no item flows")
	assert.Contains(t, out, "0 MW")
}

func TestFormatBalance_UnknownItemFallsBackToID(t *testing.T) {
	b := accounting.Balance{Items: map[catalog.ItemID]float64{"mystery-goo": 5}}
	out := stripANSI(FormatBalance(b, testutil.NewTestCatalog(), BalanceView{}))

	assert.Contains(t, out, "mystery-goo")
}

func TestBalanceSummary(t *testing.T) {
	out := stripANSI(BalanceSummary(demoBalance(), testutil.NewTestCatalog(), 0))

	// Ordered by magnitude; the zero-rate flow never shows in a badge.
	assert.Contains(t, out, "+20 Iron Plate")
	assert.Contains(t, out, "-15 Coal")
	assert.Contains(t, out, "-9 MW")
	assert.NotContains(t, out, "Iron Ore")
	assert.Less(t, strings.Index(out, "Iron Plate"), strings.Index(out, "Coal"))
}

func TestBalanceSummary_CapsItems(t *testing.T) {
	out := stripANSI(BalanceSummary(demoBalance(), testutil.NewTestCatalog(), 1))

	assert.Contains(t, out, "+20 Iron Plate")
	assert.NotContains(t, out, "Coal")
	assert.Contains(t, out, "+1 more")
}

func TestBalanceSummary_PowerOnlyWhenEmpty(t *testing.T) {
	out := stripANSI(BalanceSummary(accounting.Balance{}, testutil.NewTestCatalog(), 3))
	assert.Equal(t, "0 MW", out)

	quiet := accounting.Balance{Items: map[catalog.ItemID]float64{"coal": -15}}
	out = stripANSI(BalanceSummary(quiet, testutil.NewTestCatalog(), 3))
	assert.Equal(t, "-15 Coal", out, "zero power stays out of the badge when items exist")
}
