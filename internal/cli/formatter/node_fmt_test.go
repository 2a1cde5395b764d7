package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"factorybook/internal/accounting"
	"factorybook/internal/testutil"
)

func TestNodeLabel(t *testing.T) {
	cat := testutil.NewTestCatalog()

	group := accounting.Node{Kind: accounting.KindGroup, Name: "Smelting"}
	assert.Equal(t, "Smelting", NodeLabel(group, cat))

	building := accounting.Node{Kind: accounting.KindBuilding, Recipe: "mine-iron"}
	assert.Equal(t, "Mine Iron Ore", NodeLabel(building, cat))

	unset := accounting.Node{Kind: accounting.KindBuilding}
	assert.Equal(t, "(no recipe)", NodeLabel(unset, cat))

	// Unknown recipes fall back to the raw id.
	stale := accounting.Node{Kind: accounting.KindBuilding, Recipe: "legacy-recipe"}
	assert.Equal(t, "legacy-recipe", NodeLabel(stale, cat))
}

func TestNodeTitle(t *testing.T) {
	cat := testutil.NewTestCatalog()

	plain := accounting.Node{Kind: accounting.KindBuilding, Recipe: "mine-iron", Clock: 100, Copies: 1}
	assert.Equal(t, "Mine Iron Ore", NodeTitle(plain, cat))

	tuned := accounting.Node{Kind: accounting.KindBuilding, Recipe: "smelt-plate", Clock: 62.5, Copies: 3}
	assert.Equal(t, "Smelt Iron Plate @ 62.5% ×3", NodeTitle(tuned, cat))

	// Groups show the count but never a clock.
	yard := accounting.Node{Kind: accounting.KindGroup, Name: "Yard", Clock: 50, Copies: 2}
	assert.Equal(t, "Yard ×2", NodeTitle(yard, cat))
}
