package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smeltery = `{
  "version": "test-1",
  "items": [
    {"id": "iron-ore", "name": "Iron Ore"},
    {"id": "iron-ingot", "name": "Iron Ingot"},
    {"id": "iron-plate", "name": "Iron Plate"}
  ],
  "recipes": [
    {
      "id": "iron-ingot",
      "name": "Iron Ingot",
      "building": "Smelter",
      "time_secs": 2,
      "ingredients": [{"item": "iron-ore", "amount": 1}],
      "products": [{"item": "iron-ingot", "amount": 1}],
      "power": {"base_mw": -4, "curve": "base * pow(clock, 2)"}
    },
    {
      "id": "iron-plate",
      "name": "Iron Plate",
      "building": "Constructor",
      "time_secs": 6,
      "ingredients": [{"item": "iron-ingot", "amount": 3}],
      "products": [{"item": "iron-plate", "amount": 2}],
      "power": {"base_mw": -4}
    }
  ]
}`

func loadTestCatalog(t *testing.T, src string) *Catalog {
	t.Helper()
	c, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	return c
}

func TestLoad_ConvertsToPerMinuteRates(t *testing.T) {
	c := loadTestCatalog(t, smeltery)

	ingot, err := c.Recipe("iron-ingot")
	require.NoError(t, err)
	assert.Equal(t, "Smelter", ingot.Building)
	assert.Equal(t, map[ItemID]float64{"iron-ore": -30, "iron-ingot": 30}, ingot.ItemsPerMin)

	plate, err := c.Recipe("iron-plate")
	require.NoError(t, err)
	assert.Equal(t, map[ItemID]float64{"iron-ingot": -30, "iron-plate": 20}, plate.ItemsPerMin)
}

func TestLoad_NetsItemsAppearingOnBothSides(t *testing.T) {
	c := loadTestCatalog(t, `{
	  "version": "test-1",
	  "items": [{"id": "water", "name": "Water"}, {"id": "slag", "name": "Slag"}],
	  "recipes": [{
	    "id": "loop",
	    "name": "Loop",
	    "building": "Refinery",
	    "time_secs": 60,
	    "ingredients": [{"item": "water", "amount": 10}, {"item": "slag", "amount": 4}],
	    "products": [{"item": "water", "amount": 10}, {"item": "slag", "amount": 6}],
	    "power": {"base_mw": -30}
	  }]
	}`)

	r, err := c.Recipe("loop")
	require.NoError(t, err)
	assert.Equal(t, map[ItemID]float64{"slag": 2}, r.ItemsPerMin, "exact-zero nets are dropped")
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "missing version",
			src:  `{"items": [], "recipes": []}`,
			want: "no version",
		},
		{
			name: "duplicate item",
			src:  `{"version": "v", "items": [{"id": "a", "name": "A"}, {"id": "a", "name": "A2"}]}`,
			want: `duplicate item "a"`,
		},
		{
			name: "duplicate recipe",
			src: `{"version": "v", "items": [{"id": "a", "name": "A"}], "recipes": [
				{"id": "r", "name": "R", "time_secs": 1, "products": [{"item": "a", "amount": 1}], "power": {}},
				{"id": "r", "name": "R2", "time_secs": 1, "products": [{"item": "a", "amount": 1}], "power": {}}
			]}`,
			want: `duplicate recipe "r"`,
		},
		{
			name: "unknown item reference",
			src: `{"version": "v", "items": [], "recipes": [
				{"id": "r", "name": "R", "time_secs": 1, "products": [{"item": "ghost", "amount": 1}], "power": {}}
			]}`,
			want: "unknown item",
		},
		{
			name: "non-positive time",
			src: `{"version": "v", "items": [{"id": "a", "name": "A"}], "recipes": [
				{"id": "r", "name": "R", "time_secs": 0, "products": [{"item": "a", "amount": 1}], "power": {}}
			]}`,
			want: "time_secs must be positive",
		},
		{
			name: "non-positive amount",
			src: `{"version": "v", "items": [{"id": "a", "name": "A"}], "recipes": [
				{"id": "r", "name": "R", "time_secs": 1, "products": [{"item": "a", "amount": -2}], "power": {}}
			]}`,
			want: "amount must be positive",
		},
		{
			name: "curve does not compile",
			src: `{"version": "v", "items": [{"id": "a", "name": "A"}], "recipes": [
				{"id": "r", "name": "R", "time_secs": 1, "products": [{"item": "a", "amount": 1}],
				 "power": {"base_mw": -1, "curve": "base *"}}
			]}`,
			want: "power curve",
		},
		{
			name: "not json",
			src:  `{"version`,
			want: "parsing catalog",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestCatalog_Lookups(t *testing.T) {
	c := loadTestCatalog(t, smeltery)

	it, ok := c.Item("iron-ore")
	require.True(t, ok)
	assert.Equal(t, "Iron Ore", it.Name)
	assert.Equal(t, 0, it.DisplayOrder)

	_, ok = c.Item("ghost")
	assert.False(t, ok)
	assert.Equal(t, "Iron Plate", c.ItemName("iron-plate"))
	assert.Equal(t, "ghost", c.ItemName("ghost"))

	_, err := c.Recipe("ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownRecipe)

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, ItemID("iron-ore"), items[0].ID)
	assert.Equal(t, ItemID("iron-plate"), items[2].ID)

	recipes := c.Recipes()
	require.Len(t, recipes, 2)
	assert.Equal(t, RecipeID("iron-ingot"), recipes[0].ID)
}

func TestDefault_LoadsAndIsUsable(t *testing.T) {
	c := Default()
	assert.Equal(t, "1.0", c.Version())

	ingot, err := c.Recipe("iron-ingot")
	require.NoError(t, err)
	assert.Equal(t, 30.0, ingot.ItemsPerMin["iron-ingot"])
	assert.Equal(t, -30.0, ingot.ItemsPerMin["iron-ore"])

	burner, err := c.Recipe("burn-coal")
	require.NoError(t, err)
	mw, err := burner.Power.MW(1.0)
	require.NoError(t, err)
	assert.Equal(t, 75.0, mw)
	assert.Equal(t, -15.0, burner.ItemsPerMin["coal"])
	assert.Equal(t, -45.0, burner.ItemsPerMin["water"])
}
