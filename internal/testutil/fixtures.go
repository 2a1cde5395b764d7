package testutil

import (
	"encoding/json"
	"fmt"

	"factorybook/internal/accounting"
	"factorybook/internal/catalog"
)

// Recipe IDs in the catalog returned by NewTestCatalog.
const (
	RecipeMineIron   catalog.RecipeID = "mine-iron"
	RecipeSmeltPlate catalog.RecipeID = "smelt-plate"
	RecipeBurnCoal   catalog.RecipeID = "burn-coal"
)

// NewTestCatalog returns a small fixed catalog: a miner, a smelter with an
// overclock power curve, and a coal generator.
func NewTestCatalog() *catalog.Catalog {
	items := []catalog.Item{
		{ID: "iron-ore", Name: "Iron Ore"},
		{ID: "iron-plate", Name: "Iron Plate"},
		{ID: "coal", Name: "Coal"},
		{ID: "water", Name: "Water"},
	}
	recipes := []catalog.Recipe{
		{
			ID:       RecipeMineIron,
			Name:     "Mine Iron Ore",
			Building: "Miner",
			ItemsPerMin: map[catalog.ItemID]float64{
				"iron-ore": 30,
			},
			Power: catalog.PowerSpec{BaseMW: -5},
		},
		{
			ID:       RecipeSmeltPlate,
			Name:     "Smelt Iron Plate",
			Building: "Smelter",
			ItemsPerMin: map[catalog.ItemID]float64{
				"iron-ore":   -30,
				"iron-plate": 20,
			},
			Power: catalog.PowerSpec{BaseMW: -4, Curve: catalog.MustCurve("base * pow(clock, 1.6)")},
		},
		{
			ID:       RecipeBurnCoal,
			Name:     "Burn Coal",
			Building: "Coal Generator",
			ItemsPerMin: map[catalog.ItemID]float64{
				"coal":  -15,
				"water": -45,
			},
			Power: catalog.PowerSpec{BaseMW: 75, Curve: catalog.MustCurve("base * clock")},
		},
	}
	cat, err := catalog.New("test", items, recipes)
	if err != nil {
		panic(fmt.Sprintf("building test catalog: %v", err))
	}
	return cat
}

// EmptyWorldDoc returns the serialized document of a world holding only a
// root group with the given name.
func EmptyWorldDoc(name string) json.RawMessage {
	return mustDoc(accounting.NewTree(name))
}

// SmallFactoryDoc returns a serialized two-level factory against
// NewTestCatalog: a miner at the root plus a Smelting group with one smelter.
// Net balance at the root: iron-plate +20, power -9 (ore nets to zero).
func SmallFactoryDoc() json.RawMessage {
	t := accounting.NewTree("Factory")
	addTestBuilding(t, t.Root(), 0, RecipeMineIron)
	grp := t.NewGroup("Smelting")
	if err := t.InsertChild(t.Root(), 1, grp); err != nil {
		panic(fmt.Sprintf("building factory doc: %v", err))
	}
	addTestBuilding(t, grp, 0, RecipeSmeltPlate)
	return mustDoc(t)
}

func addTestBuilding(t *accounting.Tree, parent accounting.NodeID, idx int, recipe catalog.RecipeID) {
	b, err := t.NewBuilding(recipe, 100)
	if err == nil {
		err = t.InsertChild(parent, idx, b)
	}
	if err != nil {
		panic(fmt.Sprintf("building factory doc: %v", err))
	}
}

func mustDoc(t *accounting.Tree) json.RawMessage {
	raw, err := json.Marshal(t.Document())
	if err != nil {
		panic(fmt.Sprintf("marshaling world doc: %v", err))
	}
	return raw
}
