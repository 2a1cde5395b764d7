package accounting

import (
	"testing"

	"github.com/stretchr/testify/require"

	"factorybook/internal/catalog"
)

// The test catalog mirrors the worked example from the balance display:
// make-x produces 60 X/min eating 30 Y/min at 4 MW, make-y produces
// 30 Y/min at 10 MW. Curves are left nil (linear) unless a test says
// otherwise.
func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New("test-1",
		[]catalog.Item{
			{ID: "x", Name: "Item X"},
			{ID: "y", Name: "Item Y"},
			{ID: "fuel", Name: "Fuel"},
		},
		[]catalog.Recipe{
			{
				ID:          "make-x",
				Name:        "Make X",
				Building:    "Constructor",
				ItemsPerMin: map[catalog.ItemID]float64{"x": 60, "y": -30},
				Power:       catalog.PowerSpec{BaseMW: -4},
			},
			{
				ID:          "make-y",
				Name:        "Make Y",
				Building:    "Constructor",
				ItemsPerMin: map[catalog.ItemID]float64{"y": 30},
				Power:       catalog.PowerSpec{BaseMW: -10},
			},
			{
				ID:          "burn-fuel",
				Name:        "Burn Fuel",
				Building:    "Generator",
				ItemsPerMin: map[catalog.ItemID]float64{"fuel": -15},
				Power:       catalog.PowerSpec{BaseMW: 75, Curve: catalog.MustCurve("base * clock")},
			},
			{
				ID:          "square-draw",
				Name:        "Square Draw",
				Building:    "Particle Accelerator",
				ItemsPerMin: map[catalog.ItemID]float64{"x": 10},
				Power:       catalog.PowerSpec{BaseMW: -16, Curve: catalog.MustCurve("base * pow(clock, 2)")},
			},
			{
				ID:          "fixed-draw",
				Name:        "Fixed Draw",
				Building:    "Extractor",
				ItemsPerMin: map[catalog.ItemID]float64{"x": 30},
				Power:       catalog.PowerSpec{BaseMW: -10, Curve: catalog.MustCurve("base")},
			},
		},
	)
	require.NoError(t, err)
	return c
}

// buildFactory assembles the worked example: root "Factory" holding
// building a (make-x at 100%) and building b (make-y at 100%, 2 copies).
func buildFactory(t *testing.T) (tree *Tree, a, b NodeID) {
	t.Helper()
	tree = NewTree("Factory")

	a, err := tree.NewBuilding("make-x", 100)
	require.NoError(t, err)
	require.NoError(t, tree.InsertChild(tree.Root(), 0, a))

	b, err = tree.NewBuilding("make-y", 100)
	require.NoError(t, err)
	require.NoError(t, tree.InsertChild(tree.Root(), 1, b))
	require.NoError(t, tree.SetCopies(b, 2))
	return tree, a, b
}

// addGroup attaches a fresh group at the end of parent's children.
func addGroup(t *testing.T, tree *Tree, parent NodeID, name string) NodeID {
	t.Helper()
	id := tree.NewGroup(name)
	require.NoError(t, tree.InsertChild(parent, len(tree.Children(parent)), id))
	return id
}

// addBuilding attaches a fresh building at the end of parent's children.
func addBuilding(t *testing.T, tree *Tree, parent NodeID, recipe catalog.RecipeID, clock float64) NodeID {
	t.Helper()
	id, err := tree.NewBuilding(recipe, clock)
	require.NoError(t, err)
	require.NoError(t, tree.InsertChild(parent, len(tree.Children(parent)), id))
	return id
}

// attachedIDs collects every node reachable from the root, preorder.
func attachedIDs(tree *Tree) []NodeID {
	var ids []NodeID
	tree.Walk(func(n Node, _ int) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}

// requireCacheMatchesScratch checks the cache invariant on every attached
// node: the lazily maintained balance must be bit-identical to a scratch
// recomputation.
func requireCacheMatchesScratch(t *testing.T, tree *Tree, cat *catalog.Catalog) {
	t.Helper()
	for _, id := range attachedIDs(tree) {
		cached, err := tree.Balance(id, cat)
		require.NoError(t, err)
		scratch, err := Aggregate(tree, id, cat)
		require.NoError(t, err)
		require.True(t, cached.Equal(scratch), "node %s: cache %+v diverged from scratch %+v", id, cached, scratch)
	}
}
