package tui

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factorybook/internal/accounting"
	"factorybook/internal/repository"
	"factorybook/internal/service"
	"factorybook/internal/teatest"
	"factorybook/internal/testutil"
)

// fixtureWorld stores the two-building factory fixture and opens a session
// on it through the real service stack.
func fixtureWorld(t *testing.T) (service.WorldService, *service.Session) {
	t.Helper()
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	worlds := service.NewWorldService(
		repository.NewSQLiteWorldRepo(database),
		repository.NewSQLiteSettingsRepo(database),
		testutil.NewTestUoW(database),
		testutil.NewTestCatalog(),
	)

	now := time.Now().UTC()
	require.NoError(t, repository.NewSQLiteWorldRepo(database).Create(ctx, &repository.StoredWorld{
		ID:             uuid.New().String(),
		Name:           "Factory",
		CatalogVersion: "test",
		Doc:            testutil.SmallFactoryDoc(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}))

	sess, err := worlds.Open(ctx, "Factory")
	require.NoError(t, err)
	return worlds, sess
}

func fixtureDriver(t *testing.T) (*teatest.Driver, *service.Session, service.WorldService) {
	t.Helper()
	worlds, sess := fixtureWorld(t)
	d := teatest.New(t, New(sess, worlds, repository.DefaultSettings()), teatest.WithSize(100, 40))
	d.DrainInit()
	return d, sess, worlds
}

func modelState(d *teatest.Driver) Model {
	return d.Model.(Model)
}

func nodeAt(t *testing.T, d *teatest.Driver, idx int) accounting.Node {
	t.Helper()
	m := modelState(d)
	require.Less(t, idx, len(m.rows))
	n, ok := m.sess.Tree().Get(m.rows[idx].id)
	require.True(t, ok)
	return n
}

func TestModel_InitialView(t *testing.T) {
	d, sess, _ := fixtureDriver(t)

	view := d.View()
	assert.Contains(t, view, "▾ Factory")
	assert.Contains(t, view, "Mine Iron Ore")
	assert.Contains(t, view, "▾ Smelting")
	assert.Contains(t, view, "Smelt Iron Plate")
	assert.Contains(t, view, "catalog test")

	// Root badge nets the whole factory.
	assert.Contains(t, view, "+20 Iron Plate")
	assert.Contains(t, view, "-9 MW")

	// Balance panel for the selected root.
	assert.Contains(t, view, "PER MIN")
	assert.Contains(t, view, "Power")

	assert.Equal(t, 0, modelState(d).cursor)
	assert.False(t, sess.Dirty())
}

func TestModel_Navigation(t *testing.T) {
	d, _, _ := fixtureDriver(t)

	d.PressDown()
	d.PressKey('j')
	assert.Equal(t, 2, modelState(d).cursor)

	d.PressKey('k')
	assert.Equal(t, 1, modelState(d).cursor)

	d.PressUp()
	d.PressUp()
	assert.Equal(t, 0, modelState(d).cursor)

	for i := 0; i < 6; i++ {
		d.PressDown()
	}
	assert.Equal(t, 3, modelState(d).cursor)
}

func TestModel_CollapseAndExpand(t *testing.T) {
	d, sess, _ := fixtureDriver(t)

	d.PressDown()
	d.PressDown() // Smelting
	d.PressKey('h')

	view := d.View()
	assert.Contains(t, view, "▸ Smelting")
	assert.NotContains(t, view, "Smelt Iron Plate")
	assert.Len(t, modelState(d).rows, 3)
	assert.True(t, sess.Dirty())

	// The folded group's badge still carries the whole subtree.
	assert.Contains(t, view, "+20 Iron Plate")

	d.PressKey('l')
	assert.Len(t, modelState(d).rows, 4)
	assert.Contains(t, d.View(), "Smelt Iron Plate")
}

func TestModel_LeftOnLeafJumpsToParent(t *testing.T) {
	d, _, _ := fixtureDriver(t)

	d.PressDown() // miner
	d.PressKey('h')
	assert.Equal(t, 0, modelState(d).cursor)

	for i := 0; i < 3; i++ {
		d.PressDown()
	}
	d.PressKey('h') // smelter ascends to Smelting
	assert.Equal(t, 2, modelState(d).cursor)
	assert.Equal(t, "Smelting", nodeAt(t, d, modelState(d).cursor).Name)
}

func TestModel_AddGroupStartsRename(t *testing.T) {
	d, sess, _ := fixtureDriver(t)
	root := sess.Tree().Root()

	d.PressKey('g')
	assert.Equal(t, modeRename, modelState(d).mode)

	children := sess.Tree().Children(root)
	require.Len(t, children, 3)

	d.SendKey(tea.KeyMsg{Type: tea.KeyCtrlU})
	d.Type("Logistics")
	d.PressEnter()

	assert.Equal(t, modeTree, modelState(d).mode)
	n, ok := sess.Tree().Get(children[2])
	require.True(t, ok)
	assert.Equal(t, "Logistics", n.Name)
	assert.Contains(t, d.View(), `Renamed to "Logistics"`)
}

func TestModel_AddGroupEscKeepsDefaultName(t *testing.T) {
	d, sess, _ := fixtureDriver(t)
	root := sess.Tree().Root()

	d.PressDown() // miner selected -> group lands at the end of the root
	d.PressKey('g')
	d.PressEsc()

	children := sess.Tree().Children(root)
	require.Len(t, children, 3)
	n, ok := sess.Tree().Get(children[2])
	require.True(t, ok)
	assert.Equal(t, "New Group", n.Name)
	assert.Equal(t, modeTree, modelState(d).mode)
}

func TestModel_RenameEscCancels(t *testing.T) {
	d, sess, _ := fixtureDriver(t)

	d.PressDown()
	d.PressDown() // Smelting
	d.PressKey('r')
	assert.Equal(t, modeRename, modelState(d).mode)

	d.Type("XYZ")
	d.PressEsc()

	assert.Equal(t, modeTree, modelState(d).mode)
	assert.Equal(t, "Smelting", nodeAt(t, d, 2).Name)
	assert.False(t, sess.CanUndo())
}

func TestModel_RenameBuildingRefused(t *testing.T) {
	d, _, _ := fixtureDriver(t)

	d.PressDown() // miner
	d.PressKey('r')

	m := modelState(d)
	assert.Equal(t, modeTree, m.mode)
	assert.True(t, m.statusErr)
	assert.Contains(t, d.View(), "only groups can be renamed")
}

func TestModel_RenameEmptyRejected(t *testing.T) {
	d, _, _ := fixtureDriver(t)

	d.PressDown()
	d.PressDown()
	d.PressKey('r')
	d.SendKey(tea.KeyMsg{Type: tea.KeyCtrlU})
	d.PressEnter()

	m := modelState(d)
	assert.Equal(t, modeRename, m.mode)
	assert.Contains(t, d.View(), "name cannot be empty")

	d.PressEsc()
	assert.Equal(t, "Smelting", nodeAt(t, d, 2).Name)
}

func TestModel_BuildingFormOpensAndCancels(t *testing.T) {
	d, sess, _ := fixtureDriver(t)
	root := sess.Tree().Root()

	d.PressKey('b')
	assert.Equal(t, modeForm, modelState(d).mode)

	view := d.View()
	assert.Contains(t, view, "Recipe")
	assert.Contains(t, view, "Clock (%)")
	assert.Contains(t, view, "Count")
	assert.Contains(t, view, "Mine Iron Ore (Miner)")

	d.PressEsc()
	m := modelState(d)
	assert.Equal(t, modeTree, m.mode)
	assert.Nil(t, m.form)
	assert.Len(t, sess.Tree().Children(root), 2)
}

func TestModel_BuildingFormAddWithDefaults(t *testing.T) {
	d, sess, _ := fixtureDriver(t)
	root := sess.Tree().Root()

	d.PressKey('b')
	require.Equal(t, modeForm, modelState(d).mode)

	d.PressEnter() // recipe: first option
	d.PressEnter() // clock: 100
	d.PressEnter() // count: 1, completes

	m := modelState(d)
	assert.Equal(t, modeTree, m.mode)

	children := sess.Tree().Children(root)
	require.Len(t, children, 3)
	n, ok := sess.Tree().Get(children[2])
	require.True(t, ok)
	assert.True(t, n.IsBuilding())
	assert.Equal(t, testutil.RecipeMineIron, n.Recipe)
	assert.Equal(t, 100.0, n.Clock)

	// Selection lands on the new building.
	assert.Equal(t, 4, m.cursor)
	assert.Contains(t, d.View(), "Added building Mine Iron Ore")
}

func TestModel_EditBuildingClock(t *testing.T) {
	d, sess, _ := fixtureDriver(t)

	for i := 0; i < 3; i++ {
		d.PressDown()
	}
	smelter := nodeAt(t, d, 3)
	require.True(t, smelter.IsBuilding())

	d.PressKey('e')
	require.Equal(t, modeForm, modelState(d).mode)

	d.PressEnter() // keep recipe
	d.SendKey(tea.KeyMsg{Type: tea.KeyCtrlU})
	d.Type("50")
	d.PressEnter() // clock
	d.PressEnter() // count, completes

	assert.Equal(t, modeTree, modelState(d).mode)
	n, ok := sess.Tree().Get(smelter.ID)
	require.True(t, ok)
	assert.Equal(t, 50.0, n.Clock)
	assert.Contains(t, d.View(), "Updated building")
	assert.Contains(t, d.View(), "@ 50%")
}

func TestModel_CopiesForm(t *testing.T) {
	d, sess, _ := fixtureDriver(t)

	d.PressDown() // miner
	miner := nodeAt(t, d, 1)

	d.PressKey('c')
	require.Equal(t, modeForm, modelState(d).mode)
	assert.Contains(t, d.View(), "Count for Mine Iron Ore")

	d.SendKey(tea.KeyMsg{Type: tea.KeyCtrlU})
	d.Type("3")
	d.PressEnter()

	assert.Equal(t, modeTree, modelState(d).mode)
	n, ok := sess.Tree().Get(miner.ID)
	require.True(t, ok)
	assert.Equal(t, 3.0, n.Copies)

	view := d.View()
	assert.Contains(t, view, "Set count to ×3")
	assert.Contains(t, view, "Mine Iron Ore ×3")
	assert.Contains(t, view, "+90 Iron Ore")
}

func TestModel_RemoveUndoRedo(t *testing.T) {
	d, _, _ := fixtureDriver(t)

	d.PressKey('u')
	assert.Contains(t, d.View(), "Nothing to undo")

	d.PressDown() // miner
	d.PressKey('d')
	assert.Len(t, modelState(d).rows, 3)
	assert.Contains(t, d.View(), `Removed "Mine Iron Ore"`)

	d.PressKey('u')
	assert.Len(t, modelState(d).rows, 4)
	assert.Contains(t, d.View(), "Undid last edit")

	d.SendKey(tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Len(t, modelState(d).rows, 3)
	assert.Contains(t, d.View(), "Redid last edit")
}

func TestModel_RemoveRootRefused(t *testing.T) {
	d, _, _ := fixtureDriver(t)

	d.PressKey('d')

	m := modelState(d)
	assert.True(t, m.statusErr)
	assert.Len(t, m.rows, 4)
	assert.Contains(t, d.View(), "root cannot be removed")
}

func TestModel_ReorderSiblings(t *testing.T) {
	d, sess, _ := fixtureDriver(t)
	root := sess.Tree().Root()

	d.PressDown()
	d.PressDown() // Smelting at index 1
	smelting := nodeAt(t, d, 2)

	d.PressKey('K')
	assert.Equal(t, smelting.ID, sess.Tree().Children(root)[0])
	assert.Equal(t, 1, modelState(d).cursor) // follows the node

	d.PressKey('K') // already first, no-op
	assert.Equal(t, smelting.ID, sess.Tree().Children(root)[0])

	d.PressKey('J')
	assert.Equal(t, smelting.ID, sess.Tree().Children(root)[1])
}

func TestModel_OutdentAndIndent(t *testing.T) {
	d, sess, _ := fixtureDriver(t)
	root := sess.Tree().Root()

	for i := 0; i < 3; i++ {
		d.PressDown()
	}
	smelter := nodeAt(t, d, 3)

	d.SendKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, root, sess.Tree().Parent(smelter.ID))
	assert.Equal(t, smelter.ID, sess.Tree().Children(root)[2])

	// Back in: the sibling above is the Smelting group.
	d.SendKey(tea.KeyMsg{Type: tea.KeyTab})
	smelting := sess.Tree().Children(root)[1]
	assert.Equal(t, smelting, sess.Tree().Parent(smelter.ID))
}

func TestModel_IndentWithoutSiblingAboveFails(t *testing.T) {
	d, sess, _ := fixtureDriver(t)
	root := sess.Tree().Root()

	d.PressDown() // miner at index 0
	miner := nodeAt(t, d, 1)

	d.SendKey(tea.KeyMsg{Type: tea.KeyTab})

	m := modelState(d)
	assert.True(t, m.statusErr)
	assert.Contains(t, d.View(), "no sibling above")
	assert.Equal(t, root, sess.Tree().Parent(miner.ID))
}

func TestModel_IndentIntoBuildingFails(t *testing.T) {
	d, sess, _ := fixtureDriver(t)
	root := sess.Tree().Root()

	d.PressDown()
	d.PressDown() // Smelting, sibling above is the miner
	smelting := nodeAt(t, d, 2)

	d.SendKey(tea.KeyMsg{Type: tea.KeyTab})

	assert.True(t, modelState(d).statusErr)
	assert.Equal(t, root, sess.Tree().Parent(smelting.ID))
}

func TestModel_QuitCleanExitsImmediately(t *testing.T) {
	d, _, _ := fixtureDriver(t)

	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestModel_QuitPromptSaves(t *testing.T) {
	d, _, worlds := fixtureDriver(t)

	d.PressDown()
	d.PressKey('d') // dirty now
	d.PressKey('q')

	assert.Equal(t, modeQuit, modelState(d).mode)
	assert.Contains(t, d.View(), "Unsaved changes")

	d.PressEsc() // stay
	assert.Equal(t, modeTree, modelState(d).mode)
	assert.False(t, d.Quitting)

	d.PressKey('q')
	d.PressKey('s') // save and quit
	assert.True(t, d.Quitting)

	sess, err := worlds.Open(context.Background(), "Factory")
	require.NoError(t, err)
	assert.Len(t, sess.Tree().Children(sess.Tree().Root()), 1)
}

func TestModel_QuitPromptDiscards(t *testing.T) {
	d, _, worlds := fixtureDriver(t)

	d.PressDown()
	d.PressKey('d')
	d.PressKey('q')
	d.PressKey('y')

	assert.True(t, d.Quitting)

	sess, err := worlds.Open(context.Background(), "Factory")
	require.NoError(t, err)
	assert.Len(t, sess.Tree().Children(sess.Tree().Root()), 2)
}

func TestModel_SaveKey(t *testing.T) {
	d, sess, worlds := fixtureDriver(t)

	d.PressDown()
	d.PressKey('d')
	require.True(t, sess.Dirty())

	d.PressKey('s')
	assert.Contains(t, d.View(), "Saved")
	assert.False(t, sess.Dirty())

	reopened, err := worlds.Open(context.Background(), "Factory")
	require.NoError(t, err)
	assert.Len(t, reopened.Tree().Children(reopened.Tree().Root()), 1)
}

func TestModel_HideNeutralToggle(t *testing.T) {
	d, _, _ := fixtureDriver(t)

	// Fold the root so only the balance panel mentions ore: mined and
	// smelted cancel to a neutral flow.
	d.PressKey('h')
	require.Len(t, modelState(d).rows, 1)
	assert.Contains(t, d.View(), "Iron Ore")

	d.PressKey('n')
	assert.NotContains(t, d.View(), "Iron Ore")

	d.PressKey('n')
	assert.Contains(t, d.View(), "Iron Ore")
}

func TestModel_ScrollWindow(t *testing.T) {
	worlds, sess := fixtureWorld(t)
	ctx := context.Background()
	root := sess.Tree().Root()
	for i := 0; i < 10; i++ {
		_, err := sess.AddGroup(ctx, root, 2+i, fmt.Sprintf("Yard %d", i))
		require.NoError(t, err)
	}

	d := teatest.New(t, New(sess, worlds, repository.DefaultSettings()), teatest.WithSize(100, 24))
	d.DrainInit()

	require.Len(t, modelState(d).rows, 14)
	view := d.View()
	assert.Contains(t, view, "↓ 6 more")
	assert.Contains(t, view, "Yard 0")
	assert.NotContains(t, view, "Yard 9")

	for i := 0; i < 13; i++ {
		d.PressDown()
	}
	view = d.View()
	assert.Contains(t, view, "↑ 6 more")
	assert.Contains(t, view, "Yard 9")
	assert.NotContains(t, view, "Mine Iron Ore")
}

func TestModel_EmptyWorld(t *testing.T) {
	worlds, _ := fixtureWorld(t)
	sess, err := worlds.Create(context.Background(), "Blank")
	require.NoError(t, err)

	d := teatest.New(t, New(sess, worlds, repository.DefaultSettings()), teatest.WithSize(100, 40))
	d.DrainInit()

	require.Len(t, modelState(d).rows, 1)
	d.PressDown()
	assert.Equal(t, 0, modelState(d).cursor)

	view := d.View()
	assert.Contains(t, view, "▾ Blank")
	assert.Contains(t, view, "no item flows")
}
