package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"factorybook/internal/accounting"
	"factorybook/internal/repository"
	"factorybook/internal/service"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

type mode int

const (
	modeTree mode = iota
	modeRename
	modeForm
	modeQuit
)

// row is one visible line of the tree. Children of collapsed groups are
// not flattened.
type row struct {
	id    accounting.NodeID
	depth int
	last  bool
}

// Model is the full-screen world editor. Every edit routes through the
// session so undo history and the dirty flag stay consistent; rendering
// only ever reads cached balances.
type Model struct {
	sess     *service.Session
	worlds   service.WorldService
	settings repository.Settings

	rows   []row
	cursor int
	offset int

	mode     mode
	rename   textinput.Model
	renameID accounting.NodeID
	form     *huh.Form
	formDone func() (formResult, error)

	status    string
	statusErr bool

	width  int
	height int

	quitting bool
}

// formResult carries what a completed form changed: the node to select and
// the confirmation to show.
type formResult struct {
	selectID accounting.NodeID
	msg      string
}

func New(sess *service.Session, worlds service.WorldService, settings repository.Settings) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 120

	m := Model{
		sess:     sess,
		worlds:   worlds,
		settings: settings,
		rename:   ti,
	}
	m.rows = flattenRows(sess.Tree())
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.clampScroll()
	}

	switch m.mode {
	case modeQuit:
		if key, ok := msg.(tea.KeyMsg); ok {
			return m.updateQuitPrompt(key)
		}
		return m, nil
	case modeRename:
		return m.updateRename(msg)
	case modeForm:
		return m.updateForm(msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		return m.updateTree(key)
	}
	return m, nil
}

func (m Model) updateTree(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "ctrl+c":
		if m.sess.Dirty() {
			m.mode = modeQuit
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.clearStatus()
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.clearStatus()
		}
	case "right", "l":
		m.expand()
	case "left", "h":
		m.collapseOrAscend()
	case "enter", " ":
		return m.openSelected()

	case "g":
		return m.addGroup()
	case "b":
		return m.openBuildingForm(false)
	case "e":
		return m.editSelected()
	case "r":
		return m.startRename()
	case "c":
		return m.openCopiesForm()
	case "d":
		m.removeSelected()

	case "J", "shift+down":
		m.reorderBy(1)
	case "K", "shift+up":
		m.reorderBy(-1)
	case "tab":
		m.indent()
	case "shift+tab":
		m.outdent()

	case "u":
		m.undo()
	case "ctrl+r":
		m.redo()
	case "s":
		m.save()
	case "n":
		m.settings.HideNeutral = !m.settings.HideNeutral
	}

	m.clampScroll()
	return m, nil
}

func (m Model) updateQuitPrompt(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "s":
		if err := m.worlds.Save(context.Background(), m.sess); err != nil {
			m.mode = modeTree
			m.setError(err)
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case "y":
		m.quitting = true
		return m, tea.Quit
	case "esc", "n":
		m.mode = modeTree
		m.clearStatus()
	}
	return m, nil
}

func (m Model) updateRename(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			name := strings.TrimSpace(m.rename.Value())
			if name == "" {
				m.setError(errors.New("name cannot be empty"))
				return m, nil
			}
			if err := m.sess.SetName(context.Background(), m.renameID, name); err != nil {
				m.setError(err)
				return m, nil
			}
			m.mode = modeTree
			m.setStatus(fmt.Sprintf("Renamed to %q", name))
			return m, nil
		case tea.KeyEsc:
			m.mode = modeTree
			m.clearStatus()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.mode = modeTree
		m.form = nil
		m.formDone = nil
		m.clearStatus()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		done := m.formDone
		m.mode = modeTree
		m.form = nil
		m.formDone = nil
		if done != nil {
			res, err := done()
			if err != nil {
				m.setError(err)
			} else {
				m.setStatus(res.msg)
				m.refreshSelect(res.selectID)
				m.clampScroll()
				return m, nil
			}
		}
		m.refresh()
		m.clampScroll()
	}
	return m, cmd
}

// --- tree edits ---

func (m *Model) selected() (accounting.Node, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return accounting.Node{}, false
	}
	return m.sess.Tree().Get(m.rows[m.cursor].id)
}

func (m *Model) expand() {
	n, ok := m.selected()
	if !ok || !n.IsGroup() || !n.Collapsed {
		return
	}
	if err := m.sess.SetCollapsed(n.ID, false); err != nil {
		m.setError(err)
		return
	}
	m.refreshSelect(n.ID)
}

// collapseOrAscend folds the selected group, or jumps to the parent when
// there is nothing left to fold.
func (m *Model) collapseOrAscend() {
	n, ok := m.selected()
	if !ok {
		return
	}
	if n.IsGroup() && !n.Collapsed && n.ChildCount() > 0 {
		if err := m.sess.SetCollapsed(n.ID, true); err != nil {
			m.setError(err)
			return
		}
		m.refreshSelect(n.ID)
		return
	}
	if parent := m.sess.Tree().Parent(n.ID); parent != "" {
		m.refreshSelect(parent)
	}
}

func (m Model) openSelected() (tea.Model, tea.Cmd) {
	n, ok := m.selected()
	if !ok {
		return m, nil
	}
	if n.IsBuilding() {
		return m.openBuildingForm(true)
	}
	if n.Collapsed {
		m.expand()
	} else if n.ChildCount() > 0 {
		m.collapseOrAscend()
	}
	m.clampScroll()
	return m, nil
}

// insertTarget decides where new nodes go: into the selected group, or
// after nothing in particular at the end of the selected node's parent.
func (m *Model) insertTarget() (accounting.NodeID, int) {
	t := m.sess.Tree()
	n, ok := m.selected()
	if !ok {
		return t.Root(), len(t.Children(t.Root()))
	}
	if n.IsGroup() {
		return n.ID, n.ChildCount()
	}
	parent := t.Parent(n.ID)
	if parent == "" {
		parent = t.Root()
	}
	return parent, len(t.Children(parent))
}

func (m Model) addGroup() (tea.Model, tea.Cmd) {
	parent, idx := m.insertTarget()
	id, err := m.sess.AddGroup(context.Background(), parent, idx, "New Group")
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.refreshSelect(id)
	m.clampScroll()
	return m.startRename()
}

func (m Model) editSelected() (tea.Model, tea.Cmd) {
	n, ok := m.selected()
	if !ok {
		return m, nil
	}
	if n.IsBuilding() {
		return m.openBuildingForm(true)
	}
	return m.startRename()
}

func (m Model) startRename() (tea.Model, tea.Cmd) {
	n, ok := m.selected()
	if !ok {
		return m, nil
	}
	if !n.IsGroup() {
		m.setError(errors.New("only groups can be renamed; buildings take their name from the recipe"))
		return m, nil
	}
	m.renameID = n.ID
	m.rename.SetValue(n.Name)
	m.rename.CursorEnd()
	m.mode = modeRename
	m.clearStatus()
	return m, m.rename.Focus()
}

func (m *Model) removeSelected() {
	n, ok := m.selected()
	if !ok {
		return
	}
	parent, idx, ok := m.sess.Tree().Slot(n.ID)
	if !ok {
		m.setError(errors.New("the root cannot be removed"))
		return
	}
	label := nodeLabelFor(m.sess, n)
	if err := m.sess.Remove(context.Background(), parent, idx); err != nil {
		m.setError(err)
		return
	}
	m.refreshSelect(parent)
	m.setStatus(fmt.Sprintf("Removed %q", label))
}

func (m *Model) reorderBy(delta int) {
	n, ok := m.selected()
	if !ok {
		return
	}
	parent, from, ok := m.sess.Tree().Slot(n.ID)
	if !ok {
		return
	}
	to := from + delta
	if to < 0 || to >= len(m.sess.Tree().Children(parent)) {
		return
	}
	if err := m.sess.Reorder(context.Background(), parent, from, to); err != nil {
		m.setError(err)
		return
	}
	m.refreshSelect(n.ID)
}

// indent moves the selected node into the sibling directly above it.
func (m *Model) indent() {
	n, ok := m.selected()
	if !ok {
		return
	}
	t := m.sess.Tree()
	parent, idx, ok := t.Slot(n.ID)
	if !ok {
		m.setError(errors.New("the root cannot be moved"))
		return
	}
	if idx == 0 {
		m.setError(errors.New("no sibling above to move into"))
		return
	}
	dest := t.Children(parent)[idx-1]
	if err := m.sess.Move(context.Background(), parent, idx, dest, len(t.Children(dest))); err != nil {
		m.setError(err)
		return
	}
	m.refreshSelect(n.ID)
}

// outdent moves the selected node up next to its parent.
func (m *Model) outdent() {
	n, ok := m.selected()
	if !ok {
		return
	}
	t := m.sess.Tree()
	parent, idx, ok := t.Slot(n.ID)
	if !ok {
		m.setError(errors.New("the root cannot be moved"))
		return
	}
	grand, parentIdx, ok := t.Slot(parent)
	if !ok {
		m.setError(errors.New("already at the top level"))
		return
	}
	if err := m.sess.Move(context.Background(), parent, idx, grand, parentIdx+1); err != nil {
		m.setError(err)
		return
	}
	m.refreshSelect(n.ID)
}

func (m *Model) undo() {
	err := m.sess.Undo(context.Background())
	switch {
	case errors.Is(err, service.ErrNothingToUndo):
		m.setStatus("Nothing to undo")
	case err != nil:
		m.setError(err)
	default:
		m.refresh()
		m.setStatus("Undid last edit")
	}
}

func (m *Model) redo() {
	err := m.sess.Redo(context.Background())
	switch {
	case errors.Is(err, service.ErrNothingToRedo):
		m.setStatus("Nothing to redo")
	case err != nil:
		m.setError(err)
	default:
		m.refresh()
		m.setStatus("Redid last edit")
	}
}

func (m *Model) save() {
	if err := m.worlds.Save(context.Background(), m.sess); err != nil {
		m.setError(err)
		return
	}
	m.setStatus("Saved")
}

// --- row bookkeeping ---

func flattenRows(t *accounting.Tree) []row {
	var rows []row
	t.Walk(func(n accounting.Node, depth int) bool {
		rows = append(rows, row{id: n.ID, depth: depth, last: lastSibling(t, n.ID)})
		return !(n.IsGroup() && n.Collapsed)
	})
	return rows
}

func lastSibling(t *accounting.Tree, id accounting.NodeID) bool {
	parent := t.Parent(id)
	if parent == "" {
		return true
	}
	siblings := t.Children(parent)
	return len(siblings) > 0 && siblings[len(siblings)-1] == id
}

// refresh reflattens after an edit, keeping the selection on the same node
// when it still exists.
func (m *Model) refresh() {
	var keep accounting.NodeID
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		keep = m.rows[m.cursor].id
	}
	m.refreshSelect(keep)
}

func (m *Model) refreshSelect(id accounting.NodeID) {
	m.rows = flattenRows(m.sess.Tree())
	for i, r := range m.rows {
		if r.id == id {
			m.cursor = i
			return
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// clampScroll keeps the cursor inside the visible tree window.
func (m *Model) clampScroll() {
	avail := m.treeHeight()
	if avail <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+avail {
		m.offset = m.cursor - avail + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// treeHeight is the number of tree lines that fit above the balance panel
// and status bar. Before the first WindowSizeMsg everything renders.
func (m Model) treeHeight() int {
	if m.height == 0 {
		return len(m.rows)
	}
	h := m.height - 16
	if h < 5 {
		h = 5
	}
	return h
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}
