package tui

import (
	"fmt"
	"strings"

	"factorybook/internal/accounting"
	"factorybook/internal/cli/formatter"
	"factorybook/internal/repository"
	"factorybook/internal/service"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.mode == modeForm && m.form != nil {
		return m.form.View()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderTree())
	b.WriteString("\n")
	if m.mode == modeRename {
		b.WriteString(m.renderRename())
	} else {
		b.WriteString(m.renderBalancePanel())
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderHeader() string {
	title := formatter.StyleHeader.Render(m.sess.WorldName)
	if m.sess.Dirty() {
		title += formatter.StyleYellow.Render(" ●")
	}
	return title + "  " + formatter.Dim("catalog "+m.sess.Catalog().Version())
}

func (m Model) renderTree() string {
	if len(m.rows) == 0 {
		return formatter.Dim("empty world") + "\n"
	}

	start, end := m.offset, m.offset+m.treeHeight()
	if start > len(m.rows) {
		start = len(m.rows)
	}
	if end > len(m.rows) {
		end = len(m.rows)
	}

	items := make([]formatter.TreeItem, 0, end-start)
	for i := start; i < end; i++ {
		r := m.rows[i]
		n, ok := m.sess.Tree().Get(r.id)
		if !ok {
			continue
		}
		items = append(items, formatter.TreeItem{
			Title:     formatter.NodeTitle(n, m.sess.Catalog()),
			Level:     r.depth,
			IsLast:    r.last,
			Group:     n.IsGroup(),
			Collapsed: n.Collapsed,
			Selected:  i == m.cursor,
			Badge:     m.badge(r.id),
		})
	}

	out := formatter.RenderTree(items)
	if start > 0 {
		out = formatter.Dim(fmt.Sprintf("  ↑ %d more", start)) + "\n" + out
	}
	if end < len(m.rows) {
		out += formatter.Dim(fmt.Sprintf("  ↓ %d more", len(m.rows)-end)) + "\n"
	}
	return out
}

func (m Model) badge(id accounting.NodeID) string {
	bal, err := m.sess.Balance(id)
	if err != nil {
		return formatter.StyleRed.Render("!")
	}
	return formatter.BalanceSummary(bal, m.sess.Catalog(), 3)
}

func (m Model) renderBalancePanel() string {
	n, ok := m.selected()
	if !ok {
		return ""
	}
	bal, err := m.sess.Balance(n.ID)
	if err != nil {
		return formatter.StyleRed.Render(err.Error()) + "\n"
	}
	view := formatter.BalanceView{
		HideNeutral: m.settings.HideNeutral,
		ByItem:      m.settings.SortMode == repository.SortItem,
	}
	body := formatter.FormatBalance(bal, m.sess.Catalog(), view)
	return formatter.RenderBox(formatter.NodeTitle(n, m.sess.Catalog()), body) + "\n"
}

func (m Model) renderRename() string {
	return formatter.Bold("Rename: ") + m.rename.View() + "\n" +
		formatter.Dim("enter confirm · esc cancel") + "\n"
}

func (m Model) renderStatusBar() string {
	width := m.width
	if width < 20 {
		width = 20
	}
	sep := formatter.Dim(strings.Repeat("─", width))

	var status string
	switch {
	case m.mode == modeQuit:
		status = formatter.StyleYellow.Render("Unsaved changes. (s)ave and quit · (y) discard · (esc) stay")
	case m.statusErr:
		status = formatter.StyleRed.Render(m.status)
	case m.status != "":
		status = formatter.Dim(m.status)
	}

	out := sep + "\n"
	if status != "" {
		out += status + "\n"
	}
	return out + formatter.Dim(strings.Join(m.hints(), "  "))
}

func (m Model) hints() []string {
	switch m.mode {
	case modeRename:
		return []string{"enter confirm", "esc cancel"}
	case modeQuit:
		return []string{"s save+quit", "y discard", "esc stay"}
	}
	hints := []string{
		"↑↓ move", "←→ fold", "g group", "b building", "e edit",
		"r rename", "c count", "d delete", "J/K reorder",
		"tab in", "s save", "q quit",
	}
	if m.sess.CanUndo() {
		hints = append(hints, "u undo")
	}
	if m.sess.CanRedo() {
		hints = append(hints, "ctrl+r redo")
	}
	return hints
}

func nodeLabelFor(sess *service.Session, n accounting.Node) string {
	return formatter.NodeLabel(n, sess.Catalog())
}
