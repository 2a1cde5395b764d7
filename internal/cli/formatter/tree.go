package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one rendered node: a group heading or a building line.
type TreeItem struct {
	Title     string
	Level     int
	IsLast    bool
	Group     bool
	Collapsed bool // collapsed group; its children are not in the list
	Selected  bool
	Badge     string // per-node balance summary, right-aligned
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders TreeItems as an indented tree using box-drawing
// connectors. Groups are bold with a fold marker, buildings are plain, and
// badges are right-aligned past the widest line.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	for idx, item := range items {
		var prefix string
		if item.Level > 0 {
			for i := 1; i < item.Level; i++ {
				prefix += treePipe
			}
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		if item.Group {
			marker := "▾ "
			if item.Collapsed {
				marker = "▸ "
			}
			if item.Selected {
				title = StyleYellowBold.Render(marker + title)
			} else {
				title = Bold(marker + title)
			}
		} else if item.Selected {
			title = StyleYellowBold.Render(title)
		}

		content := Dim(prefix) + title
		lines[idx].content = content
		lines[idx].badge = item.Badge

		if w := lipgloss.Width(content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	var b strings.Builder
	for _, li := range lines {
		if li.badge != "" {
			pad := maxContentWidth - lipgloss.Width(li.content)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
		} else {
			b.WriteString(li.content + "\n")
		}
	}

	return b.String()
}
