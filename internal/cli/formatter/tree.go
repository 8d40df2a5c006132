package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one node of a tree display.
type TreeItem struct {
	Title  string
	Level  int
	IsLast bool
	// Branch marks nodes with children; Expanded picks the ▾/▸ marker.
	Branch   bool
	Expanded bool
	Selected bool
	Detail   string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders items as an indented tree using box-drawing connectors.
// Branches carry an expand marker, the selected item is highlighted and
// detail badges are right-aligned.
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
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		marker := ""
		if item.Branch {
			marker = "▸ "
			if item.Expanded {
				marker = "▾ "
			}
		}

		title := marker + item.Title
		switch {
		case item.Selected:
			title = StyleYellowBold.Render(title)
		case item.Branch:
			title = Bold(title)
		}

		content := StyleDim.Render(prefix) + title
		lines[idx].content = content
		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail))
		}
		maxContentWidth = max(maxContentWidth, lipgloss.Width(content))
	}

	var b strings.Builder
	for _, li := range lines {
		if li.badge == "" {
			b.WriteString(li.content + "\n")
			continue
		}
		pad := max(maxContentWidth-lipgloss.Width(li.content), 0)
		b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
	}
	return b.String()
}
