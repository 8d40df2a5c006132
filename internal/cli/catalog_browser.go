package cli

import (
	"strings"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type browserKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Collapse key.Binding
	Filter   key.Binding
	Quit     key.Binding
}

var browserKeys = browserKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:   key.NewBinding(key.WithKeys("enter", " ", "right", "l"), key.WithHelp("enter", "expand")),
	Collapse: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
	Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// catalogNode is one visible row of the browser tree.
type catalogNode struct {
	level int
	class string
	typ   string
	entry *domain.CatalogEntry
	last  bool
}

func (n catalogNode) key() string {
	switch n.level {
	case 0:
		return n.class
	case 1:
		return n.class + domain.PathSeparator + n.typ
	default:
		return n.entry.Path.String()
	}
}

func (n catalogNode) title() string {
	switch n.level {
	case 0:
		return n.class
	case 1:
		return n.typ
	default:
		return n.entry.Path.Name
	}
}

// catalogBrowser is a collapsible class > type > action tree over the cost
// catalog with a preview of the selected action.
type catalogBrowser struct {
	catalog  formatter.CatalogSource
	expanded map[string]bool
	cursor   int
	width    int

	filtering bool
	filter    string
}

func newCatalogBrowser(c formatter.CatalogSource) *catalogBrowser {
	return &catalogBrowser{catalog: c, expanded: make(map[string]bool)}
}

func (m *catalogBrowser) Init() tea.Cmd { return nil }

func (m *catalogBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m *catalogBrowser) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	nodes := m.visibleNodes()

	switch {
	case key.Matches(msg, browserKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, browserKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, browserKeys.Down):
		if m.cursor < len(nodes)-1 {
			m.cursor++
		}
	case key.Matches(msg, browserKeys.Toggle):
		if m.cursor < len(nodes) && nodes[m.cursor].entry == nil {
			k := nodes[m.cursor].key()
			m.expanded[k] = !m.expanded[k]
		}
	case key.Matches(msg, browserKeys.Collapse):
		if m.cursor < len(nodes) {
			m.collapse(nodes[m.cursor])
		}
	case key.Matches(msg, browserKeys.Filter):
		m.filtering = true
		m.filter = ""
		m.cursor = 0
	}
	return m, nil
}

// collapse folds the node under the cursor, or its parent for leaves and
// already folded branches.
func (m *catalogBrowser) collapse(n catalogNode) {
	if n.entry == nil && m.expanded[n.key()] {
		m.expanded[n.key()] = false
		return
	}
	if n.level == 0 {
		return
	}
	parent := catalogNode{level: n.level - 1, class: n.class, typ: n.typ}
	m.expanded[parent.key()] = false
	for i, v := range m.visibleNodes() {
		if v.entry == nil && v.level == parent.level && v.key() == parent.key() {
			m.cursor = i
			return
		}
	}
}

func (m *catalogBrowser) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.filter = ""
		m.cursor = 0
	case tea.KeyEnter:
		m.filtering = false
	case tea.KeyBackspace:
		if len(m.filter) > 0 {
			m.filter = m.filter[:len(m.filter)-1]
			m.cursor = 0
		}
	case tea.KeyCtrlC:
		return m, tea.Quit
	default:
		if len(msg.String()) == 1 {
			m.filter += msg.String()
			m.cursor = 0
		}
	}
	return m, nil
}

// visibleNodes flattens the tree. With a filter, every branch holding a
// matching action is shown expanded.
func (m *catalogBrowser) visibleNodes() []catalogNode {
	needle := strings.ToLower(m.filter)
	var nodes []catalogNode
	classes := m.catalog.Classes()
	for ci, class := range classes {
		var typeNodes []catalogNode
		types := m.catalog.Types(class)
		for ti, t := range types {
			var leaves []catalogNode
			actions := m.catalog.Actions(class, t)
			for ai := range actions {
				e := actions[ai]
				if needle != "" && !strings.Contains(strings.ToLower(e.Path.String()), needle) {
					continue
				}
				leaves = append(leaves, catalogNode{level: 2, class: class, typ: t, entry: &e, last: ai == len(actions)-1})
			}
			if needle != "" && len(leaves) == 0 {
				continue
			}
			tn := catalogNode{level: 1, class: class, typ: t, last: ti == len(types)-1}
			typeNodes = append(typeNodes, tn)
			if needle != "" || m.expanded[tn.key()] {
				typeNodes = append(typeNodes, leaves...)
			}
		}
		if needle != "" && len(typeNodes) == 0 {
			continue
		}
		cn := catalogNode{level: 0, class: class, last: ci == len(classes)-1}
		nodes = append(nodes, cn)
		if needle != "" || m.expanded[cn.key()] {
			nodes = append(nodes, typeNodes...)
		}
	}
	return nodes
}

func (m *catalogBrowser) selected() *domain.CatalogEntry {
	nodes := m.visibleNodes()
	if m.cursor < len(nodes) {
		return nodes[m.cursor].entry
	}
	return nil
}

func (m *catalogBrowser) View() string {
	nodes := m.visibleNodes()

	var b strings.Builder
	b.WriteString("\n")
	if m.filtering || m.filter != "" {
		b.WriteString("  " + formatter.StyleYellow.Render("/") + " " + m.filter)
		if m.filtering {
			b.WriteString("█")
		}
		b.WriteString("\n\n")
	}

	if len(nodes) == 0 {
		b.WriteString("  " + formatter.Dim("No catalog actions match.") + "\n")
		return b.String()
	}

	items := make([]formatter.TreeItem, 0, len(nodes))
	for i, n := range nodes {
		items = append(items, formatter.TreeItem{
			Title:    n.title(),
			Level:    n.level,
			IsLast:   n.last,
			Branch:   n.entry == nil,
			Expanded: m.filter != "" || m.expanded[n.key()],
			Selected: i == m.cursor,
		})
	}
	tree := formatter.RenderTree(items)

	preview := formatter.Dim("Select an action to see its cost.")
	if e := m.selected(); e != nil {
		preview = formatter.FormatCatalogEntry(*e)
	}
	paneWidth := 40
	if m.width > 0 && m.width/2 < paneWidth {
		paneWidth = m.width / 2
	}
	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(formatter.ColorDim).
		Padding(0, 1).
		Width(paneWidth).
		Render(preview)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tree, "  ", pane))
	b.WriteString("\n\n" + formatter.Dim(m.helpLine()) + "\n")
	return b.String()
}

func (m *catalogBrowser) helpLine() string {
	bindings := []key.Binding{browserKeys.Up, browserKeys.Down, browserKeys.Toggle, browserKeys.Collapse, browserKeys.Filter, browserKeys.Quit}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
