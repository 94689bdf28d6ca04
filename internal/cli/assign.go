package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tilemarks/tilemarks/pkg/bookmarks"
	"github.com/tilemarks/tilemarks/pkg/drag"
	"github.com/tilemarks/tilemarks/pkg/groups"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// assignCommand creates the assign command: an interactive picker that drags
// bookmarks from an export file onto groups.
func (c *CLI) assignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <bookmarks.json>",
		Short: "Interactively drag bookmarks onto groups",
		Long: `Interactively drag bookmarks onto groups.

Pick a bookmark to start dragging it; while the pick list of groups is
open, enrichment runs in the background. Dropping on a group attaches the
link, duplicates are rejected, and escape cancels the drag.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, kv, err := c.openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer kv.Close()

			root, err := bookmarks.NewFileSource(args[0]).Tree(cmd.Context())
			if err != nil {
				return err
			}
			links := root.Links()
			if len(links) == 0 {
				printInfo("No links in %s", args[0])
				return nil
			}
			if store.Len() == 0 {
				printInfo("No groups to drop onto")
				printNextStep("Create one", "tilemarks groups add <name>")
				return nil
			}

			ctl := drag.NewController(store, c.newEnricher(cfg), c.Logger)
			model := newAssignModel(cmd.Context(), ctl, store, links)

			final, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(assignModel); ok && m.attached > 0 {
				printSuccess("Attached %d links", m.attached)
			}
			return nil
		},
	}
}

// =============================================================================
// AssignModel - Interactive drag and drop
// =============================================================================

// assignPhase tracks which list the picker is showing.
type assignPhase int

const (
	phasePickBookmark assignPhase = iota
	phasePickGroup
)

// assignModel is the bubbletea model for drag-and-drop assignment.
type assignModel struct {
	ctx   context.Context
	ctl   *drag.Controller
	store *groups.Store

	links  []*bookmarks.Node
	groups []groups.BookmarkGroup

	phase    assignPhase
	cursor   int
	offset   int
	height   int
	status   string
	attached int
}

// newAssignModel creates the picker over the given links and store.
func newAssignModel(ctx context.Context, ctl *drag.Controller, store *groups.Store, links []*bookmarks.Node) assignModel {
	return assignModel{
		ctx:    ctx,
		ctl:    ctl,
		store:  store,
		links:  links,
		groups: store.Groups(),
		height: 15,
	}
}

func (m assignModel) Init() tea.Cmd {
	return nil
}

func (m assignModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.ctl.Cancel()
			return m, tea.Quit
		case "esc":
			if m.phase == phasePickGroup {
				m.ctl.Cancel()
				m.phase = phasePickBookmark
				m.cursor, m.offset = 0, 0
				m.status = "Drag cancelled"
				return m, nil
			}
			m.ctl.Cancel()
			return m, tea.Quit
		case "up", "k":
			m.moveCursor(-1)
		case "down", "j":
			m.moveCursor(1)
		case "enter":
			return m.confirm()
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

// moveCursor shifts the selection, keeping it inside the scroll window, and
// reports hover targets while a drag is active.
func (m *assignModel) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if max := m.listLen() - 1; m.cursor > max {
		m.cursor = max
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}

	if m.phase == phasePickGroup {
		m.ctl.Hover(m.groups[m.cursor].ID)
	}
}

// confirm handles enter for the current phase.
func (m assignModel) confirm() (tea.Model, tea.Cmd) {
	switch m.phase {
	case phasePickBookmark:
		node := m.links[m.cursor]
		if _, err := m.ctl.StartDrag(m.ctx, node); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.phase = phasePickGroup
		m.cursor, m.offset = 0, 0
		m.status = fmt.Sprintf("Dragging %s", node.Title)
		return m, nil

	case phasePickGroup:
		target := m.groups[m.cursor]
		// Let background enrichment land so the drop carries metadata.
		m.ctl.WaitEnriched(m.ctx)
		if m.ctl.Drop(m.ctx, target.ID) {
			m.attached++
			m.status = fmt.Sprintf("Attached to %s", target.Name)
		} else {
			m.status = fmt.Sprintf("Not attached to %s (duplicate or unknown target)", target.Name)
		}
		m.groups = m.store.Groups()
		m.phase = phasePickBookmark
		m.cursor, m.offset = 0, 0
		return m, nil
	}
	return m, nil
}

func (m assignModel) listLen() int {
	if m.phase == phasePickGroup {
		return len(m.groups)
	}
	return len(m.links)
}

func (m assignModel) View() string {
	var b strings.Builder

	title := "Select Bookmark"
	if m.phase == phasePickGroup {
		title = "Drop Onto Group"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  esc back  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > m.listLen() {
		end = m.listLen()
	}
	for i := m.offset; i < end; i++ {
		line := m.itemLine(i)
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render("> " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}

// itemLine formats one row of the active list.
func (m assignModel) itemLine(i int) string {
	if m.phase == phasePickGroup {
		g := m.groups[i]
		return fmt.Sprintf("%s (%d links)", g.Name, len(g.Links))
	}
	node := m.links[i]
	title := node.Title
	if title == "" {
		title = node.URL
	}
	return title
}
