package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	pkgtypes "github.com/stratus-cli/stratus/pkg/types"
)

const (
	projectListHeight = 8
	projectNameWidth  = 22
)

// projectModel is the bubbletea model for project selection
type projectModel struct {
	projects  []pkgtypes.Project
	filtered  []pkgtypes.Project
	cursor    int
	offset    int // for scrolling
	search    string
	selected  *pkgtypes.Project
	quitting  bool
	cancelled bool
}

func newProjectModel(projects []pkgtypes.Project) projectModel {
	return projectModel{
		projects: projects,
		filtered: projects,
	}
}

// Init implements tea.Model
func (m projectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m projectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		m.cancelled = true
		return m, tea.Quit

	case tea.KeyEnter:
		if len(m.filtered) > 0 {
			m.selected = &m.filtered[m.cursor]
			m.quitting = true
			return m, tea.Quit
		}

	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.offset {
				m.offset = m.cursor
			}
		}

	case tea.KeyDown:
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
			if m.cursor >= m.offset+projectListHeight {
				m.offset = m.cursor - projectListHeight + 1
			}
		}

	case tea.KeyBackspace:
		if len(m.search) > 0 {
			m.search = m.search[:len(m.search)-1]
			m.applyFilter()
		}

	case tea.KeyRunes:
		m.search += string(keyMsg.Runes)
		m.applyFilter()
	}

	return m, nil
}

// applyFilter narrows the list to projects whose name or ID contains the
// search string, and clamps the cursor.
func (m *projectModel) applyFilter() {
	if m.search == "" {
		m.filtered = m.projects
	} else {
		needle := strings.ToLower(m.search)
		filtered := make([]pkgtypes.Project, 0, len(m.projects))
		for _, p := range m.projects {
			if strings.Contains(strings.ToLower(p.Name), needle) ||
				strings.Contains(strings.ToLower(p.ID), needle) {
				filtered = append(filtered, p)
			}
		}
		m.filtered = filtered
	}

	if m.cursor >= len(m.filtered) {
		m.cursor = 0
		m.offset = 0
	}
}

// View implements tea.Model
func (m projectModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(HeaderStyle.Render("Select project"))
	sb.WriteString("  ")
	if m.search != "" {
		sb.WriteString(HintStyle.Render("/" + m.search))
	}
	sb.WriteString("\n\n")

	if len(m.filtered) == 0 {
		sb.WriteString(MutedStyle.Render("  no matching projects"))
		sb.WriteString("\n")
	}

	end := m.offset + projectListHeight
	if end > len(m.filtered) {
		end = len(m.filtered)
	}

	for i := m.offset; i < end; i++ {
		p := m.filtered[i]
		name := runewidth.FillRight(runewidth.Truncate(p.Name, projectNameWidth, "..."), projectNameWidth)
		line := fmt.Sprintf("%s  %s", name, p.ID)

		if i == m.cursor {
			sb.WriteString(NameStyle.Render(" ❯ " + line))
		} else {
			sb.WriteString(ValueStyle.Render("   " + line))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(HintStyle.Render("  ↑/↓ move · enter select · type to filter · esc cancel"))
	sb.WriteString("\n")

	return sb.String()
}

// SelectProject shows an interactive picker over the projects table and
// returns the chosen project. Returns an error when the user cancels.
func SelectProject(projects []pkgtypes.Project) (*pkgtypes.Project, error) {
	model := newProjectModel(projects)

	prog := tea.NewProgram(model)
	final, err := prog.Run()
	if err != nil {
		return nil, err
	}

	result, ok := final.(projectModel)
	if !ok || result.cancelled || result.selected == nil {
		return nil, fmt.Errorf("selection cancelled")
	}

	return result.selected, nil
}
