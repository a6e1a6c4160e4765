package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/fatih/color"
)

// multiSelectModel is the bubbletea model for picking roster entries
type multiSelectModel struct {
	entries   []models.RosterEntry
	cursor    int
	selected  map[int]bool
	title     string
	done      bool
	cancelled bool
}

// initialMultiSelectModel starts with every entry selected
func initialMultiSelectModel(entries []models.RosterEntry, title string) multiSelectModel {
	selected := make(map[int]bool, len(entries))
	for i := range entries {
		selected[i] = true
	}
	return multiSelectModel{
		entries:  entries,
		selected: selected,
		title:    title,
	}
}

// Init is the initial command for bubbletea
func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case " ":
		m.selected[m.cursor] = !m.selected[m.cursor]
	case "a":
		all := len(m.selectedIndices()) < len(m.entries)
		for i := range m.entries {
			m.selected[i] = all
		}
	case "enter":
		if len(m.selectedIndices()) > 0 {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the UI
func (m multiSelectModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(color.New(color.FgCyan, color.Bold).Sprintf("%s\n\n", m.title))

	for i, entry := range m.entries {
		cursor := " "
		if m.cursor == i {
			cursor = color.New(color.FgCyan).Sprint("▸")
		}

		checkbox := color.New(color.FgWhite).Sprint("○")
		if m.selected[i] {
			checkbox = color.New(color.FgGreen).Sprint("✓")
		}

		name := entry.Name
		if entry.Grade != "" {
			name += color.New(color.FgYellow).Sprintf(" (%s)", entry.Grade)
		}
		address := color.New(color.Faint).Sprint(entry.Address)

		b.WriteString(fmt.Sprintf("%s %s %s  %s\n", cursor, checkbox, name, address))
	}

	b.WriteString("\n")
	b.WriteString(color.New(color.FgYellow).Sprint("↑/↓: move  Space: toggle  a: all  Enter: confirm  q: quit\n"))

	return b.String()
}

func (m multiSelectModel) selectedIndices() []int {
	var indices []int
	for i := range m.entries {
		if m.selected[i] {
			indices = append(indices, i)
		}
	}
	return indices
}

// SelectRosterEntries shows a multi-select interface and returns the
// indices of the chosen entries in order
func SelectRosterEntries(entries []models.RosterEntry, title string) ([]int, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no roster entries to select")
	}

	p := tea.NewProgram(initialMultiSelectModel(entries, title))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("multi-select failed: %w", err)
	}

	m := finalModel.(multiSelectModel)
	if m.cancelled || !m.done {
		return nil, fmt.Errorf("selection cancelled")
	}

	return m.selectedIndices(), nil
}
