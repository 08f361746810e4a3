package demoui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/textinput"
	"charm.land/lipgloss/v2"

	"github.com/graphpad/graphpad/pkg/tealayout"
)

// openEditModal opens the label editor for the selected node.
func (m *Model) openEditModal() tea.Cmd {
	if m.cfg.ReadOnly || len(m.selected) == 0 {
		return nil
	}
	key := m.selected[0]

	var label string
	found := false
	for _, n := range m.doc.Nodes {
		if n.ID == string(key) {
			label = n.Label
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	m.editOpen = true
	m.editKey = key
	m.widget.SetFocused(false) // modal takes the keyboard

	m.editInput = textinput.New()
	m.editInput.Prompt = ""
	m.editInput.CharLimit = 30
	m.editInput.SetValue(label)
	return m.editInput.Focus()
}

// handleEditKeys processes keys while the edit modal is open.
func (m *Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "escape":
		m.closeEditModal()
		return m, nil

	case "enter":
		m.checkpoint()
		m.doc.SetLabel(string(m.editKey), strings.TrimSpace(m.editInput.Value()))
		m.closeEditModal()
		m.pushProps()
		return m, nil

	default:
		var cmd tea.Cmd
		m.editInput, cmd = m.editInput.Update(msg)
		return m, cmd
	}
}

func (m *Model) closeEditModal() {
	m.editOpen = false
	m.widget.SetFocused(true)
}

// editModalLayer renders the label editor as a centered Z=100 layer.
func (m *Model) editModalLayer() *lipgloss.Layer {
	titleStyle := lipgloss.NewStyle().
		Foreground(c("#00ffc8")).
		Background(c("#0a1510")).
		Bold(true)
	hintStyle := lipgloss.NewStyle().
		Foreground(c("#336655")).
		Background(c("#0a1510")).
		Italic(true)

	lines := []string{
		titleStyle.Render(fmt.Sprintf("  EDIT — %s", shortID(string(m.editKey)))),
		"",
		"  Label: " + m.editInput.View(),
		"",
		hintStyle.Render("  [enter] save  [esc] cancel"),
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(c("#00d4a0")).
		Background(c("#0a1510")).
		Width(44).
		Padding(1, 2)

	return tealayout.ModalLayer(strings.Join(lines, "\n"), m.width, m.height, boxStyle)
}
