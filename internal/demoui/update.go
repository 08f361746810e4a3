package demoui

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/graphpad/graphpad/internal/document"
	"github.com/graphpad/graphpad/pkg/tealayout"
)

// frameMsg drives the widget's cooperative frame loop.
type frameMsg time.Time

// reloadMsg reports that the document file changed on disk.
type reloadMsg struct{}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.frameInterval(), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// armTick schedules a frame tick unless one is already in flight. The
// loop parks itself when the widget reports no pending work and is
// re-armed by the next input.
func (m *Model) armTick() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return m.tickCmd()
}

func (m *Model) waitReload() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-m.reload; !ok {
			return nil
		}
		return reloadMsg{}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rebuildLayout()
		return m, m.armTick()

	case frameMsg:
		m.ticking = false
		if m.widget.Frame(time.Time(msg)) || m.widget.Dirty() {
			return m, m.armTick()
		}
		return m, nil

	case reloadMsg:
		m.reloadDocument()
		return m, tea.Batch(m.waitReload(), m.armTick())

	case tea.KeyMsg:
		mod, cmd := m.handleKeys(msg)
		return mod, tea.Batch(cmd, m.armTick())

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, m.armTick()
	}

	return m, nil
}

func (m *Model) rebuildLayout() {
	b := tealayout.NewLayoutBuilder(m.width, m.height).
		TopFixed("toolbar", 1).
		BottomFixed("footer", 1)
	if m.panelVisible() {
		b = b.RightFixed("panel", panelWidth)
	}
	m.layout = b.Remaining("canvas").Build()
	m.widget.SetArea(m.layout.Get("canvas").Rect)
}

// panelVisible hides the side panel on narrow terminals.
func (m *Model) panelVisible() bool { return m.width >= 3*panelWidth }

func (m *Model) reloadDocument() {
	doc, err := document.Load(m.docPath)
	if err != nil {
		m.log.Error("reload failed", "path", m.docPath, "err", err)
		m.status = "reload failed: " + err.Error()
		return
	}
	*m.doc = *doc
	m.selected = nil
	m.undo = nil
	m.unsaved = false
	m.status = "reloaded " + m.docPath
	m.pushProps()
}

// handleKeys processes keyboard input.
func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editOpen {
		return m.handleEditKeys(msg)
	}

	key := msg.String()
	switch key {
	case "q", "ctrl+q":
		return m, tea.Quit

	case "ctrl+s":
		m.save()
		return m, nil

	case "e", "enter":
		return m, m.openEditModal()

	case "esc", "escape":
		m.widget.Cancel()
		m.selected = nil
		m.status = ""
		m.pushProps()
		return m, nil
	}

	if m.widget.Key(key) {
		return m, nil
	}
	return m, nil
}
