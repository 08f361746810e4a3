package demoui

import (
	"image"

	tea "charm.land/bubbletea/v2"

	"github.com/graphpad/graphpad/pkg/canvas"
)

// handleMouse translates bubbletea mouse messages into widget pointer
// events. Events outside the canvas region end any live gesture rather
// than leaking into the chrome.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	mouse := msg.Mouse()
	m.mouseX = mouse.X
	m.mouseY = mouse.Y

	pos := image.Pt(mouse.X, mouse.Y)
	inCanvas := m.layout.Get("canvas").Contains(pos)

	ev := canvas.PointerEvent{
		Pos:    pos,
		Button: translateButton(mouse.Button),
		Ctrl:   mouse.Mod&tea.ModCtrl != 0,
		Alt:    mouse.Mod&tea.ModAlt != 0,
	}

	switch msg.(type) {
	case tea.MouseClickMsg, tea.MouseWheelMsg:
		if !inCanvas {
			return
		}
		ev.Kind = canvas.PointerDown
	case tea.MouseMotionMsg:
		ev.Kind = canvas.PointerMove
	case tea.MouseReleaseMsg:
		ev.Kind = canvas.PointerUp
		if !inCanvas && m.widget.State() != canvas.StateIdle {
			// Released over the chrome: treat as a cancel, the gesture
			// has no drop target there.
			m.widget.Cancel()
			return
		}
	default:
		return
	}

	m.widget.Pointer(ev)
}

func translateButton(b tea.MouseButton) canvas.PointerButton {
	switch b {
	case tea.MouseLeft:
		return canvas.ButtonLeft
	case tea.MouseMiddle:
		return canvas.ButtonMiddle
	case tea.MouseRight:
		return canvas.ButtonRight
	case tea.MouseWheelUp:
		return canvas.ButtonWheelUp
	case tea.MouseWheelDown:
		return canvas.ButtonWheelDown
	default:
		return canvas.ButtonNone
	}
}
