package demoui

import (
	"fmt"
	"image/color"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/graphpad/graphpad/pkg/canvas"
	"github.com/graphpad/graphpad/pkg/tealayout"
)

// c is shorthand for lipgloss.Color.
func c(hex string) color.Color { return lipgloss.Color(hex) }

var (
	tbStyle = lipgloss.NewStyle().
		Background(c("#0a1510")).
		Foreground(c("#00ffc8")).
		Bold(true)

	ftStyle = lipgloss.NewStyle().
		Foreground(c("#666666"))

	badgeStyle = lipgloss.NewStyle().
			Background(c("#0a1510")).
			Foreground(c("#00d4a0"))
)

// View implements tea.Model.
func (m *Model) View() tea.View {
	if m.width == 0 || m.height == 0 {
		return tea.NewView("")
	}

	canvasRegion := m.layout.Get("canvas")

	layers := []*lipgloss.Layer{
		tealayout.FillLayer(m.layout.Get("toolbar"), tbStyle, "toolbar-bg", 0),
		tealayout.FillLayer(canvasRegion, canvas.BackgroundStyle(), "canvas-bg-fill", 0),
		tealayout.FillLayer(m.layout.Get("footer"), ftStyle, "footer-bg", 0),
	}

	title := m.doc.Title
	if title == "" {
		title = "untitled"
	}
	unsaved := ""
	if m.unsaved {
		unsaved = " *"
	}
	mode := ""
	if m.cfg.ReadOnly {
		mode = "  │  READ-ONLY"
	}
	tbContent := fmt.Sprintf(
		" graphpad — %s%s%s  │  drag: move  ctrl+drag: connect  [e]dit [f]it [+/-] zoom  │  [q]uit",
		title, unsaved, mode,
	)
	layers = append(layers, tealayout.ToolbarLayer(tbContent, m.width, tbStyle))

	ftContent := fmt.Sprintf(
		" Mouse: (%d,%d)  State: %s  Nodes: %d  Edges: %d  %s",
		m.mouseX, m.mouseY, m.widget.State(),
		len(m.doc.Nodes), len(m.doc.Edges), m.status,
	)
	layers = append(layers, tealayout.FooterLayer(ftContent, m.width, m.height-1, ftStyle))

	// The widget composes its own background + node + label layers.
	layers = append(layers, m.widget.Layers()...)

	// Zoom badge, fed by the transform fast path rather than the
	// reconciliation cycle.
	layers = append(layers, tealayout.BadgeLayer(
		fmt.Sprintf(" %d%% ", m.zoomPct), canvasRegion, badgeStyle, "zoom-badge"))

	if m.panelVisible() {
		pr := m.layout.Get("panel").Rect
		pw, ph := pr.Dx(), pr.Dy()
		if pw > 0 && ph > 0 {
			zoomH := 6
			helpH := ph - zoomH
			if helpH < 3 {
				helpH = 3
			}
			layers = append(layers,
				tealayout.FillLayer(m.layout.Get("panel"), panelLineStyle, "panel-bg", 0),
				separatorLayer(pr.Min.X-1, pr.Min.Y, ph),
				m.zoomPanelLayer(pr.Min.X+1, pr.Min.Y, pw-2, zoomH),
				m.helpPanelLayer(pr.Min.X+1, pr.Min.Y+zoomH, pw-2, helpH),
			)
		}
	}

	if m.editOpen {
		layers = append(layers, m.editModalLayer())
	}

	comp := lipgloss.NewCompositor(layers...)
	cv := lipgloss.NewCanvas(m.width, m.height)
	cv.Compose(comp)

	v := tea.NewView(cv.Render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	return v
}
