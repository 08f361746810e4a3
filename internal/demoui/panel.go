package demoui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

const panelWidth = 26

// panelBG is slightly lighter than the canvas bg for visible distinction.
var panelBG = c("#1a2a20")

var (
	panelTitleStyle = lipgloss.NewStyle().
			Foreground(c("#00ffc8")).
			Background(panelBG).
			Bold(true)

	panelDimStyle = lipgloss.NewStyle().
			Foreground(c("#336655")).
			Background(panelBG)

	panelTextStyle = lipgloss.NewStyle().
			Foreground(c("#00d4a0")).
			Background(panelBG)

	panelValStyle = lipgloss.NewStyle().
			Foreground(c("#ddaa44")).
			Background(panelBG)

	panelSepStyle = lipgloss.NewStyle().
			Foreground(c("#1a4a3a")).
			Background(panelBG)

	panelLineStyle = lipgloss.NewStyle().
			Background(panelBG)
)

// padLine right-pads a styled line to the given visible width so the
// panel background stays solid.
func padLine(s string, width int) string {
	vis := lipgloss.Width(s)
	if pad := width - vis; pad > 0 {
		s += panelLineStyle.Render(strings.Repeat(" ", pad))
	}
	return s
}

// zoomPanelLayer renders the zoom readout. It is fed by the viewport's
// on-change fast path (m.zoomPct), never by the reconciliation cycle.
func (m *Model) zoomPanelLayer(x, y, width, height int) *lipgloss.Layer {
	t := m.widget.Viewport().Transform()
	minZ, maxZ := m.widget.Viewport().Bounds()

	lines := []string{
		panelTitleStyle.Render(" ZOOM"),
		panelDimStyle.Render(strings.Repeat("─", max(width-2, 0))),
		panelTextStyle.Render("  scale ") + panelValStyle.Render(fmt.Sprintf("%d%%", m.zoomPct)),
		panelTextStyle.Render("  range ") + panelValStyle.Render(fmt.Sprintf("%.0f%%–%.0f%%", minZ*100, maxZ*100)),
		panelTextStyle.Render("  pan   ") + panelValStyle.Render(fmt.Sprintf("(%.0f,%.0f)", t.X, t.Y)),
	}
	return panelSection(lines, x, y, width, height, "panel-zoom")
}

// helpPanelLayer renders the static key reference.
func (m *Model) helpPanelLayer(x, y, width, height int) *lipgloss.Layer {
	lines := []string{
		panelTitleStyle.Render(" HELP"),
		panelDimStyle.Render(strings.Repeat("─", max(width-2, 0))),
		panelTextStyle.Render("  click=select drag=move"),
		panelTextStyle.Render("  ctrl+drag: connect"),
		panelTextStyle.Render("  drag arrowhead: rewire"),
		panelTextStyle.Render("  [e]dit  [del]ete"),
		panelTextStyle.Render("  [+/-] zoom  [f]it"),
		panelTextStyle.Render("  arrows: pan"),
		panelTextStyle.Render("  ctrl+s save  [q]uit"),
	}
	return panelSection(lines, x, y, width, height, "panel-help")
}

func panelSection(lines []string, x, y, width, height int, id string) *lipgloss.Layer {
	for len(lines) < height {
		lines = append(lines, "")
	}
	lines = lines[:height]
	for i, l := range lines {
		lines[i] = padLine(l, width)
	}
	return lipgloss.NewLayer(strings.Join(lines, "\n")).X(x).Y(y).Z(1).ID(id)
}

// separatorLayer draws the vertical line between canvas and panel.
func separatorLayer(x, y, height int) *lipgloss.Layer {
	lines := make([]string, height)
	for i := range lines {
		lines[i] = panelSepStyle.Render("│")
	}
	return lipgloss.NewLayer(strings.Join(lines, "\n")).X(x).Y(y).Z(1).ID("separator")
}
