package canvas

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"charm.land/lipgloss/v2"

	"github.com/graphpad/graphpad/pkg/cellbuf"
	"github.com/graphpad/graphpad/pkg/drawutil"
	"github.com/graphpad/graphpad/pkg/graphindex"
)

// cellbuf style keys for the edge/grid background layer.
const (
	StyleBG           cellbuf.StyleKey = 0
	StyleGrid         cellbuf.StyleKey = 1
	StyleEdge         cellbuf.StyleKey = 2
	StyleEdgeSelected cellbuf.StyleKey = 3
	StyleEdgePreview  cellbuf.StyleKey = 4
)

// c is shorthand for lipgloss.Color.
func c(hex string) color.Color { return lipgloss.Color(hex) }

// Color palette: CRT green terminal aesthetic.
var (
	colorBG = c("#080e0b")

	typeColors = map[string]struct{ border, text color.Color }{
		"process":   {border: c("#00d4a0"), text: c("#00ffc8")},
		"decision":  {border: c("#00ccee"), text: c("#66ffee")},
		"terminal":  {border: c("#44ff88"), text: c("#88ffbb")},
		"io":        {border: c("#ddaa44"), text: c("#ffcc66")},
		"connector": {border: c("#1a6a4a"), text: c("#00d4a0")},
	}
	defaultColors = struct{ border, text color.Color }{
		border: c("#00d4a0"), text: c("#00ffc8"),
	}

	selBorder = c("#00ffee")
	selText   = c("#00ffee")
	selBG     = c("#0a1a15")
)

// typeGeometry describes the fixed full-scale footprint and tag of a
// node type.
type typeGeometry struct {
	Tag  string
	W, H int
}

var typeGeometries = map[string]typeGeometry{
	"process":   {Tag: "P", W: 22, H: 3},
	"decision":  {Tag: "?", W: 22, H: 3},
	"terminal":  {Tag: "T", W: 22, H: 3},
	"io":        {Tag: "IO", W: 22, H: 3},
	"connector": {Tag: "", W: 7, H: 3},
}

var defaultGeometry = typeGeometry{W: 22, H: 3}

// compactScale is the zoom factor below which nodes collapse to a
// single-line form. A 3-row bordered box has no legible rendition at
// half a cell of height.
const compactScale = 0.6

func borderForType(nodeType string) lipgloss.Border {
	switch nodeType {
	case "terminal":
		return lipgloss.RoundedBorder()
	case "decision":
		return lipgloss.DoubleBorder()
	default:
		return lipgloss.NormalBorder()
	}
}

// DefaultRenderer renders nodes as bordered lipgloss boxes keyed by
// node type, with a compact single-line form at low zoom, and edges as
// arrow lines exiting node borders.
type DefaultRenderer struct{}

// NewDefaultRenderer creates the stock renderer.
func NewDefaultRenderer() *DefaultRenderer { return &DefaultRenderer{} }

func geometryFor(n graphindex.Node) typeGeometry {
	if g, ok := typeGeometries[n.Type]; ok {
		return g
	}
	return defaultGeometry
}

func colorsFor(n graphindex.Node) struct{ border, text color.Color } {
	if cl, ok := typeColors[n.Type]; ok {
		return cl
	}
	return defaultColors
}

func nodeLabel(n graphindex.Node) string {
	if s, ok := n.Data.(string); ok && s != "" {
		return s
	}
	if l, ok := n.Data.(interface{ Label() string }); ok && l.Label() != "" {
		return l.Label()
	}
	return string(n.Key)
}

// NodeSize scales the type footprint, with a floor so every node stays
// clickable.
func (r *DefaultRenderer) NodeSize(n graphindex.Node, scale float64) image.Point {
	g := geometryFor(n)
	if scale < compactScale {
		w := int(math.Round(float64(g.W) * scale))
		if w < 4 {
			w = 4
		}
		return image.Pt(w, 1)
	}
	w := int(math.Round(float64(g.W) * scale))
	if w < 6 {
		w = 6
	}
	return image.Pt(w, g.H)
}

func (r *DefaultRenderer) RenderNode(n graphindex.Node, at image.Point, selected bool, scale float64) Visual {
	sz := r.NodeSize(n, scale)
	cl := colorsFor(n)
	bc, tc, bg := cl.border, cl.text, colorBG
	if selected {
		bc, tc, bg = selBorder, selText, selBG
	}

	label := nodeLabel(n)

	if scale < compactScale {
		maxLen := sz.X - 2
		if maxLen < 1 {
			maxLen = 1
		}
		if len(label) > maxLen {
			label = label[:maxLen]
		}
		content := lipgloss.NewStyle().
			Foreground(tc).
			Background(bg).
			Render("[" + label + "]")
		return Visual{Kind: KindNode, Z: 2, Content: content, At: at, Size: sz}
	}

	maxLen := sz.X - 4
	if maxLen < 0 {
		maxLen = 0
	}
	if len(label) > maxLen {
		label = label[:maxLen]
	}

	boxStyle := lipgloss.NewStyle().
		Border(borderForType(n.Type)).
		BorderForeground(bc).
		Background(bg).
		Width(sz.X - 2).
		AlignHorizontal(lipgloss.Center)
	textStyle := lipgloss.NewStyle().
		Foreground(tc).
		Background(bg).
		Bold(true)

	v := Visual{
		Kind:    KindNode,
		Z:       2,
		Content: boxStyle.Render(textStyle.Render(label)),
		At:      at,
		Size:    sz,
	}

	if g := geometryFor(n); g.Tag != "" {
		v.Label = lipgloss.NewStyle().
			Foreground(bc).
			Background(bg).
			Render(fmt.Sprintf("[%s]", g.Tag))
		v.LabelAt = image.Pt(at.X+2, at.Y)
	}
	return v
}

func (r *DefaultRenderer) RenderEdge(e graphindex.Edge, from, to image.Rectangle, selected bool, scale float64) Visual {
	toCenter := image.Pt((to.Min.X+to.Max.X)/2, (to.Min.Y+to.Max.Y)/2)
	fromCenter := image.Pt((from.Min.X+from.Max.X)/2, (from.Min.Y+from.Max.Y)/2)

	p1 := drawutil.EdgeExit(from, toCenter)
	p2 := drawutil.EdgeExit(to, fromCenter)

	style := StyleEdge
	if selected {
		style = StyleEdgeSelected
	}
	cells, head := drawutil.ArrowLineCells(p1.X, p1.Y, p2.X, p2.Y, style, style)

	v := Visual{
		Kind:  KindEdge,
		Z:     0,
		Cells: cells,
		Arrow: image.Rect(head.X, head.Y, head.X+1, head.Y+1),
	}

	if label := edgeLabel(e); label != "" {
		mx := (p1.X + p2.X) / 2
		my := (p1.Y + p2.Y) / 2
		if abs(p2.X-p1.X) >= abs(p2.Y-p1.Y) {
			mx -= len(label) / 2
			my--
		} else {
			mx++
		}
		v.Label = lipgloss.NewStyle().
			Foreground(c("#00ffc8")).
			Background(colorBG).
			Bold(true).
			Render(label)
		v.LabelAt = image.Pt(mx, my)
	}
	return v
}

func edgeLabel(e graphindex.Edge) string {
	if s, ok := e.Data.(string); ok {
		return s
	}
	if l, ok := e.Data.(interface{ Label() string }); ok {
		return l.Label()
	}
	return ""
}

func (r *DefaultRenderer) RenderTransientEdge(from image.Rectangle, to image.Point, scale float64) Visual {
	p1 := drawutil.EdgeExit(from, to)
	return Visual{
		Kind:  KindCustom,
		Z:     1,
		Cells: drawutil.DashedLineCells(p1.X, p1.Y, to.X, to.Y, StyleEdgePreview),
	}
}

func (r *DefaultRenderer) EdgeStyles() map[cellbuf.StyleKey]lipgloss.Style {
	return map[cellbuf.StyleKey]lipgloss.Style{
		StyleBG:           lipgloss.NewStyle().Foreground(c("#1a3a2a")).Background(colorBG),
		StyleGrid:         lipgloss.NewStyle().Foreground(c("#0e2e20")).Background(colorBG),
		StyleEdge:         lipgloss.NewStyle().Foreground(c("#00d4a0")).Background(colorBG),
		StyleEdgeSelected: lipgloss.NewStyle().Foreground(c("#ffcc00")).Background(colorBG).Bold(true),
		StyleEdgePreview:  lipgloss.NewStyle().Foreground(c("#ffcc00")).Background(colorBG),
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
