package canvas

import (
	"image"
	"math"

	"charm.land/lipgloss/v2"

	"github.com/graphpad/graphpad/pkg/cellbuf"
	"github.com/graphpad/graphpad/pkg/drawutil"
)

var canvasBG = lipgloss.NewStyle().Background(colorBG)

// Layers composes the widget into lipgloss layers for the host's
// compositor: one background layer carrying grid and edge cells, node
// box layers above it, and label layers on top. Node layers outside the
// widget area are culled.
func (w *Widget) Layers() []*lipgloss.Layer {
	width := w.area.Dx()
	height := w.area.Dy()
	if width <= 0 || height <= 0 {
		return nil
	}

	t := w.vp.Transform()
	offX := int(math.Round(t.X))
	offY := int(math.Round(t.Y))

	buf := cellbuf.New(width, height, StyleBG)
	drawutil.DrawGrid(buf, offX, offY,
		int(math.Round(float64(w.props.GridSpacing.X)*t.K)),
		int(math.Round(float64(w.props.GridSpacing.Y)*t.K)),
		StyleGrid)

	layers := make([]*lipgloss.Layer, 0, w.stage.Len()+2)

	// Edge cells paint into the shared buffer with the pan offset
	// applied here, so panning never re-renders a container.
	w.stage.Each(func(id ContainerID, v Visual) {
		switch v.Kind {
		case KindNode:
			at := v.At.Add(image.Pt(offX, offY)).Add(w.area.Min)
			box := image.Rect(at.X, at.Y, at.X+v.Size.X, at.Y+v.Size.Y)
			if !box.Overlaps(w.area) {
				return
			}
			layers = append(layers, lipgloss.NewLayer(v.Content).
				X(at.X).Y(at.Y).Z(v.Z).ID(id.layerID()))
		default:
			for _, cell := range v.Cells {
				buf.Set(cell.X+offX, cell.Y+offY, cell.Ch, cell.Style)
			}
		}

		if v.Label != "" {
			lx := v.LabelAt.X + offX + w.area.Min.X
			ly := v.LabelAt.Y + offY + w.area.Min.Y
			if image.Pt(lx, ly).In(w.area) {
				layers = append(layers, lipgloss.NewLayer(v.Label).
					X(lx).Y(ly).Z(3).ID("lbl-" + id.layerID()))
			}
		}
	})

	bg := lipgloss.NewLayer(buf.Render(w.renderer.EdgeStyles())).
		X(w.area.Min.X).Y(w.area.Min.Y).Z(0).ID("canvas-bg")

	return append([]*lipgloss.Layer{bg}, layers...)
}

// BackgroundStyle is the fill style hosts can use behind the widget.
func BackgroundStyle() lipgloss.Style { return canvasBG }
