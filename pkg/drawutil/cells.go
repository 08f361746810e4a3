package drawutil

import (
	"image"

	"github.com/graphpad/graphpad/pkg/cellbuf"
)

// LineCells returns the styled cells of a Bresenham line with per-point
// line characters. Coordinates are buffer-local.
func LineCells(x0, y0, x1, y1 int, style cellbuf.StyleKey) []cellbuf.PlacedCell {
	pts := Bresenham(x0, y0, x1, y1)
	cells := make([]cellbuf.PlacedCell, len(pts))
	for i, p := range pts {
		cells[i] = cellbuf.PlacedCell{X: p.X, Y: p.Y, Ch: pointChar(pts, i), Style: style}
	}
	return cells
}

// ArrowLineCells returns the styled cells of a line with an arrowhead at
// the endpoint, plus the arrowhead position. The line uses lineStyle and
// the arrowhead uses arrowStyle.
func ArrowLineCells(x0, y0, x1, y1 int, lineStyle, arrowStyle cellbuf.StyleKey) ([]cellbuf.PlacedCell, image.Point) {
	pts := Bresenham(x0, y0, x1, y1)
	if len(pts) == 0 {
		return nil, image.Point{}
	}

	cells := make([]cellbuf.PlacedCell, 0, len(pts))
	for i, p := range pts[:len(pts)-1] {
		cells = append(cells, cellbuf.PlacedCell{X: p.X, Y: p.Y, Ch: pointChar(pts, i), Style: lineStyle})
	}

	// Arrowhead character follows the final segment direction.
	last := pts[len(pts)-1]
	var dx, dy int
	if len(pts) >= 2 {
		dx = last.X - pts[len(pts)-2].X
		dy = last.Y - pts[len(pts)-2].Y
	}
	cells = append(cells, cellbuf.PlacedCell{X: last.X, Y: last.Y, Ch: ArrowChar(dx, dy), Style: arrowStyle})
	return cells, last
}

// DashedLineCells returns a dashed Bresenham line (every 3rd point is
// skipped). Used for the transient edge preview during creation/rewire.
func DashedLineCells(x0, y0, x1, y1 int, style cellbuf.StyleKey) []cellbuf.PlacedCell {
	pts := Bresenham(x0, y0, x1, y1)
	var cells []cellbuf.PlacedCell
	for i, p := range pts {
		if i%3 == 2 {
			continue
		}
		cells = append(cells, cellbuf.PlacedCell{X: p.X, Y: p.Y, Ch: pointChar(pts, i), Style: style})
	}
	return cells
}
