package drawutil

import (
	"image"
	"testing"

	"github.com/graphpad/graphpad/pkg/cellbuf"
)

func TestBresenhamIncludesEndpoints(t *testing.T) {
	pts := Bresenham(0, 0, 5, 3)
	if len(pts) == 0 {
		t.Fatal("no points")
	}
	if pts[0] != image.Pt(0, 0) {
		t.Errorf("first point: expected (0,0), got %v", pts[0])
	}
	if pts[len(pts)-1] != image.Pt(5, 3) {
		t.Errorf("last point: expected (5,3), got %v", pts[len(pts)-1])
	}
}

func TestBresenhamSinglePoint(t *testing.T) {
	pts := Bresenham(2, 2, 2, 2)
	if len(pts) != 1 || pts[0] != image.Pt(2, 2) {
		t.Errorf("expected single point (2,2), got %v", pts)
	}
}

func TestBresenhamReverse(t *testing.T) {
	fwd := Bresenham(0, 0, 4, 2)
	rev := Bresenham(4, 2, 0, 0)
	if len(fwd) != len(rev) {
		t.Errorf("forward and reverse lengths differ: %d vs %d", len(fwd), len(rev))
	}
}

func TestLineChar(t *testing.T) {
	cases := []struct {
		dx, dy int
		want   rune
	}{
		{0, 1, '│'},
		{0, -3, '│'},
		{2, 0, '─'},
		{1, 1, '\\'},
		{-1, -1, '\\'},
		{1, -1, '/'},
		{-1, 1, '/'},
	}
	for _, c := range cases {
		if got := LineChar(c.dx, c.dy); got != c.want {
			t.Errorf("LineChar(%d,%d): expected %q, got %q", c.dx, c.dy, c.want, got)
		}
	}
}

func TestArrowChar(t *testing.T) {
	cases := []struct {
		dx, dy int
		want   rune
	}{
		{0, 2, '▼'},
		{0, -2, '▲'},
		{3, 0, '►'},
		{-3, 0, '◄'},
		{1, 5, '▼'},
	}
	for _, c := range cases {
		if got := ArrowChar(c.dx, c.dy); got != c.want {
			t.Errorf("ArrowChar(%d,%d): expected %q, got %q", c.dx, c.dy, c.want, got)
		}
	}
}

func TestArrowLineCellsReportsArrowhead(t *testing.T) {
	cells, arrow := ArrowLineCells(0, 0, 6, 0, 1, 2)
	if arrow != image.Pt(6, 0) {
		t.Errorf("arrowhead: expected (6,0), got %v", arrow)
	}
	last := cells[len(cells)-1]
	if last.X != 6 || last.Y != 0 {
		t.Errorf("last cell: expected at (6,0), got (%d,%d)", last.X, last.Y)
	}
	if last.Ch != '►' {
		t.Errorf("arrow char: expected ►, got %q", last.Ch)
	}
	if last.Style != 2 {
		t.Errorf("arrow style: expected 2, got %d", last.Style)
	}
}

func TestDashedLineCellsSkipsEveryThird(t *testing.T) {
	cells := DashedLineCells(0, 0, 8, 0, 1)
	for _, c := range cells {
		if c.X%3 == 2 {
			t.Errorf("point x=%d should have been skipped", c.X)
		}
	}
}

func TestEdgeExitSides(t *testing.T) {
	rect := image.Rect(10, 10, 20, 16) // center (15,13)
	cases := []struct {
		target image.Point
		want   image.Point
	}{
		{image.Pt(40, 13), image.Pt(19, 13)}, // right
		{image.Pt(0, 13), image.Pt(10, 13)},  // left
		{image.Pt(15, 40), image.Pt(15, 15)}, // bottom
		{image.Pt(15, 0), image.Pt(15, 10)},  // top
	}
	for _, c := range cases {
		if got := EdgeExit(rect, c.target); got != c.want {
			t.Errorf("EdgeExit toward %v: expected %v, got %v", c.target, c.want, got)
		}
	}
}

func TestEdgeExitDegenerate(t *testing.T) {
	rect := image.Rect(5, 5, 5, 5)
	if got := EdgeExit(rect, image.Pt(50, 50)); got != image.Pt(5, 5) {
		t.Errorf("zero-size rect: expected center, got %v", got)
	}
	rect = image.Rect(10, 10, 20, 20)
	if got := EdgeExit(rect, image.Pt(15, 15)); got != image.Pt(15, 15) {
		t.Errorf("target at center: expected center, got %v", got)
	}
}

func TestDrawGridOffset(t *testing.T) {
	buf := cellbuf.New(10, 6, 0)
	DrawGrid(buf, 1, 0, 5, 3, 1)
	c, _ := buf.At(1, 0)
	if c.Ch != '·' {
		t.Error("expected dot at offset origin")
	}
	c, _ = buf.At(6, 3)
	if c.Ch != '·' {
		t.Error("expected dot one spacing away")
	}
	c, _ = buf.At(2, 0)
	if c.Ch == '·' {
		t.Error("unexpected dot off the grid")
	}
}
