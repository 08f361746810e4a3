package drawutil

import "github.com/graphpad/graphpad/pkg/cellbuf"

// DrawGrid fills the buffer with grid dots ('·') at regular intervals,
// offset by the camera translation. A cell gets a dot when its world
// coordinates are multiples of the spacing. Spacing below 1 is clamped
// so extreme zoom-out cannot degenerate into a solid fill.
func DrawGrid(buf *cellbuf.Buffer, offX, offY, spacingX, spacingY int, style cellbuf.StyleKey) {
	if spacingX < 2 {
		spacingX = 2
	}
	if spacingY < 2 {
		spacingY = 2
	}
	w, h := buf.Size()
	for r := 0; r < h; r++ {
		if mod(r-offY, spacingY) != 0 {
			continue
		}
		for c := 0; c < w; c++ {
			if mod(c-offX, spacingX) == 0 {
				buf.Set(c, r, '·', style)
			}
		}
	}
}

// mod returns a non-negative modulus (Go's % can return negative for
// negative operands).
func mod(a, m int) int {
	if m == 0 {
		return 0
	}
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
