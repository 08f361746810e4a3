// Package cellbuf provides a 2D character buffer with per-cell styling
// and efficient Lipgloss-based rendering.
//
// Each cell holds a rune and a StyleKey (an int enum). At render time,
// the caller provides a map[StyleKey]lipgloss.Style so the buffer is
// decoupled from specific color schemes.
//
// Limitation: all runes are assumed to be single-width. CJK or other
// double-width characters are not handled correctly.
package cellbuf

import "image"

// StyleKey identifies a visual style. The caller defines the mapping
// from StyleKey to lipgloss.Style at render time.
type StyleKey int

// Cell is a single character with an associated style.
type Cell struct {
	Ch    rune
	Style StyleKey
}

// PlacedCell is a cell with an explicit buffer position. Line-shaped
// visuals (edges, previews) are exchanged as sparse placed-cell slices
// and painted into a shared buffer with Put.
type PlacedCell struct {
	X, Y  int
	Ch    rune
	Style StyleKey
}

// Buffer is a 2D grid of styled cells backed by a single flat slice.
type Buffer struct {
	w, h  int
	cells []Cell
}

// New creates a Buffer of the given size, filled with spaces in the
// given default style. Negative dimensions are treated as zero.
func New(w, h int, defaultStyle StyleKey) *Buffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	b := &Buffer{w: w, h: h, cells: make([]Cell, w*h)}
	b.Fill(defaultStyle)
	return b
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (w, h int) { return b.w, b.h }

// InBounds reports whether (x, y) is inside the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.w && y >= 0 && y < b.h
}

// Set writes a single character at (x, y). Out-of-bounds writes are
// silently ignored.
func (b *Buffer) Set(x, y int, ch rune, style StyleKey) {
	if b.InBounds(x, y) {
		b.cells[y*b.w+x] = Cell{Ch: ch, Style: style}
	}
}

// At returns the cell at (x, y) and whether the position is in bounds.
func (b *Buffer) At(x, y int) (Cell, bool) {
	if !b.InBounds(x, y) {
		return Cell{}, false
	}
	return b.cells[y*b.w+x], true
}

// SetString writes a string starting at (x, y), advancing x for each
// rune. Characters that fall outside the buffer are silently skipped.
func (b *Buffer) SetString(x, y int, s string, style StyleKey) {
	i := 0
	for _, ch := range s {
		b.Set(x+i, y, ch, style)
		i++
	}
}

// Put paints a slice of placed cells into the buffer. Out-of-bounds
// cells are skipped.
func (b *Buffer) Put(cells []PlacedCell) {
	for _, c := range cells {
		b.Set(c.X, c.Y, c.Ch, c.Style)
	}
}

// Fill resets every cell to a space with the given style.
func (b *Buffer) Fill(style StyleKey) {
	for i := range b.cells {
		b.cells[i] = Cell{Ch: ' ', Style: style}
	}
}

// FillRect fills the intersection of r with the buffer using ch.
func (b *Buffer) FillRect(r image.Rectangle, ch rune, style StyleKey) {
	r = r.Intersect(image.Rect(0, 0, b.w, b.h))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			b.cells[y*b.w+x] = Cell{Ch: ch, Style: style}
		}
	}
}
