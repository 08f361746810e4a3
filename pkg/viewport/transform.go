// Package viewport owns the pan/zoom transform that maps logical
// (world) coordinates to visible (screen) coordinates: a scale factor k
// plus a translation, clamped to a configured zoom range.
package viewport

// Transform is scale k plus translation (x, y). Screen = world*k + t.
type Transform struct {
	K float64
	X float64
	Y float64
}

// Identity is the untransformed viewport.
var Identity = Transform{K: 1}

// Apply maps a world coordinate to screen space.
func (t Transform) Apply(wx, wy float64) (sx, sy float64) {
	return wx*t.K + t.X, wy*t.K + t.Y
}

// Invert maps a screen coordinate back to world space. A zero scale
// inverts to the origin.
func (t Transform) Invert(sx, sy float64) (wx, wy float64) {
	if t.K == 0 {
		return 0, 0
	}
	return (sx - t.X) / t.K, (sy - t.Y) / t.K
}

// Box is an axis-aligned bounding box in world coordinates.
type Box struct {
	X, Y float64
	W, H float64
}

// Empty reports whether the box has zero (or negative) area.
func (b Box) Empty() bool { return b.W <= 0 || b.H <= 0 }

// Union expands the box to include other. An empty receiver adopts
// other wholesale.
func (b Box) Union(other Box) Box {
	if b.Empty() {
		return other
	}
	if other.Empty() {
		return b
	}
	minX := min(b.X, other.X)
	minY := min(b.Y, other.Y)
	maxX := max(b.X+b.W, other.X+other.W)
	maxY := max(b.Y+b.H, other.Y+other.H)
	return Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
