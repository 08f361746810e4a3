package viewport

import (
	"math"
	"time"

	"github.com/graphpad/graphpad/pkg/frameq"
)

// fitFill is the fraction of the viewport a zoom-to-fit target box
// occupies.
const fitFill = 0.9

// Config bounds and sizes a Manager.
type Config struct {
	MinZoom float64
	MaxZoom float64
	Width   float64
	Height  float64
}

// Manager is the single writer of the viewport transform. Every zoom
// operation funnels through SetZoom; pan updates coalesce through a
// frame queue so redundant transform writes within one frame collapse.
// An on-change hook lets a zoom-sensitive side widget re-render without
// triggering full scene reconciliation.
type Manager struct {
	cfg Config
	cur Transform

	panOrigin Transform
	frames    *frameq.Queue[string]

	anim     *animation
	onChange func(Transform)
}

// New creates a manager at identity scale clamped into the zoom range.
func New(cfg Config, onChange func(Transform)) *Manager {
	m := &Manager{
		cfg:      cfg,
		frames:   frameq.NewQueue[string](),
		onChange: onChange,
	}
	m.cur = Transform{K: m.clamp(1)}
	return m
}

// Transform returns the current transform.
func (m *Manager) Transform() Transform { return m.cur }

// Resize updates the viewport dimensions.
func (m *Manager) Resize(w, h float64) {
	m.cfg.Width = w
	m.cfg.Height = h
}

// Bounds returns the configured zoom range.
func (m *Manager) Bounds() (minZoom, maxZoom float64) {
	return m.cfg.MinZoom, m.cfg.MaxZoom
}

// SetBounds replaces the zoom range. The current transform is left
// untouched; out-of-range operations are rejected, not clamped.
func (m *Manager) SetBounds(minZoom, maxZoom float64) {
	m.cfg.MinZoom = minZoom
	m.cfg.MaxZoom = maxZoom
}

func (m *Manager) clamp(k float64) float64 {
	return math.Min(m.cfg.MaxZoom, math.Max(m.cfg.MinZoom, k))
}

func (m *Manager) fireChange() {
	if m.onChange != nil {
		m.onChange(m.cur)
	}
}

// SetZoom is the low-level primitive every zoom operation funnels
// through. With a positive duration the transform eases toward the
// target over subsequent Frame calls; otherwise it applies immediately.
func (m *Manager) SetZoom(k, x, y float64, d time.Duration) {
	target := Transform{K: k, X: x, Y: y}
	if d <= 0 {
		m.anim = nil
		m.cur = target
		m.fireChange()
		return
	}
	m.anim = &animation{from: m.cur, to: target, dur: d}
}

// ModifyZoom applies a relative change anchored at the viewport center.
// It reports failure and leaves the transform unchanged when the
// resulting scale would exit the zoom range, so callers can distinguish
// "at the limit" from "applied".
func (m *Manager) ModifyZoom(deltaK, deltaX, deltaY float64, d time.Duration) bool {
	nk := m.cur.K + deltaK
	const eps = 1e-9
	if nk < m.cfg.MinZoom-eps || nk > m.cfg.MaxZoom+eps {
		return false
	}

	// Keep the world point under the viewport center fixed.
	cx := m.cfg.Width / 2
	cy := m.cfg.Height / 2
	nx := cx - (cx-m.cur.X)*nk/m.cur.K + deltaX
	ny := cy - (cy-m.cur.Y)*nk/m.cur.K + deltaY

	m.SetZoom(nk, nx, ny, d)
	return true
}

// ZoomToFit computes and applies a transform that centers the bounding
// box and scales it to occupy ~90% of the viewport, clamped to the zoom
// range. A zero-area box falls back to the midpoint of the zoom range
// centered on the box's own (X, Y) anchor rather than the world origin,
// so a single point still ends up framed; an empty scene produces the
// zero box, where the two coincide. The applied target is returned.
func (m *Manager) ZoomToFit(b Box, d time.Duration) Transform {
	var k float64
	var cx, cy float64
	if b.Empty() {
		k = (m.cfg.MinZoom + m.cfg.MaxZoom) / 2
		cx, cy = b.X, b.Y
	} else {
		k = m.clamp(fitFill / math.Max(b.W/m.cfg.Width, b.H/m.cfg.Height))
		cx, cy = b.X+b.W/2, b.Y+b.H/2
	}

	x := m.cfg.Width/2 - k*cx
	y := m.cfg.Height/2 - k*cy
	m.SetZoom(k, x, y, d)
	return Transform{K: k, X: x, Y: y}
}

// BeginPan captures the transform at gesture start; subsequent Pan
// calls are cumulative deltas from it.
func (m *Manager) BeginPan() { m.panOrigin = m.cur }

// Pan schedules a translation of the pan-origin transform by the
// cumulative pointer delta. Multiple pans within one frame coalesce to
// a single transform write at the next Frame.
func (m *Manager) Pan(dx, dy float64) {
	origin := m.panOrigin
	m.frames.Request("pan", func() {
		m.anim = nil
		m.cur.X = origin.X + dx
		m.cur.Y = origin.Y + dy
		m.fireChange()
	})
}

// Frame advances one tick: applies any coalesced pan write and steps a
// live animation. It reports whether more frames are needed.
func (m *Manager) Frame(now time.Time) bool {
	m.frames.Flush()

	if m.anim != nil {
		m.cur = m.anim.at(now)
		m.fireChange()
		if m.anim.done(now) {
			m.anim = nil
		}
	}
	return m.anim != nil || m.frames.Pending() > 0
}

// animation eases the transform toward a target with ease-out cubic.
type animation struct {
	from, to Transform
	start    time.Time
	dur      time.Duration
}

func (a *animation) at(now time.Time) Transform {
	if a.start.IsZero() {
		a.start = now
	}
	t := float64(now.Sub(a.start)) / float64(a.dur)
	if t >= 1 {
		return a.to
	}
	if t < 0 {
		t = 0
	}
	e := 1 - math.Pow(1-t, 3)
	return Transform{
		K: a.from.K + (a.to.K-a.from.K)*e,
		X: a.from.X + (a.to.X-a.from.X)*e,
		Y: a.from.Y + (a.to.Y-a.from.Y)*e,
	}
}

func (a *animation) done(now time.Time) bool {
	return !a.start.IsZero() && now.Sub(a.start) >= a.dur
}
