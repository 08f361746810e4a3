package canvas

import (
	"image"
	"log/slog"
	"math"
	"time"

	"github.com/graphpad/graphpad/pkg/frameq"
	"github.com/graphpad/graphpad/pkg/graphindex"
	"github.com/graphpad/graphpad/pkg/scenediff"
	"github.com/graphpad/graphpad/pkg/viewport"
)

// Widget is the diagram widget. It holds the derived scene state (index
// snapshots, container stage, viewport transform) and the interaction
// state machine; all logical data stays host-owned.
//
// Everything is single-threaded and cooperative: the host forwards
// pointer/keyboard events and drives Frame from its tick source.
type Widget struct {
	props    Props
	cb       Callbacks
	renderer EntityRenderer
	log      *slog.Logger

	area  image.Rectangle
	vp    *viewport.Manager
	stage *frameq.Stage[ContainerID, Visual]

	cur      scenediff.Snapshot // latest requested scene
	rendered scenediff.Snapshot // scene the stage last fully reconciled toward
	pass     *scenediff.Pass    // in-flight chunked diff, nil when idle

	// Local selection: keys selected by clicking, a transient cache
	// awaiting host confirmation; dropped on the next prop pass.
	localSel    []graphindex.NodeKey
	localSelSet map[graphindex.NodeKey]struct{}

	// Working-copy node positions during a drag; committed to the host
	// on release and discarded on the next prop pass.
	posOverlay map[graphindex.NodeKey]worldPos

	st   GestureState
	drag dragState

	focused      bool
	layoutRan    bool
	layoutRef    LayoutEngine
	bulkDeferred bool
	renderedK    float64

	onTransform func(viewport.Transform)
}

type worldPos struct{ X, Y float64 }

// New creates a widget. A nil renderer selects the default renderer; a
// nil logger discards.
func New(r EntityRenderer, cb Callbacks, logger *slog.Logger) *Widget {
	if r == nil {
		r = NewDefaultRenderer()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	w := &Widget{
		cb:          cb,
		renderer:    r,
		log:         logger,
		stage:       frameq.NewStage[ContainerID, Visual](scenediff.DefaultChunk),
		cur:         scenediff.EmptySnapshot(),
		rendered:    scenediff.EmptySnapshot(),
		localSelSet: make(map[graphindex.NodeKey]struct{}),
		renderedK:   1,
	}
	w.vp = viewport.New(viewport.Config{MinZoom: 0.15, MaxZoom: 1.5}, w.transformChanged)
	return w
}

// OnTransform registers the fast-path hook fired on every transform
// change, bypassing the reconciliation cycle. Meant for zoom-sensitive
// side widgets.
func (w *Widget) OnTransform(fn func(viewport.Transform)) { w.onTransform = fn }

// SetArea assigns the widget's screen region.
func (w *Widget) SetArea(r image.Rectangle) {
	w.area = r
	w.vp.Resize(float64(r.Dx()), float64(r.Dy()))
}

// Area returns the widget's screen region.
func (w *Widget) Area() image.Rectangle { return w.area }

// Viewport exposes the transform manager (read/zoom control only; the
// manager stays the single writer of the transform).
func (w *Widget) Viewport() *viewport.Manager { return w.vp }

// SetFocused updates keyboard focus. Losing focus is a defensive
// terminal transition: any gesture in progress is cancelled so a missed
// pointer-up can never leave the widget stuck mid-drag.
func (w *Widget) SetFocused(focused bool) {
	w.focused = focused
	if !focused {
		w.Cancel()
	}
}

// Focused reports keyboard focus.
func (w *Widget) Focused() bool { return w.focused }

// State returns the current interaction state.
func (w *Widget) State() GestureState { return w.st }

// SetProps feeds a new host scene into the widget: the entity index is
// rebuilt wholesale, selection re-resolved, and a chunked diff against
// the previously rendered snapshot is scheduled. While a drag gesture
// is live the bulk path is deferred until the gesture ends.
func (w *Widget) SetProps(p Props) {
	p = p.withDefaults()

	prevNodes := w.cur.Index.NumNodes()
	w.props = p
	w.stage.SetBudget(p.ChunkSize)
	w.vp.SetBounds(p.MinZoom, p.MaxZoom)

	nodes := p.Nodes
	layoutChanged := p.Layout != nil && p.Layout != w.layoutRef
	if p.Layout != nil && ((!w.layoutRan && prevNodes == 0 && len(nodes) > 0) || layoutChanged) {
		pre := graphindex.Build(nodes, p.Edges, p.KeyOf)
		nodes = p.Layout.AdjustNodes(nodes, pre)
		w.layoutRan = true
	}
	w.layoutRef = p.Layout

	ix := graphindex.Build(nodes, p.Edges, p.KeyOf)

	// The host's selected-key list is authoritative: local clicks were
	// only a cache awaiting this confirmation.
	w.localSel = nil
	clear(w.localSelSet)
	if !w.dragActive() {
		// Drop any committed drag's working copy; the host positions
		// now include the move. A live drag keeps its overlay.
		w.posOverlay = nil
	}

	w.cur = scenediff.Snapshot{
		Index:     ix,
		Selection: graphindex.ResolveSelection(p.SelectedKeys, ix),
	}

	if w.st != StateIdle && w.gestureInvalidated(ix) {
		w.Cancel()
	}

	if w.dragActive() {
		// Full-index-driven re-render is suppressed during a drag so a
		// bulk update cannot corrupt the transient state.
		w.pass = nil
		w.bulkDeferred = true
		return
	}
	w.startPass()
}

func (w *Widget) startPass() {
	w.pass = scenediff.NewPass(w.rendered, w.cur)
}

func (w *Widget) completePass() {
	w.pass = nil
	w.rendered = w.cur
	// Sweep containers for entities no longer in the scene. Passes
	// restarted mid-flight can otherwise leak a container created for
	// an entity that vanished between two prop passes.
	var stale []ContainerID
	w.stage.Each(func(id ContainerID, _ Visual) {
		switch id.Kind {
		case KindNode:
			if w.cur.Index.Node(id.Node) == nil {
				stale = append(stale, id)
			}
		case KindEdge:
			if w.cur.Index.Edge(id.Edge) == nil {
				stale = append(stale, id)
			}
		}
	})
	for _, id := range stale {
		w.stage.Remove(id)
	}
}

// Frame advances one tick: viewport animation, one diff chunk, and one
// budgeted batch of container renders. It reports whether more frames
// are needed.
func (w *Widget) Frame(now time.Time) bool {
	animating := w.vp.Frame(now)

	if w.pass != nil && !w.dragActive() {
		if w.pass.Step(w.props.ChunkSize, w.applyOp) {
			w.completePass()
		}
	}
	w.stage.Flush()

	return animating || w.pass != nil || w.stage.Dirty()
}

// Dirty reports whether the widget has pending work and needs frames.
func (w *Widget) Dirty() bool {
	return w.pass != nil || w.stage.Dirty()
}

func (w *Widget) applyOp(op scenediff.Op) {
	switch {
	case op.Kind == scenediff.OpRemove && op.Entity == scenediff.EntityEdge:
		w.stage.Remove(EdgeContainer(op.Edge))
	case op.Kind == scenediff.OpRemove && op.Entity == scenediff.EntityNode:
		w.stage.Remove(NodeContainer(op.Node))
	case op.Entity == scenediff.EntityNode:
		w.requestNodeRender(op.Node)
	default:
		w.requestEdgeRender(op.Edge)
	}
}

// ── render scheduling ──

func (w *Widget) requestNodeRender(k graphindex.NodeKey) {
	w.stage.RequestRender(NodeContainer(k), func() Visual {
		return w.buildNodeVisual(k)
	})
}

func (w *Widget) requestEdgeRender(k graphindex.EdgeKey) {
	w.stage.RequestRender(EdgeContainer(k), func() Visual {
		return w.buildEdgeVisual(k)
	})
}

func (w *Widget) buildNodeVisual(k graphindex.NodeKey) Visual {
	entry := w.cur.Index.Node(k)
	if entry == nil {
		// Superseded by a removal scheduled in the same pass.
		v, _ := w.stage.Container(NodeContainer(k))
		return v
	}
	scale := w.vp.Transform().K
	return w.renderer.RenderNode(entry.Node, w.nodeAt(entry.Node), w.isNodeSelected(k), scale)
}

func (w *Widget) buildEdgeVisual(k graphindex.EdgeKey) Visual {
	entry := w.cur.Index.Edge(k)
	if entry == nil {
		v, _ := w.stage.Container(EdgeContainer(k))
		return v
	}
	src := w.cur.Index.Node(k.Source)
	dst := w.cur.Index.Node(k.Target)
	if src == nil || dst == nil {
		v, _ := w.stage.Container(EdgeContainer(k))
		return v
	}
	scale := w.vp.Transform().K
	return w.renderer.RenderEdge(entry.Edge,
		w.nodeBounds(src.Node), w.nodeBounds(dst.Node),
		w.isEdgeSelected(k), scale)
}

// nodeWorldPos returns the node's logical position, honoring the drag
// overlay so host-owned records are never written mid-gesture.
func (w *Widget) nodeWorldPos(n graphindex.Node) worldPos {
	if p, ok := w.posOverlay[n.Key]; ok {
		return p
	}
	return worldPos{X: n.X, Y: n.Y}
}

func (w *Widget) nodeAt(n graphindex.Node) image.Point {
	p := w.nodeWorldPos(n)
	k := w.vp.Transform().K
	return image.Pt(int(math.Round(p.X*k)), int(math.Round(p.Y*k)))
}

func (w *Widget) nodeBounds(n graphindex.Node) image.Rectangle {
	at := w.nodeAt(n)
	sz := w.renderer.NodeSize(n, w.vp.Transform().K)
	return image.Rect(at.X, at.Y, at.X+sz.X, at.Y+sz.Y)
}

func (w *Widget) isNodeSelected(k graphindex.NodeKey) bool {
	if _, ok := w.localSelSet[k]; ok {
		return true
	}
	return w.cur.Selection.HasNode(k)
}

func (w *Widget) isEdgeSelected(k graphindex.EdgeKey) bool {
	return w.cur.Selection.HasEdge(k)
}

// ── viewport coupling ──

func (w *Widget) transformChanged(t viewport.Transform) {
	if w.onTransform != nil {
		w.onTransform(t)
	}
	// Pan only moves the shared composition offset; a scale change
	// requires re-rendering entity contents. Scheduled through the
	// stage so a burst of animation steps coalesces per entity and
	// respects the chunk budget; no full reconciliation runs.
	if math.Abs(t.K-w.renderedK) > 1e-3 {
		w.renderedK = t.K
		w.rescaleScene()
	}
}

func (w *Widget) rescaleScene() {
	for _, k := range w.cur.Index.NodeKeys() {
		w.requestNodeRender(k)
	}
	for _, k := range w.cur.Index.EdgeKeys() {
		w.requestEdgeRender(k)
	}
}

// ContentBounds returns the world-space bounding box of all nodes,
// suitable for ZoomToFit.
func (w *Widget) ContentBounds() viewport.Box {
	var b viewport.Box
	for _, k := range w.cur.Index.NodeKeys() {
		n := w.cur.Index.Node(k).Node
		p := w.nodeWorldPos(n)
		sz := w.renderer.NodeSize(n, 1)
		b = b.Union(viewport.Box{X: p.X, Y: p.Y, W: float64(sz.X), H: float64(sz.Y)})
	}
	return b
}

// ZoomToFit frames the whole scene in the viewport.
func (w *Widget) ZoomToFit() {
	w.vp.ZoomToFit(w.ContentBounds(), w.props.FitDuration)
}

// ── hit testing ──

type hitResult struct {
	node  *graphindex.NodeEntry
	edge  *graphindex.EdgeEntry
	arrow bool
}

func (h hitResult) background() bool { return h.node == nil && h.edge == nil }

// toScaled converts a screen point into scaled-world cells.
func (w *Widget) toScaled(screen image.Point) image.Point {
	t := w.vp.Transform()
	return image.Pt(
		screen.X-w.area.Min.X-int(math.Round(t.X)),
		screen.Y-w.area.Min.Y-int(math.Round(t.Y)),
	)
}

// toWorld converts a screen point into world coordinates.
func (w *Widget) toWorld(screen image.Point) (float64, float64) {
	t := w.vp.Transform()
	return t.Invert(float64(screen.X-w.area.Min.X), float64(screen.Y-w.area.Min.Y))
}

// hitTest resolves what lies under a screen point: an edge arrowhead
// within the configured tolerance, else the topmost node, else an edge
// line cell, else background. Arrowheads win over nodes because they
// sit on the target node's border; node-first order would make them
// unreachable.
func (w *Widget) hitTest(screen image.Point) hitResult {
	pt := w.toScaled(screen)

	tol := w.props.ArrowTolerance
	for _, k := range w.cur.Index.EdgeKeys() {
		v, ok := w.stage.Container(EdgeContainer(k))
		if !ok || v.Arrow.Empty() {
			continue
		}
		if pt.In(v.Arrow.Inset(-tol)) {
			return hitResult{edge: w.cur.Index.Edge(k), arrow: true}
		}
	}

	keys := w.cur.Index.NodeKeys()
	for i := len(keys) - 1; i >= 0; i-- {
		entry := w.cur.Index.Node(keys[i])
		if pt.In(w.nodeBounds(entry.Node)) {
			return hitResult{node: entry}
		}
	}

	for _, k := range w.cur.Index.EdgeKeys() {
		v, ok := w.stage.Container(EdgeContainer(k))
		if !ok {
			continue
		}
		for _, c := range v.Cells {
			if c.X == pt.X && c.Y == pt.Y {
				return hitResult{edge: w.cur.Index.Edge(k)}
			}
		}
	}

	return hitResult{}
}

// ── callback helpers (nil-safe; never speculative) ──

func (w *Widget) fireNodeMoved(k graphindex.NodeKey, x, y float64) {
	if w.cb.OnNodeMoved != nil {
		w.cb.OnNodeMoved(k, x, y)
	}
}

func (w *Widget) fireNodeSelected(k graphindex.NodeKey) {
	if w.cb.OnNodeSelected != nil {
		w.cb.OnNodeSelected(k)
	}
}

func (w *Widget) fireEdgeSelected(e graphindex.Edge) {
	if w.cb.OnEdgeSelected != nil {
		w.cb.OnEdgeSelected(e)
	}
}

func (w *Widget) fireEdgeCreated(src, dst graphindex.NodeKey) {
	if w.cb.OnEdgeCreated != nil {
		w.cb.OnEdgeCreated(src, dst)
	}
}

func (w *Widget) fireEdgeSwapped(e graphindex.Edge, nt graphindex.NodeKey) {
	if w.cb.OnEdgeSwapped != nil {
		w.cb.OnEdgeSwapped(e, nt)
	}
}

func (w *Widget) fireBackgroundClicked(x, y float64) {
	if w.cb.OnBackgroundClicked != nil {
		w.cb.OnBackgroundClicked(x, y)
	}
}

func (w *Widget) fireNodeCreated(x, y float64) {
	if w.cb.OnNodeCreated != nil {
		w.cb.OnNodeCreated(x, y)
	}
}
