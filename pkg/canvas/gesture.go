package canvas

import (
	"image"

	"github.com/graphpad/graphpad/pkg/graphindex"
)

// GestureState is the single mode variable of the interaction state
// machine. Exactly one gesture can be live at a time; every transition
// out of a non-idle state ends in Idle.
type GestureState int

const (
	StateIdle GestureState = iota
	StatePanning
	StateZoomGesture
	StateDraggingNode
	StateCreatingEdge
	StateRewiringEdge
)

func (s GestureState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePanning:
		return "panning"
	case StateZoomGesture:
		return "zoom"
	case StateDraggingNode:
		return "dragging-node"
	case StateCreatingEdge:
		return "creating-edge"
	case StateRewiringEdge:
		return "rewiring-edge"
	default:
		return "unknown"
	}
}

// PointerKind discriminates pointer events.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

// PointerButton identifies the button of a pointer event.
type PointerButton int

const (
	ButtonNone PointerButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	ButtonWheelUp
	ButtonWheelDown
)

// PointerEvent is a pointer sample in screen cells.
type PointerEvent struct {
	Kind   PointerKind
	Button PointerButton
	Pos    image.Point
	Ctrl   bool
	Alt    bool
}

// dragNode records one moved node's position at gesture start.
type dragNode struct {
	key  graphindex.NodeKey
	orig worldPos
}

// dragState carries the data of the live gesture.
type dragState struct {
	start image.Point // screen position at gesture start
	moved bool

	node   graphindex.NodeKey // DraggingNode: grabbed node
	group  []dragNode         // DraggingNode: all nodes moving together
	anchor worldPos           // world position of the pointer at gesture start

	source graphindex.NodeKey // CreatingEdge: source node
	edge   graphindex.Edge    // RewiringEdge: edge being re-targeted
}

// ── guard predicates ──
//
// Pure functions over the event, the hit result and the props; the
// transition table reads as a priority list of these.

func startsEdgeCreation(ev PointerEvent, hit hitResult, p Props) bool {
	return ev.Button == ButtonLeft && ev.Ctrl && hit.node != nil && !p.ReadOnly
}

func startsRewire(ev PointerEvent, hit hitResult, p Props) bool {
	return ev.Button == ButtonLeft && hit.edge != nil && hit.arrow && !p.ReadOnly
}

func startsNodeDrag(ev PointerEvent, hit hitResult) bool {
	return ev.Button == ButtonLeft && hit.node != nil
}

func startsPan(ev PointerEvent, hit hitResult) bool {
	return ev.Button == ButtonMiddle ||
		(ev.Button == ButtonLeft && hit.background())
}

// Pointer feeds one pointer event through the state machine.
func (w *Widget) Pointer(ev PointerEvent) {
	switch ev.Kind {
	case PointerDown:
		w.pointerDown(ev)
	case PointerMove:
		w.pointerMove(ev)
	case PointerUp:
		w.pointerUp(ev)
	}
}

func (w *Widget) pointerDown(ev PointerEvent) {
	// Wheel zoom is a self-terminating gesture: it applies and returns
	// to idle within one event, and never interrupts a live gesture.
	if ev.Button == ButtonWheelUp || ev.Button == ButtonWheelDown {
		if w.st == StateIdle {
			w.st = StateZoomGesture
			w.wheelZoom(ev.Button == ButtonWheelUp)
			w.st = StateIdle
		}
		return
	}

	if w.st != StateIdle {
		// A second button press mid-gesture is a protocol violation
		// from the host's event source; drop it rather than corrupt the
		// live gesture.
		w.log.Debug("pointer down ignored mid-gesture", "state", w.st.String())
		return
	}

	hit := w.hitTest(ev.Pos)

	switch {
	case startsEdgeCreation(ev, hit, w.props):
		w.st = StateCreatingEdge
		w.drag = dragState{start: ev.Pos, source: hit.node.Node.Key}
		w.renderTransient(w.nodeBounds(hit.node.Node), w.toScaled(ev.Pos))

	case startsRewire(ev, hit, w.props):
		w.st = StateRewiringEdge
		w.drag = dragState{start: ev.Pos, edge: hit.edge.Edge}
		if src := w.cur.Index.Node(hit.edge.Edge.Source); src != nil {
			w.renderTransient(w.nodeBounds(src.Node), w.toScaled(ev.Pos))
		}

	case startsNodeDrag(ev, hit):
		wx, wy := w.toWorld(ev.Pos)
		w.st = StateDraggingNode
		w.drag = dragState{
			start:  ev.Pos,
			node:   hit.node.Node.Key,
			group:  w.dragGroup(hit.node.Node),
			anchor: worldPos{X: wx, Y: wy},
		}

	case hit.edge != nil:
		w.fireEdgeSelected(hit.edge.Edge)

	case startsPan(ev, hit):
		w.st = StatePanning
		w.drag = dragState{start: ev.Pos}
		w.vp.BeginPan()
	}
}

func (w *Widget) pointerMove(ev PointerEvent) {
	if w.st == StateIdle {
		return
	}
	if ev.Pos != w.drag.start {
		w.drag.moved = true
	}

	switch w.st {
	case StateDraggingNode:
		wx, wy := w.toWorld(ev.Pos)
		dx, dy := wx-w.drag.anchor.X, wy-w.drag.anchor.Y
		for _, g := range w.drag.group {
			w.setOverlay(g.key, worldPos{X: g.orig.X + dx, Y: g.orig.Y + dy})
		}

	case StateCreatingEdge:
		if src := w.cur.Index.Node(w.drag.source); src != nil {
			w.renderTransient(w.nodeBounds(src.Node), w.toScaled(ev.Pos))
		}

	case StateRewiringEdge:
		if src := w.cur.Index.Node(w.drag.edge.Source); src != nil {
			w.renderTransient(w.nodeBounds(src.Node), w.toScaled(ev.Pos))
		}

	case StatePanning:
		d := ev.Pos.Sub(w.drag.start)
		w.vp.Pan(float64(d.X), float64(d.Y))
	}
}

func (w *Widget) pointerUp(ev PointerEvent) {
	st := w.st
	drag := w.drag
	w.st = StateIdle
	w.drag = dragState{}

	switch st {
	case StateDraggingNode:
		if drag.moved {
			// Commit the working copies to the host. The overlay stays in
			// place until the next prop pass so no node snaps back while
			// the host round-trips the move.
			for _, g := range drag.group {
				if p, ok := w.posOverlay[g.key]; ok {
					w.fireNodeMoved(g.key, p.X, p.Y)
				}
			}
		} else {
			w.selectNodeLocally(drag.node)
			w.fireNodeSelected(drag.node)
		}

	case StateCreatingEdge:
		w.stage.Remove(CustomContainer())
		if hit := w.hitTest(ev.Pos); hit.node != nil {
			w.commitEdgeCreation(drag.source, hit.node.Node)
		}

	case StateRewiringEdge:
		w.stage.Remove(CustomContainer())
		// No valid drop target: the canonical edge container was never
		// touched, so the edge visually snaps back for free.
		if hit := w.hitTest(ev.Pos); hit.node != nil {
			w.commitRewire(drag.edge, hit.node.Node)
		}

	case StatePanning:
		if !drag.moved {
			x, y := w.toWorld(ev.Pos)
			if ev.Ctrl && !w.props.ReadOnly {
				w.fireNodeCreated(x, y)
			} else {
				w.clearLocalSelection()
				w.fireBackgroundClicked(x, y)
			}
		}
	}

	w.resumeDeferred()
}

func (w *Widget) wheelZoom(in bool) {
	step := w.props.ZoomStep
	if !in {
		step = -step
	}
	if !w.vp.ModifyZoom(step, 0, 0, w.props.ZoomDuration) {
		w.log.Debug("zoom step rejected at bound", "k", w.vp.Transform().K)
	}
}

// commitEdgeCreation validates and reports a new edge. Self-loops,
// duplicates in either direction and host-vetoed pairs are rejected
// silently; rejected gestures fire nothing.
func (w *Widget) commitEdgeCreation(source graphindex.NodeKey, target graphindex.Node) {
	if target.Key == source {
		return
	}
	if w.cur.Index.Connected(source, target.Key) {
		return
	}
	if w.props.CanCreateEdge != nil {
		src := w.cur.Index.Node(source)
		if src == nil || !w.props.CanCreateEdge(src.Node, target) {
			return
		}
	}
	w.fireEdgeCreated(source, target.Key)
}

// commitRewire validates and reports an edge target swap.
func (w *Widget) commitRewire(e graphindex.Edge, target graphindex.Node) {
	if target.Key == e.Source || target.Key == e.Target {
		return
	}
	if w.cur.Index.Connected(e.Source, target.Key) {
		return
	}
	if w.props.CanSwapEdge != nil && !w.props.CanSwapEdge(e, target) {
		return
	}
	w.fireEdgeSwapped(e, target.Key)
}

// Cancel aborts any live gesture without committing: the transient edge
// disappears, a dragged node snaps back to its host position, and no
// callback fires. Safe to call from any state.
func (w *Widget) Cancel() {
	if w.st == StateIdle {
		w.resumeDeferred()
		return
	}
	st := w.st
	drag := w.drag
	w.st = StateIdle
	w.drag = dragState{}

	w.stage.Remove(CustomContainer())
	if st == StateDraggingNode {
		for _, g := range drag.group {
			w.dropOverlay(g.key)
		}
	}
	w.log.Debug("gesture cancelled", "state", st.String())
	w.resumeDeferred()
}

// resumeDeferred restarts the bulk diff pass that SetProps parked while
// a gesture was live.
func (w *Widget) resumeDeferred() {
	if w.bulkDeferred && !w.dragActive() {
		w.bulkDeferred = false
		w.startPass()
	}
}

// dragGroup collects the nodes a drag moves together: grabbing a
// selected node drags the whole selection by the same delta, grabbing
// an unselected one drags it alone.
func (w *Widget) dragGroup(grabbed graphindex.Node) []dragNode {
	group := []dragNode{{key: grabbed.Key, orig: w.nodeWorldPos(grabbed)}}
	if !w.isNodeSelected(grabbed.Key) {
		return group
	}
	for _, k := range w.effectiveSelection().nodes {
		if k == grabbed.Key {
			continue
		}
		if entry := w.cur.Index.Node(k); entry != nil {
			group = append(group, dragNode{key: k, orig: w.nodeWorldPos(entry.Node)})
		}
	}
	return group
}

// dragActive reports whether a container-touching gesture is live.
// Bulk prop passes are suppressed for these so an index swap cannot
// yank the entities a gesture is holding.
func (w *Widget) dragActive() bool {
	switch w.st {
	case StateDraggingNode, StateCreatingEdge, StateRewiringEdge:
		return true
	}
	return false
}

// gestureInvalidated reports whether new props removed the entity the
// live gesture references.
func (w *Widget) gestureInvalidated(ix *graphindex.Index) bool {
	switch w.st {
	case StateDraggingNode:
		for _, g := range w.drag.group {
			if ix.Node(g.key) == nil {
				return true
			}
		}
		return false
	case StateCreatingEdge:
		return ix.Node(w.drag.source) == nil
	case StateRewiringEdge:
		return ix.Edge(w.drag.edge.Key()) == nil
	}
	return false
}

// ── gesture-local rendering ──

func (w *Widget) renderTransient(from image.Rectangle, to image.Point) {
	w.stage.RequestRender(CustomContainer(), func() Visual {
		return w.renderer.RenderTransientEdge(from, to, w.vp.Transform().K)
	})
}

// setOverlay moves a node's working-copy position and re-renders the
// node and its incident edges.
func (w *Widget) setOverlay(k graphindex.NodeKey, p worldPos) {
	if w.posOverlay == nil {
		w.posOverlay = make(map[graphindex.NodeKey]worldPos)
	}
	w.posOverlay[k] = p
	w.requestNodeRender(k)
	for _, e := range w.cur.Index.IncidentEdges(k) {
		w.requestEdgeRender(e.Edge.Key())
	}
}

// dropOverlay discards a node's working copy, snapping it back.
func (w *Widget) dropOverlay(k graphindex.NodeKey) {
	if _, ok := w.posOverlay[k]; !ok {
		return
	}
	delete(w.posOverlay, k)
	w.requestNodeRender(k)
	for _, e := range w.cur.Index.IncidentEdges(k) {
		w.requestEdgeRender(e.Edge.Key())
	}
}

// selectNodeLocally marks a node selected ahead of host confirmation.
func (w *Widget) selectNodeLocally(k graphindex.NodeKey) {
	w.clearLocalSelection()
	w.localSel = append(w.localSel, k)
	w.localSelSet[k] = struct{}{}
	w.requestNodeRender(k)
}

func (w *Widget) clearLocalSelection() {
	for _, k := range w.localSel {
		delete(w.localSelSet, k)
		if w.cur.Index.Node(k) != nil {
			w.requestNodeRender(k)
		}
	}
	w.localSel = nil
}
