package canvas

import (
	"github.com/graphpad/graphpad/pkg/graphindex"
)

// Key feeds one key press (bubbletea key string form) to the widget.
// It reports whether the key was consumed. Keys are ignored without
// focus or while a gesture is live.
func (w *Widget) Key(key string) bool {
	if !w.focused || w.st != StateIdle {
		return false
	}

	switch key {
	case "delete", "backspace":
		if w.props.ReadOnly {
			return false
		}
		return w.deleteSelection()

	case "ctrl+z":
		if w.cb.OnUndo != nil {
			w.cb.OnUndo()
			return true
		}
	case "ctrl+c":
		if w.cb.OnCopy != nil {
			w.cb.OnCopy()
			return true
		}
	case "ctrl+v":
		if w.cb.OnPaste != nil {
			w.cb.OnPaste()
			return true
		}

	case "+", "=":
		w.wheelZoom(true)
		return true
	case "-", "_":
		w.wheelZoom(false)
		return true
	case "f":
		w.ZoomToFit()
		return true

	case "up", "down", "left", "right":
		w.keyPan(key)
		return true
	}
	return false
}

// keyPanStep is the per-press pan distance in cells.
const keyPanStep = 4

func (w *Widget) keyPan(key string) {
	var dx, dy float64
	switch key {
	case "up":
		dy = keyPanStep
	case "down":
		dy = -keyPanStep
	case "left":
		dx = keyPanStep
	case "right":
		dx = -keyPanStep
	}
	w.vp.BeginPan()
	w.vp.Pan(dx, dy)
}

// deleteSelection requests deletion of the effective selection: local
// clicks take precedence over the host-confirmed set. Per-entity
// permission predicates filter what is actually requested; a veto of
// every candidate fires nothing.
func (w *Widget) deleteSelection() bool {
	sel := w.effectiveSelection()
	if len(sel.nodes) == 0 && len(sel.edges) == 0 {
		return false
	}

	for _, e := range sel.edges {
		if w.props.CanDeleteEdge != nil && !w.props.CanDeleteEdge(e) {
			continue
		}
		if w.cb.OnEdgeDeleted != nil {
			w.cb.OnEdgeDeleted(e)
		}
	}

	removedSet := make(map[graphindex.NodeKey]struct{}, len(sel.nodes))
	var removed []graphindex.NodeKey
	for _, k := range sel.nodes {
		entry := w.cur.Index.Node(k)
		if entry == nil {
			continue
		}
		if w.props.CanDeleteNode != nil && !w.props.CanDeleteNode(entry.Node) {
			continue
		}
		removedSet[k] = struct{}{}
		removed = append(removed, k)
	}
	if len(removed) == 0 {
		return len(sel.edges) > 0
	}

	// The host gets both halves of the split so it can update its
	// arrays without re-deriving scene membership.
	remaining := make([]graphindex.NodeKey, 0, w.cur.Index.NumNodes()-len(removed))
	for _, k := range w.cur.Index.NodeKeys() {
		if _, gone := removedSet[k]; !gone {
			remaining = append(remaining, k)
		}
	}
	if w.cb.OnNodesDeleted != nil {
		w.cb.OnNodesDeleted(removed, remaining)
	}
	return true
}

type effectiveSel struct {
	nodes []graphindex.NodeKey
	edges []graphindex.Edge
}

func (w *Widget) effectiveSelection() effectiveSel {
	var sel effectiveSel
	if len(w.localSel) > 0 {
		sel.nodes = append(sel.nodes, w.localSel...)
		return sel
	}
	for _, n := range w.cur.Selection.Nodes {
		sel.nodes = append(sel.nodes, n.Key)
	}
	sel.edges = append(sel.edges, w.cur.Selection.Edges...)
	return sel
}
