package canvas

import (
	"image"
	"testing"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphpad/graphpad/pkg/cellbuf"
	"github.com/graphpad/graphpad/pkg/drawutil"
	"github.com/graphpad/graphpad/pkg/graphindex"
)

// fakeRenderer gives every node a fixed 4×2 footprint and draws edges
// with a real arrowhead so hit tests exercise the same geometry the
// default renderer produces.
type fakeRenderer struct {
	transients int
}

func (f *fakeRenderer) NodeSize(graphindex.Node, float64) image.Point {
	return image.Pt(4, 2)
}

func (f *fakeRenderer) RenderNode(n graphindex.Node, at image.Point, selected bool, scale float64) Visual {
	return Visual{Kind: KindNode, Z: 2, Content: "####\n####", At: at, Size: image.Pt(4, 2)}
}

func (f *fakeRenderer) RenderEdge(e graphindex.Edge, from, to image.Rectangle, selected bool, scale float64) Visual {
	fc := image.Pt((from.Min.X+from.Max.X)/2, (from.Min.Y+from.Max.Y)/2)
	tc := image.Pt((to.Min.X+to.Max.X)/2, (to.Min.Y+to.Max.Y)/2)
	p1 := drawutil.EdgeExit(from, tc)
	p2 := drawutil.EdgeExit(to, fc)
	cells, head := drawutil.ArrowLineCells(p1.X, p1.Y, p2.X, p2.Y, StyleEdge, StyleEdge)
	return Visual{
		Kind:  KindEdge,
		Cells: cells,
		Arrow: image.Rect(head.X, head.Y, head.X+1, head.Y+1),
	}
}

func (f *fakeRenderer) RenderTransientEdge(from image.Rectangle, to image.Point, scale float64) Visual {
	f.transients++
	fc := image.Pt((from.Min.X+from.Max.X)/2, (from.Min.Y+from.Max.Y)/2)
	return Visual{Kind: KindCustom, Cells: drawutil.DashedLineCells(fc.X, fc.Y, to.X, to.Y, StyleEdgePreview)}
}

func (f *fakeRenderer) EdgeStyles() map[cellbuf.StyleKey]lipgloss.Style {
	return map[cellbuf.StyleKey]lipgloss.Style{}
}

// settle runs frames until the widget has no pending work.
func settle(t *testing.T, w *Widget) {
	t.Helper()
	now := time.Now()
	for i := 0; i < 200; i++ {
		if !w.Frame(now) && !w.Dirty() {
			return
		}
		now = now.Add(33 * time.Millisecond)
	}
	t.Fatal("widget did not settle")
}

func testNodes() []graphindex.Node {
	return []graphindex.Node{
		{Key: "a", X: 10, Y: 5},
		{Key: "b", X: 30, Y: 5},
	}
}

func newTestWidget(t *testing.T, cb Callbacks, p Props) (*Widget, *fakeRenderer) {
	t.Helper()
	r := &fakeRenderer{}
	w := New(r, cb, nil)
	w.SetArea(image.Rect(0, 0, 80, 24))
	w.SetFocused(true)
	w.SetProps(p)
	settle(t, w)
	return w, r
}

func down(x, y int) PointerEvent {
	return PointerEvent{Kind: PointerDown, Button: ButtonLeft, Pos: image.Pt(x, y)}
}

func move(x, y int) PointerEvent {
	return PointerEvent{Kind: PointerMove, Button: ButtonLeft, Pos: image.Pt(x, y)}
}

func up(x, y int) PointerEvent {
	return PointerEvent{Kind: PointerUp, Button: ButtonLeft, Pos: image.Pt(x, y)}
}

func ctrl(ev PointerEvent) PointerEvent { ev.Ctrl = true; return ev }

func TestClickSelectsNode(t *testing.T) {
	var selected []graphindex.NodeKey
	w, _ := newTestWidget(t, Callbacks{
		OnNodeSelected: func(k graphindex.NodeKey) { selected = append(selected, k) },
	}, Props{Nodes: testNodes()})

	w.Pointer(down(11, 6))
	w.Pointer(up(11, 6))

	assert.Equal(t, []graphindex.NodeKey{"a"}, selected)
	assert.Equal(t, StateIdle, w.State())
	assert.True(t, w.isNodeSelected("a"), "local selection should apply before host confirms")
}

func TestLocalSelectionClearedByProps(t *testing.T) {
	w, _ := newTestWidget(t, Callbacks{}, Props{Nodes: testNodes()})

	w.Pointer(down(11, 6))
	w.Pointer(up(11, 6))
	require.True(t, w.isNodeSelected("a"))

	w.SetProps(Props{Nodes: testNodes()})
	settle(t, w)
	assert.False(t, w.isNodeSelected("a"), "host key list is authoritative on every pass")
}

func TestDragCommitsOnRelease(t *testing.T) {
	var movedKey graphindex.NodeKey
	var movedX, movedY float64
	w, _ := newTestWidget(t, Callbacks{
		OnNodeMoved: func(k graphindex.NodeKey, x, y float64) { movedKey, movedX, movedY = k, x, y },
	}, Props{Nodes: testNodes()})

	w.Pointer(down(11, 6))
	assert.Equal(t, StateDraggingNode, w.State())
	w.Pointer(move(16, 9))
	assert.Equal(t, graphindex.NodeKey(""), movedKey, "no callback mid-drag")
	w.Pointer(up(16, 9))

	assert.Equal(t, graphindex.NodeKey("a"), movedKey)
	assert.Equal(t, 15.0, movedX)
	assert.Equal(t, 8.0, movedY)

	// The working copy survives until the next prop pass so the node
	// doesn't snap back while the host round-trips the move.
	settle(t, w)
	v, ok := w.stage.Container(NodeContainer("a"))
	require.True(t, ok)
	assert.Equal(t, image.Pt(15, 8), v.At)
}

func TestDragMovesSelectionTogether(t *testing.T) {
	moved := map[graphindex.NodeKey][2]float64{}
	w, _ := newTestWidget(t, Callbacks{
		OnNodeMoved: func(k graphindex.NodeKey, x, y float64) { moved[k] = [2]float64{x, y} },
	}, Props{
		Nodes:        testNodes(),
		SelectedKeys: []graphindex.NodeKey{"a", "b"},
	})

	// Grabbing a selected node drags the whole selection by one delta.
	w.Pointer(down(11, 6))
	w.Pointer(move(16, 9))
	w.Pointer(up(16, 9))

	assert.Equal(t, [2]float64{15, 8}, moved["a"])
	assert.Equal(t, [2]float64{35, 8}, moved["b"])
}

func TestDragOfUnselectedNodeMovesItAlone(t *testing.T) {
	moved := map[graphindex.NodeKey][2]float64{}
	w, _ := newTestWidget(t, Callbacks{
		OnNodeMoved: func(k graphindex.NodeKey, x, y float64) { moved[k] = [2]float64{x, y} },
	}, Props{
		Nodes:        testNodes(),
		SelectedKeys: []graphindex.NodeKey{"b"},
	})

	w.Pointer(down(11, 6)) // a is not part of the selection
	w.Pointer(move(16, 9))
	w.Pointer(up(16, 9))

	assert.Equal(t, map[graphindex.NodeKey][2]float64{"a": {15, 8}}, moved)
}

func TestCancelMidDragSnapsBack(t *testing.T) {
	var moved int
	w, _ := newTestWidget(t, Callbacks{
		OnNodeMoved: func(graphindex.NodeKey, float64, float64) { moved++ },
	}, Props{Nodes: testNodes()})

	w.Pointer(down(11, 6))
	w.Pointer(move(20, 10))
	w.SetFocused(false) // focus loss cancels the gesture

	assert.Equal(t, StateIdle, w.State())
	assert.Zero(t, moved)

	settle(t, w)
	v, ok := w.stage.Container(NodeContainer("a"))
	require.True(t, ok)
	assert.Equal(t, image.Pt(10, 5), v.At, "node snaps back to host position")
}

func TestEdgeCreation(t *testing.T) {
	var created [][2]graphindex.NodeKey
	w, r := newTestWidget(t, Callbacks{
		OnEdgeCreated: func(s, d graphindex.NodeKey) { created = append(created, [2]graphindex.NodeKey{s, d}) },
	}, Props{Nodes: testNodes()})

	w.Pointer(ctrl(down(11, 6)))
	assert.Equal(t, StateCreatingEdge, w.State())
	w.Pointer(move(20, 6))
	settle(t, w) // flush the coalesced transient render
	assert.Greater(t, r.transients, 0, "transient edge renders while dragging")

	w.Pointer(up(31, 6))
	assert.Equal(t, [][2]graphindex.NodeKey{{"a", "b"}}, created)

	_, ok := w.stage.Container(CustomContainer())
	assert.False(t, ok, "transient container removed on release")
}

func TestEdgeCreationRejectsSelfLoop(t *testing.T) {
	var created int
	w, _ := newTestWidget(t, Callbacks{
		OnEdgeCreated: func(graphindex.NodeKey, graphindex.NodeKey) { created++ },
	}, Props{Nodes: testNodes()})

	w.Pointer(ctrl(down(11, 6)))
	w.Pointer(move(13, 6))
	w.Pointer(up(11, 6))

	assert.Zero(t, created)
	assert.Equal(t, StateIdle, w.State())
}

func TestEdgeCreationRejectsDuplicate(t *testing.T) {
	var created int
	w, _ := newTestWidget(t, Callbacks{
		OnEdgeCreated: func(graphindex.NodeKey, graphindex.NodeKey) { created++ },
	}, Props{
		Nodes: testNodes(),
		Edges: []graphindex.Edge{{Source: "a", Target: "b"}},
	})

	w.Pointer(ctrl(down(11, 6)))
	w.Pointer(up(33, 6)) // inside b, clear of the arrowhead

	assert.Zero(t, created)
}

func TestEdgeCreationRejectsReverseDuplicate(t *testing.T) {
	var created int
	w, _ := newTestWidget(t, Callbacks{
		OnEdgeCreated: func(graphindex.NodeKey, graphindex.NodeKey) { created++ },
	}, Props{
		Nodes: testNodes(),
		Edges: []graphindex.Edge{{Source: "b", Target: "a"}},
	})

	// a→b duplicates the existing b→a; connectivity is undirected for
	// creation purposes.
	w.Pointer(ctrl(down(11, 6)))
	w.Pointer(up(33, 6))

	assert.Zero(t, created)
}

func TestEdgeCreationHonorsPredicate(t *testing.T) {
	var created int
	w, _ := newTestWidget(t, Callbacks{
		OnEdgeCreated: func(graphindex.NodeKey, graphindex.NodeKey) { created++ },
	}, Props{
		Nodes:         testNodes(),
		CanCreateEdge: func(graphindex.Node, graphindex.Node) bool { return false },
	})

	w.Pointer(ctrl(down(11, 6)))
	w.Pointer(up(31, 6))

	assert.Zero(t, created, "vetoed gesture fires nothing")
}

func TestRewire(t *testing.T) {
	var swapped []graphindex.NodeKey
	w, _ := newTestWidget(t, Callbacks{
		OnEdgeSwapped: func(e graphindex.Edge, nt graphindex.NodeKey) { swapped = append(swapped, nt) },
	}, Props{
		Nodes: append(testNodes(), graphindex.Node{Key: "c", X: 30, Y: 12}),
		Edges: []graphindex.Edge{{Source: "a", Target: "b"}},
	})

	// Arrowhead of a→b sits on b's border facing a.
	w.Pointer(down(30, 6))
	require.Equal(t, StateRewiringEdge, w.State())
	w.Pointer(move(31, 10))
	w.Pointer(up(32, 13)) // inside c

	assert.Equal(t, []graphindex.NodeKey{"c"}, swapped)
}

func TestRewireDroppedOnBackgroundSnapsBack(t *testing.T) {
	var swapped int
	w, _ := newTestWidget(t, Callbacks{
		OnEdgeSwapped: func(graphindex.Edge, graphindex.NodeKey) { swapped++ },
	}, Props{
		Nodes: testNodes(),
		Edges: []graphindex.Edge{{Source: "a", Target: "b"}},
	})

	w.Pointer(down(30, 6))
	require.Equal(t, StateRewiringEdge, w.State())
	w.Pointer(up(60, 20))

	assert.Zero(t, swapped)
	_, ok := w.stage.Container(CustomContainer())
	assert.False(t, ok)
	// Canonical edge container was never touched.
	_, ok = w.stage.Container(EdgeContainer(graphindex.EdgeKey{Source: "a", Target: "b"}))
	assert.True(t, ok)
}

func TestBackgroundClick(t *testing.T) {
	var bx, by float64
	clicked := false
	w, _ := newTestWidget(t, Callbacks{
		OnBackgroundClicked: func(x, y float64) { clicked, bx, by = true, x, y },
	}, Props{Nodes: testNodes()})

	w.Pointer(down(50, 20))
	w.Pointer(up(50, 20))

	assert.True(t, clicked)
	assert.Equal(t, 50.0, bx)
	assert.Equal(t, 20.0, by)
}

func TestCtrlBackgroundClickCreatesNode(t *testing.T) {
	var createdAt []float64
	w, _ := newTestWidget(t, Callbacks{
		OnNodeCreated: func(x, y float64) { createdAt = []float64{x, y} },
	}, Props{Nodes: testNodes()})

	w.Pointer(down(50, 20))
	w.Pointer(ctrl(up(50, 20)))

	assert.Equal(t, []float64{50, 20}, createdAt)
}

func TestPanDoesNotClick(t *testing.T) {
	var clicked int
	w, _ := newTestWidget(t, Callbacks{
		OnBackgroundClicked: func(float64, float64) { clicked++ },
	}, Props{Nodes: testNodes()})

	w.Pointer(down(50, 20))
	assert.Equal(t, StatePanning, w.State())
	w.Pointer(move(55, 23))
	w.Pointer(up(55, 23))
	settle(t, w)

	assert.Zero(t, clicked)
	tr := w.Viewport().Transform()
	assert.Equal(t, 5.0, tr.X)
	assert.Equal(t, 3.0, tr.Y)
}

func TestWheelZoomRejectedAtBound(t *testing.T) {
	w, _ := newTestWidget(t, Callbacks{}, Props{Nodes: testNodes()})

	wheel := PointerEvent{Kind: PointerDown, Button: ButtonWheelUp}
	for i := 0; i < 5; i++ {
		w.Pointer(wheel)
	}
	assert.InDelta(t, 1.5, w.Viewport().Transform().K, 1e-9)

	w.Pointer(wheel) // at the ceiling: rejected, not clamped
	assert.InDelta(t, 1.5, w.Viewport().Transform().K, 1e-9)
	assert.Equal(t, StateIdle, w.State())
}

func TestZoomRescalesScene(t *testing.T) {
	w, _ := newTestWidget(t, Callbacks{}, Props{Nodes: testNodes()})

	w.Pointer(PointerEvent{Kind: PointerDown, Button: ButtonWheelDown})
	settle(t, w)

	v, ok := w.stage.Container(NodeContainer("a"))
	require.True(t, ok)
	assert.Equal(t, image.Pt(9, 5), v.At, "node visual re-rendered in scaled-world cells")
}

func TestDeleteSelection(t *testing.T) {
	var removed, remaining []graphindex.NodeKey
	w, _ := newTestWidget(t, Callbacks{
		OnNodesDeleted: func(rm, keep []graphindex.NodeKey) { removed, remaining = rm, keep },
	}, Props{
		Nodes:        testNodes(),
		Edges:        []graphindex.Edge{{Source: "a", Target: "b"}},
		SelectedKeys: []graphindex.NodeKey{"a"},
	})

	require.True(t, w.Key("delete"))

	assert.Equal(t, []graphindex.NodeKey{"a"}, removed)
	assert.Equal(t, []graphindex.NodeKey{"b"}, remaining)
}

func TestDeleteHonorsPredicate(t *testing.T) {
	var deleted int
	w, _ := newTestWidget(t, Callbacks{
		OnNodesDeleted: func([]graphindex.NodeKey, []graphindex.NodeKey) { deleted++ },
	}, Props{
		Nodes:         testNodes(),
		SelectedKeys:  []graphindex.NodeKey{"a"},
		CanDeleteNode: func(graphindex.Node) bool { return false },
	})

	w.Key("delete")
	assert.Zero(t, deleted)
}

func TestReadOnlyBlocksMutation(t *testing.T) {
	var fired int
	w, _ := newTestWidget(t, Callbacks{
		OnEdgeCreated:  func(graphindex.NodeKey, graphindex.NodeKey) { fired++ },
		OnNodesDeleted: func([]graphindex.NodeKey, []graphindex.NodeKey) { fired++ },
	}, Props{
		Nodes:        testNodes(),
		SelectedKeys: []graphindex.NodeKey{"a"},
		ReadOnly:     true,
	})

	w.Pointer(ctrl(down(11, 6)))
	assert.NotEqual(t, StateCreatingEdge, w.State(), "read-only never starts edge creation")
	w.Cancel()
	w.Key("delete")
	assert.Zero(t, fired)
}

func TestPropsDeferredDuringDrag(t *testing.T) {
	w, _ := newTestWidget(t, Callbacks{}, Props{Nodes: testNodes()})

	w.Pointer(down(11, 6))
	w.Pointer(move(15, 8))

	// A bulk pass arriving mid-drag is parked, not applied.
	w.SetProps(Props{Nodes: append(testNodes(), graphindex.Node{Key: "z", X: 50, Y: 10})})
	w.Frame(time.Now())
	_, ok := w.stage.Container(NodeContainer("z"))
	assert.False(t, ok, "bulk update suppressed while dragging")

	w.Pointer(up(15, 8))
	settle(t, w)
	_, ok = w.stage.Container(NodeContainer("z"))
	assert.True(t, ok, "deferred pass resumes after the gesture ends")
}

func TestGestureCancelledWhenEntityRemoved(t *testing.T) {
	var moved int
	w, _ := newTestWidget(t, Callbacks{
		OnNodeMoved: func(graphindex.NodeKey, float64, float64) { moved++ },
	}, Props{Nodes: testNodes()})

	w.Pointer(down(11, 6))
	w.Pointer(move(15, 8))

	// New props drop the dragged node: the gesture can't outlive it.
	w.SetProps(Props{Nodes: testNodes()[1:]})
	assert.Equal(t, StateIdle, w.State())

	w.Pointer(up(15, 8))
	assert.Zero(t, moved)
}

func TestRepeatedPropsKeepContainersStable(t *testing.T) {
	p := Props{
		Nodes: testNodes(),
		Edges: []graphindex.Edge{{Source: "a", Target: "b"}},
	}
	w, _ := newTestWidget(t, Callbacks{}, p)
	require.Equal(t, 3, w.stage.Len())

	for i := 0; i < 4; i++ {
		w.SetProps(p)
		settle(t, w)
	}
	assert.Equal(t, 3, w.stage.Len(), "no duplicate containers across passes")
}

func TestRemovedEntitiesDropContainers(t *testing.T) {
	w, _ := newTestWidget(t, Callbacks{}, Props{
		Nodes: testNodes(),
		Edges: []graphindex.Edge{{Source: "a", Target: "b"}},
	})

	w.SetProps(Props{Nodes: testNodes()[:1]})
	settle(t, w)

	assert.Equal(t, 1, w.stage.Len())
	_, ok := w.stage.Container(NodeContainer("b"))
	assert.False(t, ok)
	_, ok = w.stage.Container(EdgeContainer(graphindex.EdgeKey{Source: "a", Target: "b"}))
	assert.False(t, ok)
}

func TestZoomToFitUsesContentBounds(t *testing.T) {
	w, _ := newTestWidget(t, Callbacks{}, Props{Nodes: testNodes()})
	w.SetArea(image.Rect(0, 0, 80, 24))

	w.ZoomToFit()
	settle(t, w)

	b := w.ContentBounds()
	assert.Equal(t, 10.0, b.X)
	assert.Equal(t, 5.0, b.Y)
	assert.Equal(t, 24.0, b.W) // 30+4 - 10
	assert.Greater(t, w.Viewport().Transform().K, 0.0)
}

func TestLayersComposition(t *testing.T) {
	w, _ := newTestWidget(t, Callbacks{}, Props{
		Nodes: testNodes(),
		Edges: []graphindex.Edge{{Source: "a", Target: "b"}},
	})

	layers := w.Layers()
	require.NotEmpty(t, layers)
	// Background layer first, one layer per node box.
	assert.GreaterOrEqual(t, len(layers), 3)
}

func TestUndoCopyPasteKeys(t *testing.T) {
	var undo, copied, pasted int
	w, _ := newTestWidget(t, Callbacks{
		OnUndo:  func() { undo++ },
		OnCopy:  func() { copied++ },
		OnPaste: func() { pasted++ },
	}, Props{Nodes: testNodes()})

	assert.True(t, w.Key("ctrl+z"))
	assert.True(t, w.Key("ctrl+c"))
	assert.True(t, w.Key("ctrl+v"))
	assert.Equal(t, 1, undo)
	assert.Equal(t, 1, copied)
	assert.Equal(t, 1, pasted)

	w.SetFocused(false)
	assert.False(t, w.Key("ctrl+z"), "keys ignored without focus")
}
