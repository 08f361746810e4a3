package canvas

import (
	"image"
	"time"

	"github.com/graphpad/graphpad/pkg/graphindex"
	"github.com/graphpad/graphpad/pkg/scenediff"
)

// LayoutEngine computes initial node positions. It is invoked once on
// first load with zero prior nodes, and again whenever the engine
// reference itself changes.
type LayoutEngine interface {
	AdjustNodes(nodes []graphindex.Node, ix *graphindex.Index) []graphindex.Node
}

// Props is the host-supplied input, re-evaluated on every pass. The
// widget never mutates the slices.
type Props struct {
	Nodes        []graphindex.Node
	Edges        []graphindex.Edge
	SelectedKeys []graphindex.NodeKey
	KeyOf        graphindex.KeyFunc
	Layout       LayoutEngine

	ReadOnly bool

	// Permission predicates. Nil allows the operation.
	CanCreateEdge func(source, target graphindex.Node) bool
	CanSwapEdge   func(e graphindex.Edge, newTarget graphindex.Node) bool
	CanDeleteEdge func(e graphindex.Edge) bool
	CanDeleteNode func(n graphindex.Node) bool

	MinZoom      float64
	MaxZoom      float64
	ZoomStep     float64
	ZoomDuration time.Duration
	FitDuration  time.Duration

	GridSpacing image.Point
	// ArrowTolerance is the hit slop, in cells, around an edge's
	// arrowhead for starting a rewire drag.
	ArrowTolerance int
	// ChunkSize caps diff and render work per frame.
	ChunkSize int
}

func (p Props) withDefaults() Props {
	if p.KeyOf == nil {
		p.KeyOf = graphindex.NodeKeyField
	}
	if p.MinZoom == 0 {
		p.MinZoom = 0.15
	}
	if p.MaxZoom == 0 {
		p.MaxZoom = 1.5
	}
	if p.ZoomStep == 0 {
		p.ZoomStep = 0.1
	}
	if p.ArrowTolerance == 0 {
		p.ArrowTolerance = 1
	}
	if p.ChunkSize == 0 {
		p.ChunkSize = scenediff.DefaultChunk
	}
	if p.GridSpacing == (image.Point{}) {
		p.GridSpacing = image.Pt(5, 3)
	}
	return p
}

// Callbacks notify the host of state-changing gestures. They are never
// invoked speculatively: a rejected gesture fires nothing. Nil fields
// are skipped.
type Callbacks struct {
	OnNodeMoved    func(key graphindex.NodeKey, x, y float64)
	OnNodeSelected func(key graphindex.NodeKey)
	OnEdgeSelected func(e graphindex.Edge)

	OnNodeCreated func(x, y float64)
	OnEdgeCreated func(source, target graphindex.NodeKey)

	OnEdgeDeleted  func(e graphindex.Edge)
	OnNodesDeleted func(removed, remaining []graphindex.NodeKey)
	OnEdgeSwapped  func(e graphindex.Edge, newTarget graphindex.NodeKey)

	OnBackgroundClicked func(x, y float64)
	OnUndo              func()
	OnCopy              func()
	OnPaste             func()
}
