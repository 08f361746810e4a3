// Package canvas is the editable node-and-edge diagram widget. The
// host application owns the node and edge arrays and remains the single
// source of truth; the widget renders them, lets the user pan, zoom,
// select, move nodes and create/delete/rewire edges, and reports every
// mutation back through callbacks. It never commits a mutation to the
// logical model itself.
package canvas

import (
	"fmt"
	"image"

	"github.com/graphpad/graphpad/pkg/cellbuf"
	"github.com/graphpad/graphpad/pkg/graphindex"
)

// EntityKind discriminates container identities.
type EntityKind int

const (
	KindNode EntityKind = iota
	KindEdge
	// KindCustom is the dedicated container for the transient edge
	// drawn during creation or rewire, isolated from canonical edge
	// containers so a committed edge's visual is never clobbered
	// mid-gesture.
	KindCustom
)

// ContainerID is the composite key of one visual container.
type ContainerID struct {
	Kind EntityKind
	Node graphindex.NodeKey
	Edge graphindex.EdgeKey
}

// NodeContainer returns the container id for a node.
func NodeContainer(k graphindex.NodeKey) ContainerID {
	return ContainerID{Kind: KindNode, Node: k}
}

// EdgeContainer returns the container id for an edge.
func EdgeContainer(k graphindex.EdgeKey) ContainerID {
	return ContainerID{Kind: KindEdge, Edge: k}
}

// CustomContainer returns the transient-edge container id.
func CustomContainer() ContainerID {
	return ContainerID{Kind: KindCustom}
}

// layerID renders a stable compositor layer id.
func (c ContainerID) layerID() string {
	switch c.Kind {
	case KindNode:
		return "node-" + string(c.Node)
	case KindEdge:
		return fmt.Sprintf("edge-%s-%s", c.Edge.Source, c.Edge.Target)
	default:
		return "custom-edge"
	}
}

// Visual is the rendered representation of one entity, produced by an
// EntityRenderer and retained by the stage. Geometry is expressed in
// scaled-world cells (world coordinates with the zoom factor applied,
// before translation): panning then only moves a shared offset at
// composition time, so no visual re-renders on pan.
type Visual struct {
	Kind EntityKind
	Z    int

	// Node visuals: a styled block anchored at At.
	Content string
	At      image.Point
	Size    image.Point

	// Edge visuals: sparse styled cells plus the arrowhead hit region
	// reported back for rewire hit-testing. Arrow is the zero rect when
	// the visual has no arrowhead.
	Cells []cellbuf.PlacedCell
	Arrow image.Rectangle

	// Optional pre-styled label placed at LabelAt.
	Label   string
	LabelAt image.Point
}

// Bounds returns the visual's scaled-world rectangle.
func (v Visual) Bounds() image.Rectangle {
	return image.Rect(v.At.X, v.At.Y, v.At.X+v.Size.X, v.At.Y+v.Size.Y)
}
