package canvas

import (
	"image"

	"charm.land/lipgloss/v2"

	"github.com/graphpad/graphpad/pkg/cellbuf"
	"github.com/graphpad/graphpad/pkg/graphindex"
)

// EntityRenderer produces the visual representation of entities. The
// widget never inspects rendered content; it consumes only the geometry
// (bounds, arrowhead hit region) the renderer reports back.
//
// All positions and rectangles are in scaled-world cells.
type EntityRenderer interface {
	// NodeSize reports the cell footprint of a node at the given scale.
	NodeSize(n graphindex.Node, scale float64) image.Point

	// RenderNode renders a node anchored at a scaled-world position.
	RenderNode(n graphindex.Node, at image.Point, selected bool, scale float64) Visual

	// RenderEdge renders an edge between the scaled-world bounds of its
	// endpoint nodes, reporting the arrowhead hit region in the visual.
	RenderEdge(e graphindex.Edge, from, to image.Rectangle, selected bool, scale float64) Visual

	// RenderTransientEdge renders the in-progress edge from a source
	// node toward the pointer during creation or rewire.
	RenderTransientEdge(from image.Rectangle, to image.Point, scale float64) Visual

	// EdgeStyles maps the style keys used in edge visual cells to
	// concrete styles for the composition pass.
	EdgeStyles() map[cellbuf.StyleKey]lipgloss.Style
}
