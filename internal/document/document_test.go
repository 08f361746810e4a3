package document

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	d := Demo()
	path := filepath.Join(t.TempDir(), "demo.yaml")

	require.NoError(t, d.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, d.Title, loaded.Title)
	assert.Equal(t, d.Nodes, loaded.Nodes)
	assert.Equal(t, d.Edges, loaded.Edges)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestAddEdgeValidation(t *testing.T) {
	var d Document
	a := d.AddNode("process", "A", 0, 0)
	b := d.AddNode("process", "B", 10, 0)

	require.NoError(t, d.AddEdge(a, b))
	assert.Error(t, d.AddEdge(a, b), "duplicate rejected")
	assert.Error(t, d.AddEdge(a, "missing"), "unknown endpoint rejected")
}

func TestRemoveNodesDropsIncidentEdges(t *testing.T) {
	var d Document
	a := d.AddNode("process", "A", 0, 0)
	b := d.AddNode("process", "B", 10, 0)
	c := d.AddNode("process", "C", 20, 0)
	require.NoError(t, d.AddEdge(a, b))
	require.NoError(t, d.AddEdge(b, c))
	require.NoError(t, d.AddEdge(a, c))

	d.RemoveNodes([]string{b})

	assert.Len(t, d.Nodes, 2)
	require.Len(t, d.Edges, 1)
	assert.Equal(t, a, d.Edges[0].Source)
	assert.Equal(t, c, d.Edges[0].Target)
}

func TestSwapEdgeTarget(t *testing.T) {
	var d Document
	a := d.AddNode("process", "A", 0, 0)
	b := d.AddNode("process", "B", 10, 0)
	c := d.AddNode("process", "C", 20, 0)
	require.NoError(t, d.AddEdge(a, b))

	require.NoError(t, d.SwapEdgeTarget(a, b, c))
	assert.True(t, d.HasEdge(a, c))
	assert.False(t, d.HasEdge(a, b))

	assert.Error(t, d.SwapEdgeTarget(a, b, c), "edge no longer exists")
	require.NoError(t, d.AddEdge(a, b))
	assert.Error(t, d.SwapEdgeTarget(a, b, c), "duplicate target rejected")
}

func TestMoveAndLabel(t *testing.T) {
	var d Document
	a := d.AddNode("process", "A", 0, 0)

	d.MoveNode(a, 7, 3)
	d.SetLabel(a, "renamed")
	d.MoveNode("missing", 1, 1) // ignored

	assert.Equal(t, 7.0, d.Nodes[0].X)
	assert.Equal(t, 3.0, d.Nodes[0].Y)
	assert.Equal(t, "renamed", d.Nodes[0].Label)
}

func TestCanvasConversion(t *testing.T) {
	d := Demo()
	nodes := d.CanvasNodes()
	edges := d.CanvasEdges()

	require.Len(t, nodes, len(d.Nodes))
	require.Len(t, edges, len(d.Edges))
	assert.Equal(t, d.Nodes[0].ID, string(nodes[0].Key))
	assert.Equal(t, d.Nodes[0].Label, nodes[0].Data)
	assert.Equal(t, d.Edges[0].Source, string(edges[0].Source))
}
