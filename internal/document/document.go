// Package document is the demo host's logical model: a flat list of
// nodes and edges persisted as YAML. It owns all mutations; the canvas
// widget only requests them through callbacks.
package document

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/graphpad/graphpad/pkg/graphindex"
)

// Node is one diagram node as persisted.
type Node struct {
	ID    string  `yaml:"id"`
	Type  string  `yaml:"type"`
	Label string  `yaml:"label"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
}

// Edge is one directed edge as persisted.
type Edge struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
	Label  string `yaml:"label,omitempty"`
}

// Document is a diagram file.
type Document struct {
	Title string `yaml:"title,omitempty"`
	Nodes []Node `yaml:"nodes"`
	Edges []Edge `yaml:"edges"`
}

// Load reads a document from a YAML file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse document %s: %w", path, err)
	}
	return &d, nil
}

// Save writes the document as YAML.
func (d *Document) Save(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// node returns a pointer into Nodes, or nil.
func (d *Document) node(id string) *Node {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i]
		}
	}
	return nil
}

// HasEdge reports whether a source→target edge exists.
func (d *Document) HasEdge(source, target string) bool {
	for _, e := range d.Edges {
		if e.Source == source && e.Target == target {
			return true
		}
	}
	return false
}

// AddNode appends a node at the given position and returns its id.
func (d *Document) AddNode(nodeType, label string, x, y float64) string {
	id := uuid.NewString()
	d.Nodes = append(d.Nodes, Node{ID: id, Type: nodeType, Label: label, X: x, Y: y})
	return id
}

// MoveNode updates a node's position. Unknown ids are ignored.
func (d *Document) MoveNode(id string, x, y float64) {
	if n := d.node(id); n != nil {
		n.X = x
		n.Y = y
	}
}

// SetLabel updates a node's label. Unknown ids are ignored.
func (d *Document) SetLabel(id, label string) {
	if n := d.node(id); n != nil {
		n.Label = label
	}
}

// AddEdge appends a source→target edge. Duplicates and edges with
// unresolvable endpoints are rejected.
func (d *Document) AddEdge(source, target string) error {
	if d.node(source) == nil || d.node(target) == nil {
		return fmt.Errorf("add edge %s→%s: unknown endpoint", source, target)
	}
	if d.HasEdge(source, target) {
		return fmt.Errorf("add edge %s→%s: already exists", source, target)
	}
	d.Edges = append(d.Edges, Edge{Source: source, Target: target})
	return nil
}

// RemoveEdge deletes the source→target edge if present.
func (d *Document) RemoveEdge(source, target string) {
	out := d.Edges[:0]
	for _, e := range d.Edges {
		if e.Source == source && e.Target == target {
			continue
		}
		out = append(out, e)
	}
	d.Edges = out
}

// RemoveNodes deletes the given nodes and every edge touching them.
func (d *Document) RemoveNodes(ids []string) {
	gone := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		gone[id] = struct{}{}
	}

	nodes := d.Nodes[:0]
	for _, n := range d.Nodes {
		if _, g := gone[n.ID]; !g {
			nodes = append(nodes, n)
		}
	}
	d.Nodes = nodes

	edges := d.Edges[:0]
	for _, e := range d.Edges {
		_, gs := gone[e.Source]
		_, gt := gone[e.Target]
		if !gs && !gt {
			edges = append(edges, e)
		}
	}
	d.Edges = edges
}

// SwapEdgeTarget re-points an existing edge at a new target node.
func (d *Document) SwapEdgeTarget(source, oldTarget, newTarget string) error {
	if d.node(newTarget) == nil {
		return fmt.Errorf("swap edge %s→%s: unknown target %s", source, oldTarget, newTarget)
	}
	if d.HasEdge(source, newTarget) {
		return fmt.Errorf("swap edge %s→%s: %s→%s already exists", source, oldTarget, source, newTarget)
	}
	for i := range d.Edges {
		if d.Edges[i].Source == source && d.Edges[i].Target == oldTarget {
			d.Edges[i].Target = newTarget
			return nil
		}
	}
	return fmt.Errorf("swap edge %s→%s: no such edge", source, oldTarget)
}

// CanvasNodes converts the document's nodes into widget entities. Label
// travels in Data so the renderer can show it.
func (d *Document) CanvasNodes() []graphindex.Node {
	out := make([]graphindex.Node, len(d.Nodes))
	for i, n := range d.Nodes {
		out[i] = graphindex.Node{
			Key:  graphindex.NodeKey(n.ID),
			X:    n.X,
			Y:    n.Y,
			Type: n.Type,
			Data: n.Label,
		}
	}
	return out
}

// CanvasEdges converts the document's edges into widget entities.
func (d *Document) CanvasEdges() []graphindex.Edge {
	out := make([]graphindex.Edge, len(d.Edges))
	for i, e := range d.Edges {
		out[i] = graphindex.Edge{
			Source: graphindex.NodeKey(e.Source),
			Target: graphindex.NodeKey(e.Target),
			Data:   e.Label,
		}
	}
	return out
}

// Demo builds the starter flowchart shown when no file is given.
func Demo() *Document {
	d := &Document{Title: "sum 1..5"}

	start := d.AddNode("terminal", "START", 5, 1)
	init := d.AddNode("process", "INIT", 4, 5)
	cond := d.AddNode("decision", "i <= 5?", 4, 9)
	accum := d.AddNode("process", "ACCUMULATE", 4, 17)
	conn := d.AddNode("connector", "", 32, 13)
	print := d.AddNode("io", "PRINT SUM", 44, 9)
	end := d.AddNode("terminal", "END", 46, 14)

	_ = d.AddEdge(start, init)
	_ = d.AddEdge(init, cond)
	_ = d.AddEdge(cond, accum)
	_ = d.AddEdge(accum, conn)
	_ = d.AddEdge(conn, cond)
	_ = d.AddEdge(cond, print)
	_ = d.AddEdge(print, end)

	return d
}
