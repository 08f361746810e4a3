// Package scenediff compares two scene snapshots (entity index plus
// resolved selection) and classifies every node and edge as added,
// removed, updated or unchanged.
//
// The emission order is a contract, not an optimization:
//
//	edges removed → nodes removed → nodes added/updated → edges added/updated
//
// Removing edges before their endpoint nodes prevents transiently
// rendering an edge whose endpoint no longer exists; adding nodes
// before their edges prevents the reverse.
package scenediff

import (
	"reflect"

	"github.com/graphpad/graphpad/pkg/graphindex"
)

// DefaultChunk is the number of entities a Pass examines per Step when
// the caller passes a non-positive budget. Sized so one scheduling
// quantum never blocks interaction handling for more than a frame.
const DefaultChunk = 50

// OpKind classifies a change.
type OpKind int

const (
	OpRemove OpKind = iota
	OpAdd
	OpUpdate
)

// EntityKind tells which identity field of an Op is meaningful.
type EntityKind int

const (
	EntityNode EntityKind = iota
	EntityEdge
)

// Op is a single classified change.
type Op struct {
	Kind   OpKind
	Entity EntityKind
	Node   graphindex.NodeKey
	Edge   graphindex.EdgeKey
}

// Snapshot is one side of a diff: the index built from a (nodes, edges)
// pair plus the selection resolved against it.
type Snapshot struct {
	Index     *graphindex.Index
	Selection graphindex.Selection
}

// EmptySnapshot returns a snapshot over zero entities, usable as the
// "previous" side of a first pass.
func EmptySnapshot() Snapshot {
	return Snapshot{Index: graphindex.Build(nil, nil, nil)}
}

// Delta collects the ops of one complete pass, in emission order per
// slice. Useful in tests and for callers that do not stream.
type Delta struct {
	EdgesRemoved []graphindex.EdgeKey
	NodesRemoved []graphindex.NodeKey
	NodesAdded   []graphindex.NodeKey
	NodesUpdated []graphindex.NodeKey
	EdgesAdded   []graphindex.EdgeKey
	EdgesUpdated []graphindex.EdgeKey
}

// Empty reports whether the pass produced no changes.
func (d Delta) Empty() bool { return d.Len() == 0 }

// Len returns the total number of changes.
func (d Delta) Len() int {
	return len(d.EdgesRemoved) + len(d.NodesRemoved) +
		len(d.NodesAdded) + len(d.NodesUpdated) +
		len(d.EdgesAdded) + len(d.EdgesUpdated)
}

func (d *Delta) collect(op Op) {
	switch {
	case op.Entity == EntityEdge && op.Kind == OpRemove:
		d.EdgesRemoved = append(d.EdgesRemoved, op.Edge)
	case op.Entity == EntityNode && op.Kind == OpRemove:
		d.NodesRemoved = append(d.NodesRemoved, op.Node)
	case op.Entity == EntityNode && op.Kind == OpAdd:
		d.NodesAdded = append(d.NodesAdded, op.Node)
	case op.Entity == EntityNode && op.Kind == OpUpdate:
		d.NodesUpdated = append(d.NodesUpdated, op.Node)
	case op.Entity == EntityEdge && op.Kind == OpAdd:
		d.EdgesAdded = append(d.EdgesAdded, op.Edge)
	default:
		d.EdgesUpdated = append(d.EdgesUpdated, op.Edge)
	}
}

// Diff runs a complete pass and returns the collected delta.
func Diff(prev, next Snapshot) Delta {
	var d Delta
	p := NewPass(prev, next)
	for !p.Step(DefaultChunk, d.collect) {
	}
	return d
}

// nodeEqual is a deep structural comparison over the node's own fields.
// Two nodes with identical field values are equal regardless of object
// identity: hosts frequently replace arrays without changing contents.
func nodeEqual(a, b graphindex.Node) bool {
	return reflect.DeepEqual(a, b)
}

func edgeEqual(a, b graphindex.Edge) bool {
	return reflect.DeepEqual(a, b)
}
