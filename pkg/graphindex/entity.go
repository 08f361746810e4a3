// Package graphindex builds fast-lookup indices over host-owned node
// and edge records: key → entity maps plus per-node adjacency lists.
//
// The index is an immutable snapshot. It is rebuilt wholesale from the
// host's arrays on every prop pass and swapped in place of the previous
// one; it is never patched incrementally. Rebuilding from identical
// inputs yields entries that compare equal entity-by-entity, which is
// what makes snapshot diffing cheap.
package graphindex

// NodeKey is the caller-defined unique key of a node. The index never
// invents keys.
type NodeKey string

// EdgeKey identifies an edge by its ordered (source, target) pair.
// (a,b) and (b,a) are distinct keys.
type EdgeKey struct {
	Source NodeKey
	Target NodeKey
}

// Node is a host-owned node record. Type, Subtype and Data are passed
// through to the entity renderer unexamined.
type Node struct {
	Key     NodeKey
	X, Y    float64
	Type    string
	Subtype string
	Data    any
}

// Edge is a host-owned edge record. Target is empty while the edge is
// being drawn. Type and Data are opaque.
type Edge struct {
	Source NodeKey
	Target NodeKey
	Type   string
	Data   any
}

// Key returns the edge's composite identity.
func (e Edge) Key() EdgeKey {
	return EdgeKey{Source: e.Source, Target: e.Target}
}

// KeyFunc extracts the unique key from a node record. Hosts whose
// canonical key lives inside Data can supply their own.
type KeyFunc func(Node) NodeKey

// NodeKeyField is the default KeyFunc: it reads Node.Key.
func NodeKeyField(n Node) NodeKey { return n.Key }
