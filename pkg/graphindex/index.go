package graphindex

// NodeEntry wraps a node with its adjacency lists. In/Out are populated
// by a single scan over the edge array at build time.
type NodeEntry struct {
	Node Node
	In   []*EdgeEntry
	Out  []*EdgeEntry
}

// EdgeEntry wraps an edge with its position in the caller's edge array,
// needed to map a selected edge back to the caller's canonical object.
type EdgeEntry struct {
	Edge     Edge
	ArrIndex int
}

// Index is the derived lookup structure over one (nodes, edges) pair.
// Key order mirrors the caller's array order for deterministic walks.
type Index struct {
	nodes     map[NodeKey]*NodeEntry
	edges     map[EdgeKey]*EdgeEntry
	nodeOrder []NodeKey
	edgeOrder []EdgeKey
}

// Build constructs an index in O(V+E). The input slices are never
// mutated. Edges whose endpoints do not both resolve are dropped:
// dangling edges are tolerated in the raw array but invisible to
// traversal. A nil keyOf defaults to NodeKeyField.
func Build(nodes []Node, edges []Edge, keyOf KeyFunc) *Index {
	if keyOf == nil {
		keyOf = NodeKeyField
	}

	ix := &Index{
		nodes:     make(map[NodeKey]*NodeEntry, len(nodes)),
		edges:     make(map[EdgeKey]*EdgeEntry, len(edges)),
		nodeOrder: make([]NodeKey, 0, len(nodes)),
	}

	for _, n := range nodes {
		k := keyOf(n)
		if _, dup := ix.nodes[k]; dup {
			continue
		}
		ix.nodes[k] = &NodeEntry{Node: n}
		ix.nodeOrder = append(ix.nodeOrder, k)
	}

	for i, e := range edges {
		src := ix.nodes[e.Source]
		dst := ix.nodes[e.Target]
		if src == nil || dst == nil {
			continue
		}
		k := e.Key()
		if _, dup := ix.edges[k]; dup {
			continue
		}
		entry := &EdgeEntry{Edge: e, ArrIndex: i}
		ix.edges[k] = entry
		ix.edgeOrder = append(ix.edgeOrder, k)
		src.Out = append(src.Out, entry)
		dst.In = append(dst.In, entry)
	}

	return ix
}

// Node returns the entry for the given key, or nil.
func (ix *Index) Node(k NodeKey) *NodeEntry { return ix.nodes[k] }

// Edge returns the entry for the given key, or nil.
func (ix *Index) Edge(k EdgeKey) *EdgeEntry { return ix.edges[k] }

// NodeKeys returns node keys in the caller's array order.
func (ix *Index) NodeKeys() []NodeKey { return ix.nodeOrder }

// EdgeKeys returns indexed edge keys in the caller's array order.
func (ix *Index) EdgeKeys() []EdgeKey { return ix.edgeOrder }

// NumNodes returns the number of indexed nodes.
func (ix *Index) NumNodes() int { return len(ix.nodes) }

// NumEdges returns the number of indexed edges.
func (ix *Index) NumEdges() int { return len(ix.edges) }

// Connected reports whether an edge exists between a and b in either
// direction. Used to forbid duplicate edges on creation and rewire.
func (ix *Index) Connected(a, b NodeKey) bool {
	if _, ok := ix.edges[EdgeKey{Source: a, Target: b}]; ok {
		return true
	}
	_, ok := ix.edges[EdgeKey{Source: b, Target: a}]
	return ok
}

// IncidentEdges returns all edges touching the node, incoming first.
func (ix *Index) IncidentEdges(k NodeKey) []*EdgeEntry {
	n := ix.nodes[k]
	if n == nil {
		return nil
	}
	out := make([]*EdgeEntry, 0, len(n.In)+len(n.Out))
	out = append(out, n.In...)
	out = append(out, n.Out...)
	return out
}
