package graphindex

// EdgeEndpoints is implemented by node payloads that carry edge
// endpoint fields of their own. When a selected key resolves to such a
// node, the edge keyed by those endpoints is selected as well.
//
// This propagation conflates "node is selected" with "an edge having
// this node's endpoint fields is selected". It is preserved as
// compatibility behavior; callers that do not want it simply leave
// their payloads without the interface.
type EdgeEndpoints interface {
	EdgeEndpoints() (source, target NodeKey)
}

// Selection is the resolved subset of nodes and edges currently
// selected. It is re-derived from the host's key list on every pass;
// stale keys referencing removed entities are silently dropped.
type Selection struct {
	Nodes []Node
	Edges []Edge

	nodeSet map[NodeKey]struct{}
	edgeSet map[EdgeKey]struct{}
}

// ResolveSelection projects an ordered list of selected keys onto the
// concrete entities of ix. Unresolvable keys are skipped, not errors.
func ResolveSelection(keys []NodeKey, ix *Index) Selection {
	sel := Selection{
		nodeSet: make(map[NodeKey]struct{}, len(keys)),
		edgeSet: make(map[EdgeKey]struct{}),
	}

	for _, k := range keys {
		entry := ix.Node(k)
		if entry == nil {
			continue
		}
		if _, dup := sel.nodeSet[k]; dup {
			continue
		}
		sel.nodeSet[k] = struct{}{}
		sel.Nodes = append(sel.Nodes, entry.Node)

		if ep, ok := entry.Node.Data.(EdgeEndpoints); ok {
			src, dst := ep.EdgeEndpoints()
			ek := EdgeKey{Source: src, Target: dst}
			if ee := ix.Edge(ek); ee != nil {
				if _, dup := sel.edgeSet[ek]; !dup {
					sel.edgeSet[ek] = struct{}{}
					sel.Edges = append(sel.Edges, ee.Edge)
				}
			}
		}
	}

	return sel
}

// SelectEdges adds explicitly selected edge keys to the selection.
// Unresolvable keys are skipped.
func (s *Selection) SelectEdges(keys []EdgeKey, ix *Index) {
	if s.edgeSet == nil {
		s.edgeSet = make(map[EdgeKey]struct{})
	}
	for _, k := range keys {
		ee := ix.Edge(k)
		if ee == nil {
			continue
		}
		if _, dup := s.edgeSet[k]; dup {
			continue
		}
		s.edgeSet[k] = struct{}{}
		s.Edges = append(s.Edges, ee.Edge)
	}
}

// HasNode reports whether the node key is selected.
func (s Selection) HasNode(k NodeKey) bool {
	_, ok := s.nodeSet[k]
	return ok
}

// HasEdge reports whether the edge key is selected.
func (s Selection) HasEdge(k EdgeKey) bool {
	_, ok := s.edgeSet[k]
	return ok
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return len(s.nodeSet) == 0 && len(s.edgeSet) == 0
}
