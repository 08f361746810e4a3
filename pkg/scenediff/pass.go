package scenediff

// Pass is a resumable diff over two snapshots. Each Step examines at
// most a budget of entities and emits the resulting ops, so a large
// collection never blocks the event loop for more than one scheduling
// quantum; the caller resumes the pass on the next frame.
//
// Phases run strictly in the contract order; a Step may span a phase
// boundary but never reorders ops.
type Pass struct {
	prev, next Snapshot

	phase int // 0 edge removals, 1 node removals, 2 node add/update, 3 edge add/update
	pos   int
}

// NewPass starts a diff of prev against next.
func NewPass(prev, next Snapshot) *Pass {
	return &Pass{prev: prev, next: next}
}

// Step examines up to budget entities (DefaultChunk if budget <= 0),
// emitting an Op for every change found. It returns true when the pass
// is complete.
func (p *Pass) Step(budget int, emit func(Op)) bool {
	if budget <= 0 {
		budget = DefaultChunk
	}

	for budget > 0 {
		switch p.phase {
		case 0:
			keys := p.prev.Index.EdgeKeys()
			for p.pos < len(keys) && budget > 0 {
				k := keys[p.pos]
				p.pos++
				budget--
				if p.next.Index.Edge(k) == nil {
					emit(Op{Kind: OpRemove, Entity: EntityEdge, Edge: k})
				}
			}
			if p.pos < len(keys) {
				return false
			}
			p.phase, p.pos = 1, 0

		case 1:
			keys := p.prev.Index.NodeKeys()
			for p.pos < len(keys) && budget > 0 {
				k := keys[p.pos]
				p.pos++
				budget--
				if p.next.Index.Node(k) == nil {
					emit(Op{Kind: OpRemove, Entity: EntityNode, Node: k})
				}
			}
			if p.pos < len(keys) {
				return false
			}
			p.phase, p.pos = 2, 0

		case 2:
			keys := p.next.Index.NodeKeys()
			for p.pos < len(keys) && budget > 0 {
				k := keys[p.pos]
				p.pos++
				budget--
				cur := p.next.Index.Node(k)
				old := p.prev.Index.Node(k)
				switch {
				case old == nil:
					emit(Op{Kind: OpAdd, Entity: EntityNode, Node: k})
				case !nodeEqual(old.Node, cur.Node) ||
					p.prev.Selection.HasNode(k) != p.next.Selection.HasNode(k):
					emit(Op{Kind: OpUpdate, Entity: EntityNode, Node: k})
				}
			}
			if p.pos < len(keys) {
				return false
			}
			p.phase, p.pos = 3, 0

		case 3:
			keys := p.next.Index.EdgeKeys()
			for p.pos < len(keys) && budget > 0 {
				k := keys[p.pos]
				p.pos++
				budget--
				cur := p.next.Index.Edge(k)
				old := p.prev.Index.Edge(k)
				switch {
				case old == nil:
					emit(Op{Kind: OpAdd, Entity: EntityEdge, Edge: k})
				case !edgeEqual(old.Edge, cur.Edge) ||
					p.prev.Selection.HasEdge(k) != p.next.Selection.HasEdge(k):
					emit(Op{Kind: OpUpdate, Entity: EntityEdge, Edge: k})
				}
			}
			if p.pos < len(keys) {
				return false
			}
			return true

		default:
			return true
		}
	}
	return p.Done()
}

// Done reports whether the pass has examined every entity.
func (p *Pass) Done() bool {
	return p.phase == 3 && p.pos >= len(p.next.Index.EdgeKeys()) || p.phase > 3
}
