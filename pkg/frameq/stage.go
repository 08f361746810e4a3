package frameq

// Stage owns the visual-container lifecycle: create-once,
// update-in-place, delete-on-removal. Renders are requested per
// container id and coalesced through a Queue, so bursts of updates for
// one entity collapse into a single build per frame and no two
// containers ever exist for the same id.
type Stage[K comparable, V any] struct {
	queue      *Queue[K]
	containers map[K]V
	order      []K
	present    map[K]int // id → index in order
}

// NewStage creates an empty stage. budget caps container builds per
// Flush (zero means unlimited).
func NewStage[K comparable, V any](budget int) *Stage[K, V] {
	s := &Stage[K, V]{
		queue:      NewQueue[K](),
		containers: make(map[K]V),
		present:    make(map[K]int),
	}
	s.queue.SetBudget(budget)
	return s
}

// RequestRender schedules build for the container id on the next
// flush, superseding any earlier pending request for the same id. The
// build result replaces the container's contents in place; a container
// is created only if none exists yet.
func (s *Stage[K, V]) RequestRender(id K, build func() V) {
	s.queue.Request(id, func() {
		if _, ok := s.present[id]; !ok {
			s.present[id] = len(s.order)
			s.order = append(s.order, id)
		}
		s.containers[id] = build()
	})
}

// Remove deletes the container for id and drops any pending render for
// it. Safe to call when no container exists.
func (s *Stage[K, V]) Remove(id K) {
	s.queue.Cancel(id)
	if _, ok := s.present[id]; !ok {
		return
	}
	delete(s.containers, id)
	delete(s.present, id)
	// order is compacted lazily in Each; removals are rare relative to
	// renders.
}

// SetBudget caps container builds per Flush. Zero means unlimited.
func (s *Stage[K, V]) SetBudget(n int) { s.queue.SetBudget(n) }

// Flush applies pending renders (up to the stage budget) and returns
// how many ran.
func (s *Stage[K, V]) Flush() int { return s.queue.Flush() }

// Dirty reports whether renders are pending.
func (s *Stage[K, V]) Dirty() bool { return s.queue.Pending() > 0 }

// Container returns the current visual for id.
func (s *Stage[K, V]) Container(id K) (V, bool) {
	v, ok := s.containers[id]
	return v, ok
}

// Len returns the number of live containers.
func (s *Stage[K, V]) Len() int { return len(s.containers) }

// Each visits live containers in creation order.
func (s *Stage[K, V]) Each(fn func(K, V)) {
	compact := s.order[:0]
	for _, id := range s.order {
		v, ok := s.containers[id]
		if !ok {
			continue
		}
		compact = append(compact, id)
		fn(id, v)
	}
	s.order = compact
	for i, id := range s.order {
		s.present[id] = i
	}
}

// Clear removes every container and pending render.
func (s *Stage[K, V]) Clear() {
	*s = *NewStage[K, V](s.queue.budget)
}
