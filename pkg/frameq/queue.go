// Package frameq provides a deferred, coalescing task queue keyed by
// id, plus a visual-container stage built on top of it.
//
// The queue is the frame-scheduling primitive of the canvas: requests
// for the same id between two flushes coalesce so at most one task per
// id runs per frame, and a flush budget caps how many tasks run in one
// quantum so large passes yield control back to the event loop. Any
// platform's frame/tick scheduler can drive Flush, including a plain
// timer in a headless target; tests call it directly.
//
// Everything here is single-threaded and cooperative by design.
package frameq

// Queue coalesces tasks by key: the latest task requested for a key
// before a flush is the one that runs. Tasks run in first-request
// order.
type Queue[K comparable] struct {
	pending map[K]func()
	order   []K
	budget  int
}

// NewQueue creates an empty queue with no flush budget (a flush runs
// everything pending).
func NewQueue[K comparable]() *Queue[K] {
	return &Queue[K]{pending: make(map[K]func())}
}

// SetBudget caps the number of tasks one Flush call runs. Zero or
// negative means unlimited.
func (q *Queue[K]) SetBudget(n int) { q.budget = n }

// Request schedules fn to run for id at the next flush. A previously
// pending task for the same id is superseded; its original position in
// the flush order is kept.
func (q *Queue[K]) Request(id K, fn func()) {
	if _, ok := q.pending[id]; !ok {
		q.order = append(q.order, id)
	}
	q.pending[id] = fn
}

// Cancel drops any pending task for id. It reports whether a task was
// pending.
func (q *Queue[K]) Cancel(id K) bool {
	if _, ok := q.pending[id]; !ok {
		return false
	}
	delete(q.pending, id)
	return true
}

// Pending returns the number of tasks awaiting a flush.
func (q *Queue[K]) Pending() int { return len(q.pending) }

// Flush runs pending tasks in request order, at most budget of them if
// a budget is set, and returns the number run. Tasks left over stay
// queued for the next flush. A task requested mid-flush for a new id
// runs on a later flush; one requested for an id still pending in this
// flush supersedes the pending task in place, latest wins.
func (q *Queue[K]) Flush() int {
	n := len(q.order)
	run := 0
	limit := q.budget
	if limit <= 0 {
		limit = n
	}

	i := 0
	for ; i < n && run < limit; i++ {
		id := q.order[i]
		fn, ok := q.pending[id]
		if !ok {
			continue // cancelled
		}
		delete(q.pending, id)
		fn()
		run++
	}
	q.order = append(q.order[:0:0], q.order[i:]...)
	return run
}
