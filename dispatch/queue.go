package dispatch

// Queue deduplicates deferred actions by caller-supplied identity: an
// identity scheduled again before its action has run is dropped.
type Queue struct {
	d       *Dispatcher
	pending map[any]struct{}
}

// NewQueue returns an empty queue on d.
func NewQueue(d *Dispatcher) *Queue {
	return &Queue{d: d, pending: make(map[any]struct{})}
}

// ScheduleOnce schedules fn under identity and reports whether anything new
// was scheduled. Identity must be comparable; what counts as "the same
// action" is the caller's choice of key, the queue never inspects fn.
//
// The identity leaves the pending set the moment fn starts, so an action
// may re-schedule itself for the following tick.
func (q *Queue) ScheduleOnce(identity any, fn func()) bool {
	if fn == nil {
		return false
	}
	if _, ok := q.pending[identity]; ok {
		return false
	}
	q.pending[identity] = struct{}{}
	q.d.Schedule(func() {
		delete(q.pending, identity)
		fn()
	})
	return true
}

// Pending reports how many identities are waiting to run.
func (q *Queue) Pending() int {
	return len(q.pending)
}
