package dispatch

// Manual is an IdleSource driven explicitly by the caller: a test, or a
// host loop that knows its own idle moments.
type Manual struct {
	queue []func()
}

// OnNextIdle registers fn for the next Tick.
func (m *Manual) OnNextIdle(fn func()) {
	m.queue = append(m.queue, fn)
}

// Tick fires the callbacks registered before this call, in registration
// order. Callbacks registered while Tick runs wait for the next Tick.
func (m *Manual) Tick() {
	fns := m.queue
	m.queue = nil
	for _, fn := range fns {
		fn()
	}
}

// Pending reports how many callbacks wait for the next Tick.
func (m *Manual) Pending() int {
	return len(m.queue)
}
