// Package dispatch runs callbacks at a message-loop host's next idle tick.
//
// The host owns a single cooperative UI goroutine; "idle tick" is its
// message-loop idle callback, not a timer. Everything in this package is
// called from that goroutine only and does no locking.
package dispatch

// IdleSource delivers registered callbacks at the host's next idle tick, in
// registration order. Registrations are one-shot: each callback fires
// exactly once.
type IdleSource interface {
	OnNextIdle(func())
}

// Dispatcher schedules no-argument actions against an IdleSource.
//
// While an action is already running, Schedule executes new actions inline
// instead of queueing them, so a deferred action that fans out follow-up
// work does not push that work another tick into the future. Defer opts out
// of the inline path. Once scheduled, an action cannot be cancelled; it
// runs exactly once.
type Dispatcher struct {
	idle    IdleSource
	running bool
	observe func(inline bool)
}

// New returns a dispatcher bound to idle.
func New(idle IdleSource) *Dispatcher {
	return &Dispatcher{idle: idle}
}

// SetObserver installs a hook invoked once per executed action, before the
// action runs. Used for metrics; nil removes the hook.
func (d *Dispatcher) SetObserver(fn func(inline bool)) {
	d.observe = fn
}

// Schedule runs fn at the next idle tick, or inline before returning when
// called from within an action this dispatcher is already running. Nil
// actions are ignored.
func (d *Dispatcher) Schedule(fn func()) {
	d.schedule(fn, false)
}

// Defer runs fn at the next idle tick even when called from a running
// action.
func (d *Dispatcher) Defer(fn func()) {
	d.schedule(fn, true)
}

// Running reports whether an action is executing right now.
func (d *Dispatcher) Running() bool {
	return d.running
}

func (d *Dispatcher) schedule(fn func(), forceDefer bool) {
	if fn == nil {
		return
	}
	if d.running && !forceDefer {
		d.run(fn, true)
		return
	}
	d.idle.OnNextIdle(func() {
		d.run(fn, false)
	})
}

func (d *Dispatcher) run(fn func(), inline bool) {
	was := d.running
	d.running = true
	// The marker must clear even when fn panics; a wedged marker would
	// force every later Schedule onto the inline path.
	defer func() {
		d.running = was
	}()
	if d.observe != nil {
		d.observe(inline)
	}
	fn()
}
