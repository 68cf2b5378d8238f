package quiesce

import "log/slog"

// Toggle switches quiescence tracking on and off. Turning it on attaches
// one subscriber to the host's lifecycle signals and fires an immediate
// state-changed notification, so dependents never need a separate first
// sync. Turning it off detaches the subscriber.
//
// Once the host announces it is about to quit, the toggle latches: every
// further transition, including Dispose, becomes a no-op. Detaching
// handlers while the host tears its signal sources down is neither safe
// nor needed.
type Toggle struct {
	host   Host
	notify func()              // state-changed fan-in
	ignore func(string) bool   // lock categories that carry no state
	log    *slog.Logger

	sub      *hostSubscriber
	quitting bool
	disposed bool
}

func newToggle(host Host, notify func(), ignore func(string) bool, log *slog.Logger) *Toggle {
	if log == nil {
		log = slog.Default()
	}
	return &Toggle{host: host, notify: notify, ignore: ignore, log: log}
}

// Enabled reports whether the host subscriber is attached.
func (t *Toggle) Enabled() bool {
	return t.sub != nil
}

// Quitting reports whether the quit latch has tripped. It never resets.
func (t *Toggle) Quitting() bool {
	return t.quitting
}

// SetEnabled turns tracking on or off. Enabling twice in a row attaches
// handlers exactly once; any transition after the quit latch is a no-op.
func (t *Toggle) SetEnabled(on bool) {
	if t.quitting {
		return
	}
	if on {
		if t.sub != nil || t.disposed {
			return
		}
		t.sub = newHostSubscriber(t)
		t.notify()
		return
	}
	if t.sub == nil {
		return
	}
	t.sub.detach()
	t.sub = nil
}

// Dispose detaches the subscriber if one is still attached. Idempotent.
func (t *Toggle) Dispose() {
	if !t.disposed && !t.quitting && t.sub != nil {
		t.sub.detach()
		t.sub = nil
	}
	t.disposed = true
}

func (t *Toggle) handleLockChanged(ch LockChange) {
	if t.ignore != nil && t.ignore(ch.Category) {
		return
	}
	t.notify()
}

func (t *Toggle) handleSurfaceActivated(SurfaceID) {
	t.notify()
}

func (t *Toggle) handleSurfaceDestroyed(SurfaceID) {
	t.notify()
}

// handleWillQuit detaches best-effort and trips the latch no matter what:
// termination proceeds even when teardown fails.
func (t *Toggle) handleWillQuit() {
	defer func() {
		if r := recover(); r != nil {
			t.log.Warn("teardown during quit failed", "panic", r)
		}
		t.quitting = true
	}()
	if t.sub != nil {
		t.sub.detach()
	}
}

// hostSubscriber owns the four lifecycle handler registrations made on an
// enable transition.
type hostSubscriber struct {
	cancels []func()
}

func newHostSubscriber(t *Toggle) *hostSubscriber {
	return &hostSubscriber{cancels: []func(){
		t.host.OnLockChanged(t.handleLockChanged),
		t.host.OnSurfaceActivated(t.handleSurfaceActivated),
		t.host.OnSurfaceDestroyed(t.handleSurfaceDestroyed),
		t.host.OnWillQuit(t.handleWillQuit),
	}}
}

func (s *hostSubscriber) detach() {
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
}
