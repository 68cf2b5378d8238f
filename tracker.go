package quiesce

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jask/quiesce/broadcast"
	"github.com/jask/quiesce/dispatch"
	"github.com/jask/quiesce/internal/metrics"
	"github.com/jask/quiesce/lazy"
)

// refreshKey is the dedup identity for the coalesced refresh pass: however
// many lifecycle signals land between two idle ticks, one refresh runs.
type refreshKey struct{}

// Tracker is the public coordination surface. It owns the quiescence
// cache, the lifecycle toggle and the broadcast channel, and wires host
// lifecycle signals into coalesced refresh deliveries on the host's idle
// tick.
type Tracker struct {
	host    Host
	cell    *lazy.Cell[bool]
	disp    *dispatch.Dispatcher
	queue   *dispatch.Queue
	toggle  *Toggle
	channel *broadcast.Channel
	log     *slog.Logger
	metrics *metrics.Set

	changed     map[int]func(bool)
	nextChanged int
}

type options struct {
	log    *slog.Logger
	ignore func(string) bool
	reg    prometheus.Registerer
}

// Option configures a Tracker.
type Option func(*options)

// WithLogger sets the diagnostic sink. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithLockFilter sets the predicate deciding which lock categories to
// ignore. Defaults to the built-in rules (see LoadFilter).
func WithLockFilter(ignore func(category string) bool) Option {
	return func(o *options) { o.ignore = ignore }
}

// WithMetrics registers coordination counters on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) { o.reg = reg }
}

// New builds a tracker over host, parking deferred work on idle. Call it,
// like every other method here, on the host's UI goroutine.
//
// The broadcast channel starts live when a surface already exists;
// otherwise it goes live on the host's surface-created signal.
func New(host Host, idle dispatch.IdleSource, opts ...Option) *Tracker {
	o := options{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ignore == nil {
		// the built-in rules always parse
		o.ignore, _ = LoadFilter("")
	}

	t := &Tracker{
		host:    host,
		log:     o.log,
		changed: make(map[int]func(bool)),
	}
	if o.reg != nil {
		t.metrics = metrics.New(o.reg)
	}
	t.cell = lazy.NewCell(func() (bool, error) {
		t.metrics.IncRecompute()
		return host.Quiescent(), nil
	})
	t.disp = dispatch.New(idle)
	if t.metrics != nil {
		t.disp.SetObserver(t.metrics.IncDispatch)
	}
	t.queue = dispatch.NewQueue(t.disp)
	t.channel = broadcast.New(t.disp, t.snapshot, o.log)
	t.channel.SetFailureHook(t.metrics.IncSubscriberFailure)
	t.toggle = newToggle(host, t.requestRefresh, o.ignore, o.log)

	if host.SurfacePresent() {
		t.channel.MarkLive("surface-present")
	} else {
		host.OnSurfaceCreated(func(SurfaceID) {
			t.channel.MarkLive("surface-created")
		})
	}
	return t
}

// IsQuiescent reports whether the interactive surface is idle, served from
// the cache. Safe to call at high frequency; the host query runs only
// after an invalidation.
func (t *Tracker) IsQuiescent() bool {
	q, err := t.cell.Get()
	if err != nil {
		t.log.Warn("quiescence query failed", "err", err)
		return false
	}
	return q
}

// SetEnabled turns lifecycle tracking on or off.
func (t *Tracker) SetEnabled(on bool) {
	t.toggle.SetEnabled(on)
}

// Enabled reports whether lifecycle tracking is on.
func (t *Tracker) Enabled() bool {
	return t.toggle.Enabled()
}

// Attach registers a refresh callback on the broadcast channel.
func (t *Tracker) Attach(cb broadcast.Callback) (broadcast.Subscription, error) {
	return t.channel.Attach(cb)
}

// Detach removes a refresh callback.
func (t *Tracker) Detach(sub broadcast.Subscription) {
	t.channel.Detach(sub)
}

// Channel exposes the broadcast surface directly.
func (t *Tracker) Channel() *broadcast.Channel {
	return t.channel
}

// OnQuiescenceChanged registers fn to run after each lifecycle-driven
// recompute, with the fresh value. Returns a cancel func.
func (t *Tracker) OnQuiescenceChanged(fn func(quiescent bool)) (cancel func()) {
	id := t.nextChanged
	t.nextChanged++
	t.changed[id] = fn
	return func() { delete(t.changed, id) }
}

// Dispose tears the toggle down. Idempotent.
func (t *Tracker) Dispose() {
	t.toggle.Dispose()
}

// requestRefresh is the fan-in for every lifecycle signal: drop the cached
// answer and coalesce one refresh pass onto the next idle tick.
func (t *Tracker) requestRefresh() {
	t.cell.Invalidate()
	t.queue.ScheduleOnce(refreshKey{}, t.refresh)
}

func (t *Tracker) refresh() {
	q, err := t.cell.Get()
	if err != nil {
		t.log.Warn("quiescence query failed during refresh", "err", err)
		return
	}
	for _, fn := range t.changed {
		fn(q)
	}
	t.metrics.IncPublish()
	t.channel.Publish(broadcast.Event{
		Reason:    "lifecycle",
		Quiescent: q,
		At:        time.Now().UTC(),
	})
}

func (t *Tracker) snapshot(reason string) broadcast.Event {
	q, err := t.cell.Get()
	if err != nil {
		t.log.Warn("quiescence query failed for snapshot", "err", err)
	}
	return broadcast.Event{Reason: reason, Quiescent: q, At: time.Now().UTC()}
}
