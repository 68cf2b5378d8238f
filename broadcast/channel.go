// Package broadcast delivers refresh events to attached subscribers once
// the interactive surface is live.
//
// The channel is not a general pub/sub bus: there is exactly one event
// stream, delivery is best-effort, and a subscriber that attaches after the
// channel is already live receives one catch-up delivery so it does not
// miss the "ready" state. All methods run on the host's UI goroutine.
package broadcast

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jask/quiesce/dispatch"
)

// ErrNilCallback is returned by Attach for a nil callback. Attaching
// nothing is a programming error and fails fast.
var ErrNilCallback = errors.New("broadcast: nil callback")

// Event is the state snapshot handed to subscribers.
type Event struct {
	Reason    string
	Quiescent bool
	At        time.Time
}

// Callback receives events. A non-nil error, or a panic, is reported to
// the channel's logger; it never reaches sibling subscribers or the
// publisher.
type Callback func(Event) error

// Subscription identifies one attached callback for later detachment.
// Callbacks are functions and not comparable, so detachment goes through
// the subscription handle instead.
type Subscription struct {
	id uuid.UUID
}

type entry struct {
	id uuid.UUID
	cb Callback
}

// Channel is the single broadcast surface. It starts dormant and MarkLive
// is one-way.
type Channel struct {
	disp     *dispatch.Dispatcher
	snapshot func(reason string) Event
	log      *slog.Logger
	failed   func()

	subs []entry
	live bool
}

// New returns a dormant channel. snapshot builds the state payload for
// catch-up and live transitions; nil gets a bare reason-only snapshot.
func New(disp *dispatch.Dispatcher, snapshot func(reason string) Event, log *slog.Logger) *Channel {
	if snapshot == nil {
		snapshot = func(reason string) Event {
			return Event{Reason: reason, At: time.Now().UTC()}
		}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Channel{disp: disp, snapshot: snapshot, log: log}
}

// SetFailureHook installs a hook invoked once per failed subscriber
// delivery. Used for metrics; may be nil.
func (c *Channel) SetFailureHook(fn func()) {
	c.failed = fn
}

// Live reports whether the surface has been confirmed present.
func (c *Channel) Live() bool {
	return c.live
}

// Subscribers reports how many callbacks are registered.
func (c *Channel) Subscribers() int {
	return len(c.subs)
}

// Attach registers cb for future events. On a dormant channel cb is
// appended silently. On a live channel cb first receives one catch-up
// delivery through the dispatcher, and is registered only if that delivery
// succeeds; after a failed catch-up the caller holds a dead subscription
// and must attach again. Attaching the same callback twice is the caller's
// bug; the channel does not deduplicate.
func (c *Channel) Attach(cb Callback) (Subscription, error) {
	if cb == nil {
		return Subscription{}, ErrNilCallback
	}
	sub := Subscription{id: uuid.New()}
	if !c.live {
		c.subs = append(c.subs, entry{id: sub.id, cb: cb})
		return sub, nil
	}
	ev := c.snapshot("catch-up")
	c.disp.Schedule(func() {
		if err := invoke(cb, ev); err != nil {
			c.report("catch-up", err)
			return
		}
		c.subs = append(c.subs, entry{id: sub.id, cb: cb})
	})
	return sub, nil
}

// Detach removes the subscription. Unknown or already-removed
// subscriptions are ignored.
func (c *Channel) Detach(sub Subscription) {
	for i, e := range c.subs {
		if e.id == sub.id {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}

// Publish schedules one delivery of ev to every currently attached
// subscriber. A dormant channel drops the event: there is nobody to
// refresh yet. A failing subscriber does not block the rest.
func (c *Channel) Publish(ev Event) {
	if !c.live {
		return
	}
	targets := make([]entry, len(c.subs))
	copy(targets, c.subs)
	c.disp.Schedule(func() {
		for _, e := range targets {
			if err := invoke(e.cb, ev); err != nil {
				c.report(ev.Reason, err)
			}
		}
	})
}

// MarkLive transitions the channel to live, once, and publishes a snapshot
// carrying the reason the surface became ready.
func (c *Channel) MarkLive(reason string) {
	if c.live {
		return
	}
	c.live = true
	c.Publish(c.snapshot(reason))
}

func invoke(cb Callback, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panic: %v", r)
		}
	}()
	return cb(ev)
}

func (c *Channel) report(reason string, err error) {
	c.log.Warn("subscriber delivery failed", "reason", reason, "err", err)
	if c.failed != nil {
		c.failed()
	}
}
