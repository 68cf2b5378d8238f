// Package teahost adapts a bubbletea program to the quiesce host contract.
//
// Lifecycle notifications travel as ordinary tea messages through the
// program's single Update goroutine, which keeps every quiesce call on the
// one goroutine the coordination core assumes. The dispatcher's idle tick
// is a flush message the adapter posts to itself via the program's Send.
package teahost

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/quiesce"
)

// SurfaceActivatedMsg reports that a surface became active.
type SurfaceActivatedMsg struct {
	Surface quiesce.SurfaceID
}

// SurfaceCreatedMsg reports that a surface came into existence.
type SurfaceCreatedMsg struct {
	Surface quiesce.SurfaceID
}

// SurfaceDestroyedMsg reports that a surface went away.
type SurfaceDestroyedMsg struct {
	Surface quiesce.SurfaceID
}

// LockChangedMsg reports a lock-mode transition on the active surface.
type LockChangedMsg struct {
	Surface  quiesce.SurfaceID
	Category string
}

// WillQuitMsg reports that the program is about to terminate.
type WillQuitMsg struct{}

// flushMsg triggers one idle pass; posted by OnNextIdle.
type flushMsg struct{}

// Cmd wraps a lifecycle message as a tea command for use in Update chains.
func Cmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

type handlers[T any] struct {
	m    map[int]func(T)
	next int
}

func (h *handlers[T]) add(fn func(T)) func() {
	if h.m == nil {
		h.m = make(map[int]func(T))
	}
	id := h.next
	h.next++
	h.m[id] = fn
	return func() { delete(h.m, id) }
}

func (h *handlers[T]) fire(v T) {
	for _, fn := range h.m {
		fn(v)
	}
}

// Host implements quiesce.Host and dispatch.IdleSource over a bubbletea
// program. Construct it before the program, hand it to quiesce.New as both
// host and idle source, then wire the running program's Send with SetSend
// and route every message through Update.
type Host struct {
	quiescent func() bool
	present   func() bool
	send      func(tea.Msg)

	lock      handlers[quiesce.LockChange]
	activated handlers[quiesce.SurfaceID]
	destroyed handlers[quiesce.SurfaceID]
	created   handlers[quiesce.SurfaceID]
	willQuit  handlers[struct{}]

	idle        []func()
	flushQueued bool
}

// New builds a host adapter over the program's quiescence and presence
// probes. Both run on the Update goroutine.
func New(quiescent, present func() bool) *Host {
	return &Host{quiescent: quiescent, present: present}
}

// SetSend wires the running program's Send so idle flushes can be posted
// from inside Update. Idle callbacks registered before SetSend wait for
// it.
func (h *Host) SetSend(send func(tea.Msg)) {
	h.send = send
	if len(h.idle) > 0 {
		h.queueFlush()
	}
}

// Quiescent implements quiesce.Host.
func (h *Host) Quiescent() bool {
	if h.quiescent == nil {
		return false
	}
	return h.quiescent()
}

// SurfacePresent implements quiesce.Host.
func (h *Host) SurfacePresent() bool {
	if h.present == nil {
		return false
	}
	return h.present()
}

// OnLockChanged implements quiesce.Host.
func (h *Host) OnLockChanged(fn func(quiesce.LockChange)) func() {
	return h.lock.add(fn)
}

// OnSurfaceActivated implements quiesce.Host.
func (h *Host) OnSurfaceActivated(fn func(quiesce.SurfaceID)) func() {
	return h.activated.add(fn)
}

// OnSurfaceDestroyed implements quiesce.Host.
func (h *Host) OnSurfaceDestroyed(fn func(quiesce.SurfaceID)) func() {
	return h.destroyed.add(fn)
}

// OnSurfaceCreated implements quiesce.Host.
func (h *Host) OnSurfaceCreated(fn func(quiesce.SurfaceID)) func() {
	return h.created.add(fn)
}

// OnWillQuit implements quiesce.Host.
func (h *Host) OnWillQuit(fn func()) func() {
	return h.willQuit.add(func(struct{}) { fn() })
}

// OnNextIdle implements dispatch.IdleSource: fn runs on the next flush
// message.
func (h *Host) OnNextIdle(fn func()) {
	h.idle = append(h.idle, fn)
	h.queueFlush()
}

func (h *Host) queueFlush() {
	if h.flushQueued || h.send == nil {
		return
	}
	h.flushQueued = true
	h.send(flushMsg{})
}

// Update routes lifecycle and flush messages into the registered handlers.
// It reports whether msg was consumed, so the embedding model can fall
// through to its own handling otherwise.
func (h *Host) Update(msg tea.Msg) bool {
	switch m := msg.(type) {
	case flushMsg:
		h.flushQueued = false
		fns := h.idle
		h.idle = nil
		for _, fn := range fns {
			fn()
		}
		return true
	case LockChangedMsg:
		h.lock.fire(quiesce.LockChange{Surface: m.Surface, Category: m.Category})
		return true
	case SurfaceActivatedMsg:
		h.activated.fire(m.Surface)
		return true
	case SurfaceDestroyedMsg:
		h.destroyed.fire(m.Surface)
		return true
	case SurfaceCreatedMsg:
		h.created.fire(m.Surface)
		return true
	case WillQuitMsg:
		h.willQuit.fire(struct{}{})
		return true
	}
	return false
}

// Flush runs pending idle callbacks directly. Tests and hosts without a
// running program use this instead of the posted flush message.
func (h *Host) Flush() {
	h.Update(flushMsg{})
}
