package quiesce

import (
	"io"
	"log/slog"
)

// handlerList is a minimal signal source for tests.
type handlerList[T any] struct {
	m    map[int]func(T)
	next int
}

func (h *handlerList[T]) add(fn func(T)) func() {
	if h.m == nil {
		h.m = make(map[int]func(T))
	}
	id := h.next
	h.next++
	h.m[id] = fn
	return func() { delete(h.m, id) }
}

func (h *handlerList[T]) fire(v T) {
	for _, fn := range h.m {
		fn(v)
	}
}

func (h *handlerList[T]) count() int {
	return len(h.m)
}

// fakeHost implements Host with countable registrations and fireable
// signals.
type fakeHost struct {
	quiescent    bool
	present      bool
	queries      int
	cancelPanics bool

	lock      handlerList[LockChange]
	activated handlerList[SurfaceID]
	destroyed handlerList[SurfaceID]
	created   handlerList[SurfaceID]
	willQuit  handlerList[struct{}]
}

func (f *fakeHost) Quiescent() bool {
	f.queries++
	return f.quiescent
}

func (f *fakeHost) SurfacePresent() bool {
	return f.present
}

func (f *fakeHost) wrap(cancel func()) func() {
	return func() {
		if f.cancelPanics {
			panic("detach failed")
		}
		cancel()
	}
}

func (f *fakeHost) OnLockChanged(fn func(LockChange)) func() {
	return f.wrap(f.lock.add(fn))
}

func (f *fakeHost) OnSurfaceActivated(fn func(SurfaceID)) func() {
	return f.wrap(f.activated.add(fn))
}

func (f *fakeHost) OnSurfaceDestroyed(fn func(SurfaceID)) func() {
	return f.wrap(f.destroyed.add(fn))
}

func (f *fakeHost) OnSurfaceCreated(fn func(SurfaceID)) func() {
	return f.wrap(f.created.add(fn))
}

func (f *fakeHost) OnWillQuit(fn func()) func() {
	return f.wrap(f.willQuit.add(func(struct{}) { fn() }))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
