package quiesce

// SurfaceID identifies one interactive surface owned by the host: a
// document window, an editor pane.
type SurfaceID string

// LockChange describes a lock-mode transition on the active surface. The
// host tags each change with a category; the tracker's filter decides
// which categories are transient bookkeeping and which mean real state.
type LockChange struct {
	Surface  SurfaceID
	Category string
}

// Host is the contract the coordination layer needs from the embedding
// application. Registration methods return a cancel func that removes the
// handler again. All calls happen on the host's UI goroutine.
type Host interface {
	// Quiescent reports whether the interactive surface is idle: no
	// command in progress, nothing mid-drag, no lock held. Callers read
	// this at high frequency; the tracker caches the answer.
	Quiescent() bool

	// SurfacePresent reports whether an interactive surface exists yet.
	SurfacePresent() bool

	OnLockChanged(func(LockChange)) (cancel func())
	OnSurfaceActivated(func(SurfaceID)) (cancel func())
	OnSurfaceDestroyed(func(SurfaceID)) (cancel func())
	OnSurfaceCreated(func(SurfaceID)) (cancel func())
	OnWillQuit(func()) (cancel func())
}
