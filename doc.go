// Package quiesce coordinates a host application's UI-lifecycle signals
// with application-registered refresh callbacks.
//
// Allowed here:
// - the Host contract and the Tracker that composes the coordination core
// - the lifecycle toggle and its quit latch
// - lock-category filter policy
//
// Not allowed here:
// - widget or rendering code of any kind
// - host-specific transport (see package teahost for the bubbletea adapter)
//
// Everything in this module runs on the host's single UI goroutine. State
// is never shared across goroutines and no locks are taken; deferred work
// is parked on the host's idle tick (package dispatch), not on timers or
// background goroutines.
package quiesce
