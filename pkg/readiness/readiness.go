// Package readiness defines the two host-loop capabilities the zclient core
// consumes (spec §6, §9): per-direction readiness interest on a descriptor,
// and a one-shot timer. The core never talks to epoll, kqueue, or a
// goroutine scheduler directly — it only ever calls through this interface,
// so a single implementation of the state machine works regardless of the
// host's event-loop shape, unlike the original's parallel "thread" and
// "nexus" variants (spec §9 DESIGN NOTES).
package readiness

import (
	"net"
	"time"
)

// EventLoop registers descriptors and creates timers.
type EventLoop interface {
	// Register returns a Registration for fd. The caller owns exactly one
	// Registration per descriptor at a time.
	Register(fd int) (Registration, error)

	// NewTimer returns an unarmed, reusable one-shot timer.
	NewTimer() Timer
}

// Registration lets the owner enable or disable read/write interest on a
// descriptor. Callbacks run on whatever goroutine/thread the EventLoop
// implementation drives its loop on; the zclient core requires they all run
// on the same one it is itself being driven from (spec §5).
type Registration interface {
	EnableRead(cb func())
	EnableWrite(cb func())
	DisableRead()
	DisableWrite()

	// Unregister releases the descriptor from the loop. It does not close
	// the descriptor itself.
	Unregister()
}

// ConnRegisterer is an optional capability of an EventLoop that cannot
// register a bare file descriptor portably (goloop is the only
// implementation in this package that needs it). A Client falls back to
// this when Register(fd) fails, passing the net.Conn it already has in
// hand instead of the fd it extracted from it.
type ConnRegisterer interface {
	RegisterConn(conn net.Conn) Registration
}

// Timer is a single reusable one-shot wake-up.
type Timer interface {
	// Arm schedules cb to run once after d. Arming an already-armed timer
	// replaces the pending fire.
	Arm(d time.Duration, cb func())

	// Cancel disarms the timer if armed. Idempotent.
	Cancel()
}
