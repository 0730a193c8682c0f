// Package readinesstest provides a synchronous, single-goroutine
// readiness.EventLoop for exercising the zclient state machine in tests
// without a real epoll loop or sleeping through backoff timers.
package readinesstest

import (
	"net"
	"time"

	"github.com/routemgr/zclient/pkg/readiness"
)

// Loop is a fake EventLoop: Register never fails, and timers only fire when
// the test explicitly calls FireTimers (real wall-clock delays are never
// waited out).
type Loop struct {
	Registrations []*Registration
	timers        []*Timer
}

func New() *Loop { return &Loop{} }

func (l *Loop) Register(fd int) (readiness.Registration, error) {
	r := &Registration{FD: fd}
	l.Registrations = append(l.Registrations, r)
	return r, nil
}

// RegisterConn implements readiness.ConnRegisterer, for driving the state
// machine over a net.Pipe in tests where conn has no real file descriptor
// for Register(fd) to find.
func (l *Loop) RegisterConn(conn net.Conn) readiness.Registration {
	r := &Registration{FD: -1}
	l.Registrations = append(l.Registrations, r)
	return r
}

func (l *Loop) NewTimer() readiness.Timer {
	t := &Timer{}
	l.timers = append(l.timers, t)
	return t
}

// FireTimers invokes every currently armed timer's callback and disarms it,
// simulating backoff delays elapsing instantly.
func (l *Loop) FireTimers() {
	for _, t := range l.timers {
		if t.cb != nil && t.armed {
			cb := t.cb
			t.armed = false
			cb()
		}
	}
}

// CurrentTimer returns the most recently created timer, for tests against
// code (like zclient) that lazily creates and then reuses a single Timer.
// Panics if no timer has been created yet.
func (l *Loop) CurrentTimer() *Timer {
	return l.timers[len(l.timers)-1]
}

// Armed reports whether any timer is currently armed.
func (l *Loop) Armed() bool {
	for _, t := range l.timers {
		if t.armed {
			return true
		}
	}
	return false
}

type Registration struct {
	FD              int
	ReadEnabled     bool
	WriteEnabled    bool
	Unregistered    bool
	readCB, writeCB func()
}

func (r *Registration) EnableRead(cb func())  { r.ReadEnabled = true; r.readCB = cb }
func (r *Registration) EnableWrite(cb func()) { r.WriteEnabled = true; r.writeCB = cb }
func (r *Registration) DisableRead()          { r.ReadEnabled = false; r.readCB = nil }
func (r *Registration) DisableWrite()         { r.WriteEnabled = false; r.writeCB = nil }
func (r *Registration) Unregister()           { r.Unregistered = true }

// FireRead invokes the read callback, simulating read readiness.
func (r *Registration) FireRead() {
	if r.readCB != nil {
		r.readCB()
	}
}

// FireWrite invokes the write callback, simulating write readiness.
func (r *Registration) FireWrite() {
	if r.writeCB != nil {
		r.writeCB()
	}
}

type Timer struct {
	armed bool
	delay time.Duration
	cb    func()
}

func (t *Timer) Arm(d time.Duration, cb func()) {
	t.armed = true
	t.delay = d
	t.cb = cb
}

func (t *Timer) Cancel() {
	t.armed = false
	t.cb = nil
}

// Delay returns the duration the timer was last armed with, for assertions
// about backoff scheduling (spec §8 S5).
func (t *Timer) Delay() time.Duration { return t.delay }
