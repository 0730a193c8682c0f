// Package goloop implements readiness.EventLoop with a goroutine per
// descriptor polling Read/Write deadlines, for platforms without epoll and
// for embedding in daemons that would rather not run their own epoll loop.
// The reconnect-delay/timer idiom here is styled after other_examples'
// localrivet-gomcp UDP transport option (WithReconnectDelay) — a style
// reference only, nothing is copied from it verbatim.
package goloop

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/routemgr/zclient/pkg/readiness"
)

var errUnsupportedFD = errors.New("goloop: Register(fd) unsupported, use RegisterConn")

// pollInterval bounds how promptly a registered descriptor's readiness is
// noticed; it trades a little latency for portability.
const pollInterval = 20 * time.Millisecond

// Loop is a goroutine-driven readiness.EventLoop keyed on net.Conn, since
// the portable poll primitive it uses is SetReadDeadline/SetWriteDeadline,
// not select/poll/epoll on a raw fd.
type Loop struct{}

// New returns a ready-to-use Loop. There is no Run: each Registration owns
// its own goroutines.
func New() *Loop { return &Loop{} }

// RegisterConn is the goloop-specific entry point: the zclient core calls
// through readiness.EventLoop, but goloop needs the net.Conn itself (not
// just its fd) to set deadlines, so callers that pick this adapter use
// RegisterConn instead of the fd-oriented Register.
func (l *Loop) RegisterConn(conn net.Conn) readiness.Registration {
	r := &registration{conn: conn, closed: make(chan struct{})}
	return r
}

// Register exists to satisfy readiness.EventLoop for callers that only have
// an fd; goloop cannot poll a bare fd portably, so this always errors and
// callers on non-epoll platforms must use RegisterConn directly.
func (l *Loop) Register(fd int) (readiness.Registration, error) {
	return nil, errUnsupportedFD
}

func (l *Loop) NewTimer() readiness.Timer {
	return &timer{}
}

type registration struct {
	conn net.Conn

	mu    sync.Mutex
	read  func()
	write func()

	closed   chan struct{}
	closeOne sync.Once
}

func (r *registration) EnableRead(cb func()) {
	r.mu.Lock()
	first := r.read == nil
	r.read = cb
	r.mu.Unlock()
	if first {
		go r.pollRead()
	}
}

func (r *registration) EnableWrite(cb func()) {
	r.mu.Lock()
	first := r.write == nil
	r.write = cb
	r.mu.Unlock()
	if first {
		go r.pollWrite()
	}
}

func (r *registration) DisableRead() {
	r.mu.Lock()
	r.read = nil
	r.mu.Unlock()
}

func (r *registration) DisableWrite() {
	r.mu.Lock()
	r.write = nil
	r.mu.Unlock()
}

func (r *registration) Unregister() {
	r.closeOne.Do(func() { close(r.closed) })
}

// pollRead does not itself attempt to read conn: doing so would consume
// bytes the caller's own Read in the dispatch path needs. Instead it wakes
// the registered callback on a fixed cadence; the callback is expected to
// use a short read deadline and treat a timeout as "not yet readable" (the
// same PartialIO outcome spec §7 already requires it to handle).
func (r *registration) pollRead() {
	for {
		r.mu.Lock()
		cb := r.read
		r.mu.Unlock()
		if cb == nil {
			return
		}
		select {
		case <-r.closed:
			return
		default:
		}
		cb()
		time.Sleep(pollInterval)
	}
}

func (r *registration) pollWrite() {
	for {
		r.mu.Lock()
		cb := r.write
		r.mu.Unlock()
		if cb == nil {
			return
		}
		select {
		case <-r.closed:
			return
		default:
		}
		cb()
		time.Sleep(pollInterval)
	}
}

type timer struct {
	mu sync.Mutex
	t  *time.Timer
}

func (tm *timer) Arm(d time.Duration, cb func()) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.t != nil {
		tm.t.Stop()
	}
	tm.t = time.AfterFunc(d, cb)
}

func (tm *timer) Cancel() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.t != nil {
		tm.t.Stop()
		tm.t = nil
	}
}
