//go:build linux

// Package epoll implements readiness.EventLoop on Linux with a single
// epoll(7) instance, in the teacher's direct-syscall idiom (see
// pkg/diag/linux's use of raw getsockopt rather than a cgo wrapper).
package epoll

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/routemgr/zclient/pkg/readiness"
)

// Loop is an epoll(7)-backed readiness.EventLoop. A Loop is not safe for
// concurrent use from multiple goroutines; callers drive it from Run in a
// single goroutine, matching the single-threaded cooperative model the
// zclient core assumes.
type Loop struct {
	epfd int

	mu    sync.Mutex
	regs  map[int]*registration
	timer *time.Timer
	stop  chan struct{}
}

// New creates an epoll instance. Call Run to drive it.
func New() (*Loop, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll: create: %w", err)
	}
	return &Loop{
		epfd: epfd,
		regs: make(map[int]*registration),
		stop: make(chan struct{}),
	}, nil
}

// Close releases the epoll descriptor. Run returns after Close.
func (l *Loop) Close() error {
	close(l.stop)
	return unix.Close(l.epfd)
}

// Run blocks, dispatching readiness callbacks until Close is called.
func (l *Loop) Run() error {
	events := make([]unix.EpollEvent, 64)
	for {
		select {
		case <-l.stop:
			return nil
		default:
		}

		n, err := unix.EpollWait(l.epfd, events, 250)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("epoll: wait: %w", err)
		}
		for i := 0; i < n; i++ {
			l.dispatch(events[i])
		}
	}
}

func (l *Loop) dispatch(ev unix.EpollEvent) {
	l.mu.Lock()
	reg, ok := l.regs[int(ev.Fd)]
	l.mu.Unlock()
	if !ok {
		return
	}

	if ev.Events&(unix.EPOLLIN|unix.EPOLLHUP|unix.EPOLLERR) != 0 {
		reg.fireRead()
	}
	if ev.Events&unix.EPOLLOUT != 0 {
		reg.fireWrite()
	}
}

// Register implements readiness.EventLoop.
func (l *Loop) Register(fd int) (readiness.Registration, error) {
	reg := &registration{loop: l, fd: fd}
	ev := unix.EpollEvent{Fd: int32(fd)}
	if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return nil, fmt.Errorf("epoll: ctl add fd %d: %w", fd, err)
	}
	l.mu.Lock()
	l.regs[fd] = reg
	l.mu.Unlock()
	return reg, nil
}

// NewTimer implements readiness.EventLoop using a plain time.Timer; epoll
// has no native timerfd requirement here since reconnect backoff only needs
// coarse wall-clock delay.
func (l *Loop) NewTimer() readiness.Timer {
	return &timer{}
}

type registration struct {
	loop *Loop
	fd   int

	mu    sync.Mutex
	read  func()
	write func()
}

func (r *registration) events() uint32 {
	var ev uint32
	if r.read != nil {
		ev |= unix.EPOLLIN
	}
	if r.write != nil {
		ev |= unix.EPOLLOUT
	}
	return ev
}

func (r *registration) apply() {
	ev := unix.EpollEvent{Fd: int32(r.fd), Events: r.events()}
	_ = unix.EpollCtl(r.loop.epfd, unix.EPOLL_CTL_MOD, r.fd, &ev)
}

func (r *registration) EnableRead(cb func()) {
	r.mu.Lock()
	r.read = cb
	r.mu.Unlock()
	r.apply()
}

func (r *registration) EnableWrite(cb func()) {
	r.mu.Lock()
	r.write = cb
	r.mu.Unlock()
	r.apply()
}

func (r *registration) DisableRead() {
	r.mu.Lock()
	r.read = nil
	r.mu.Unlock()
	r.apply()
}

func (r *registration) DisableWrite() {
	r.mu.Lock()
	r.write = nil
	r.mu.Unlock()
	r.apply()
}

func (r *registration) Unregister() {
	_ = unix.EpollCtl(r.loop.epfd, unix.EPOLL_CTL_DEL, r.fd, nil)
	r.loop.mu.Lock()
	delete(r.loop.regs, r.fd)
	r.loop.mu.Unlock()
}

func (r *registration) fireRead() {
	r.mu.Lock()
	cb := r.read
	r.mu.Unlock()
	if cb != nil {
		cb()
	}
}

func (r *registration) fireWrite() {
	r.mu.Lock()
	cb := r.write
	r.mu.Unlock()
	if cb != nil {
		cb()
	}
}

type timer struct {
	t *time.Timer
}

func (tm *timer) Arm(d time.Duration, cb func()) {
	tm.Cancel()
	tm.t = time.AfterFunc(d, cb)
}

func (tm *timer) Cancel() {
	if tm.t != nil {
		tm.t.Stop()
		tm.t = nil
	}
}
