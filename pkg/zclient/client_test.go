package zclient

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/routemgr/zclient/pkg/readiness/readinesstest"
)

func newTestClient(t *testing.T, dial func(network, address string, timeout time.Duration) (net.Conn, error), opts ...Option) (*Client, *readinesstest.Loop) {
	t.Helper()
	loop := readinesstest.New()
	c, err := New(append([]Option{WithEventLoop(loop)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.dial = dial
	return c, loop
}

// readFrames reads exactly n frames off conn, decoding just their header,
// and returns the commands in arrival order. It is run in its own
// goroutine by callers since net.Pipe is a synchronous rendezvous.
func readFrames(t *testing.T, conn net.Conn, n int) []Command {
	t.Helper()
	var got []Command
	hdr := make([]byte, HeaderSize)
	for i := 0; i < n; i++ {
		if _, err := readFull(conn, hdr); err != nil {
			t.Fatalf("reading header %d: %v", i, err)
		}
		h := decodeHeader(hdr)
		if h.length > HeaderSize {
			body := make([]byte, int(h.length)-HeaderSize)
			if _, err := readFull(conn, body); err != nil {
				t.Fatalf("reading body %d: %v", i, err)
			}
		}
		got = append(got, h.command)
	}
	return got
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// TestHandshakeOrderWithRedistDefault exercises spec's fixed
// post-connect handshake order: HELLO, ROUTER_ID_ADD, INTERFACE_ADD, then
// one REDISTRIBUTE_ADD per subscribed type other than redist_default
// itself (spec §4.4 step 6, scenario S3): redist_default is announced
// solely via HELLO, never via its own REDISTRIBUTE_ADD.
func TestHandshakeOrderWithRedistDefault(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	dial := func(string, string, time.Duration) (net.Conn, error) { return client, nil }
	c, _ := newTestClient(t, dial, WithRedistributeDefault(RouteBGP), WithTCPLoopback())
	c.Redistribute(true, RouteStatic)

	done := make(chan []Command, 1)
	go func() { done <- readFrames(t, server, 4) }()

	c.Init()

	got := <-done
	want := []Command{CommandHello, CommandRouterIDAdd, CommandInterfaceAdd, CommandRedistributeAdd}
	if len(got) != len(want) {
		t.Fatalf("got %d frames, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frame %d = %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
	// If redist_default wrongly produced its own REDISTRIBUTE_ADD, exactly
	// 5 frames would have been written and the 4-frame read above would
	// never have observed this 5th one; assert it never arrives.
	extra := make(chan error, 1)
	go func() {
		var b [1]byte
		_, err := server.Read(b[:])
		extra <- err
	}()
	select {
	case <-extra:
		t.Fatalf("received a 5th handshake frame; redist_default must not get its own REDISTRIBUTE_ADD")
	case <-time.After(50 * time.Millisecond):
	}
}

// TestHandshakeOrderWithoutRedistDefault verifies HELLO is skipped
// when no default route type has been subscribed (spec §3).
func TestHandshakeOrderWithoutRedistDefault(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	dial := func(string, string, time.Duration) (net.Conn, error) { return client, nil }
	c, _ := newTestClient(t, dial, WithTCPLoopback())

	done := make(chan []Command, 1)
	go func() { done <- readFrames(t, server, 2) }()

	c.Init()

	got := <-done
	want := []Command{CommandRouterIDAdd, CommandInterfaceAdd}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frame %d = %v, want %v", i, got[i], want[i])
		}
	}
}

// TestBackoffSchedule verifies fail_count < 3 uses the fast backoff and
// fail_count >= 3 uses the slow backoff (spec §4.4, scenario S5).
func TestBackoffSchedule(t *testing.T) {
	dial := func(string, string, time.Duration) (net.Conn, error) {
		return nil, ErrConnect
	}
	c, loop := newTestClient(t, dial, WithTCPLoopback())
	c.Init()

	wantDelays := []time.Duration{
		fastBackoff * time.Second,
		fastBackoff * time.Second,
		slowBackoff * time.Second,
	}
	for i, want := range wantDelays {
		if !loop.Armed() {
			t.Fatalf("attempt %d: no timer armed", i)
		}
		timer := loop.CurrentTimer()
		if timer.Delay() != want {
			t.Fatalf("attempt %d: delay = %v, want %v", i, timer.Delay(), want)
		}
		loop.FireTimers()
	}
}

// TestRedistributeIsIdempotent verifies a redundant subscribe/unsubscribe
// returns no error and leaves the subscription state as it was (spec §4.6).
// The client is never connected here, so no frame is involved.
func TestRedistributeIsIdempotent(t *testing.T) {
	c, _ := newTestClient(t, func(string, string, time.Duration) (net.Conn, error) {
		return nil, ErrConnect
	}, WithTCPLoopback())

	if err := c.Redistribute(false, RouteStatic); err != nil {
		t.Fatalf("Redistribute(false) on already-false: %v", err)
	}
	if c.redist[RouteStatic] {
		t.Fatalf("redist[RouteStatic] flipped true by a no-op unsubscribe")
	}

	if err := c.Redistribute(true, RouteStatic); err != nil {
		t.Fatalf("Redistribute(true): %v", err)
	}
	if !c.redist[RouteStatic] {
		t.Fatalf("Redistribute(true) did not set redist[RouteStatic]")
	}

	if err := c.Redistribute(true, RouteStatic); err != nil {
		t.Fatalf("Redistribute(true) on already-true: %v", err)
	}
}

// TestStopPreservesSubscriptions verifies Stop followed by Init (Reset)
// replays the same redistribution subscriptions (spec §3 Lifecycle).
func TestStopPreservesSubscriptions(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	dial := func(string, string, time.Duration) (net.Conn, error) { return client, nil }
	c, _ := newTestClient(t, dial, WithTCPLoopback())
	c.Redistribute(true, RouteOSPF)

	done := make(chan []Command, 1)
	go func() { done <- readFrames(t, server, 3) }()
	c.Init()
	<-done

	c.Stop()
	if !c.redist[RouteOSPF] {
		t.Fatalf("Stop cleared redistribution subscription state")
	}
}

// tcpPipe returns a connected, OS-buffered TCP conn pair, unlike net.Pipe
// which is a synchronous unbuffered rendezvous: a write on one side here
// completes without needing a concurrent blocked read on the other,
// matching how a real socket under epoll behaves.
func tcpPipe(t *testing.T) (clientConn, serverConn net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			close(accepted)
			return
		}
		accepted <- conn
	}()

	clientConn, err = net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	serverConn = <-accepted
	if serverConn == nil {
		t.Fatalf("accept failed")
	}
	return clientConn, serverConn
}

// TestSplitFrameDispatchesExactlyOnce verifies spec §8's boundary property:
// a frame split arbitrarily across multiple readable events still
// dispatches exactly once, only once fully buffered.
func TestSplitFrameDispatchesExactlyOnce(t *testing.T) {
	clientConn, serverConn := tcpPipe(t)
	defer serverConn.Close()

	dial := func(string, string, time.Duration) (net.Conn, error) { return clientConn, nil }
	c, loop := newTestClient(t, dial, WithTCPLoopback())

	var updates int
	c.OnRouterIDUpdate(func(*Client, RouterIDUpdate) { updates++ })

	// drain the handshake frames (ROUTER_ID_ADD, INTERFACE_ADD) the server
	// side never cares about here.
	go io.Copy(io.Discard, serverConn)

	c.Init()
	if len(loop.Registrations) == 0 {
		t.Fatalf("connect did not register the connection")
	}
	reg := loop.Registrations[len(loop.Registrations)-1]

	// a ROUTER_ID_UPDATE frame: length=12, family=IPv4, addr 10.0.0.1/24.
	frame := []byte{
		0x00, 0x0C, Marker, Version, byte(CommandRouterIDUpdate >> 8), byte(CommandRouterIDUpdate),
		2, 10, 0, 0, 1, 24,
	}

	if _, err := serverConn.Write(frame[:5]); err != nil {
		t.Fatalf("writing first half: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	reg.FireRead()
	if updates != 0 {
		t.Fatalf("dispatched before the frame was fully buffered")
	}

	if _, err := serverConn.Write(frame[5:]); err != nil {
		t.Fatalf("writing second half: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	reg.FireRead()
	if updates != 1 {
		t.Fatalf("updates = %d, want exactly 1 dispatch", updates)
	}
}
