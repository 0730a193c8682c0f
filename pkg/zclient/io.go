package zclient

import (
	"errors"
	"io"
	"time"
)

// sendFrame hands frame to the non-blocking write path, queuing it (and
// arming write-readiness) if the socket can't take it all immediately
// (spec §4.3). Frames sent while disconnected are silently dropped, per
// spec §4.3's handling of disconnected sends — callers that care should
// check Connected first.
func (c *Client) sendFrame(frame []byte) {
	if c.conn == nil {
		return
	}
	result, err := c.wb.write(c.conn, frame)
	switch result {
	case writeError:
		c.fail(errJoin(ErrTransport, err))
	case writePending:
		if c.reg != nil {
			c.reg.EnableWrite(c.onWritable)
		}
	case writeEmpty:
		// nothing queued; nothing to do
	}
}

// onWritable drains the pending write queue. Once empty it disables write
// interest again, so the event loop only ever wakes this client for writes
// while there is genuinely something queued (spec §4.3).
func (c *Client) onWritable() {
	if c.conn == nil {
		return
	}
	result, err := c.wb.flush(c.conn)
	switch result {
	case writeError:
		c.fail(errJoin(ErrTransport, err))
	case writeEmpty:
		if c.reg != nil {
			c.reg.DisableWrite()
		}
	case writePending:
		// stay armed, try again next readiness
	}
}

// onReadable is the read-readiness callback. It pulls whatever is
// available into the ingress buffer and dispatches every complete frame
// that results, per the receive loop of spec §4.5. Every Read is given a
// deadline one millisecond out, so a peer with nothing more to say right now
// returns a timeout (treated as would-block) instead of suspending the
// goroutine driving the whole event loop for longer than that (spec §5:
// "the core returns to its caller after arming interest").
func (c *Client) onReadable() {
	if c.conn == nil {
		return
	}

	c.ingress.ensure(HeaderSize)
	for {
		free := c.ingress.free()
		if len(free) == 0 {
			// buffer full: either the declared length is satisfied, or the
			// frame is larger than the buffer, which tryDispatchOne grows so
			// the next readable event reads the rest
			break
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(time.Millisecond))
		n, err := c.conn.Read(free)
		if n > 0 {
			c.ingress.advance(n)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.fail(ErrTransport)
				return
			}
			if isWouldBlock(err) {
				break
			}
			c.fail(errJoin(ErrTransport, err))
			return
		}
		if n == 0 {
			break
		}
		if !c.wantMore() {
			break
		}
	}

	for c.tryDispatchOne() {
	}
}

// wantMore reports whether the ingress buffer still has room to read into
// given what's currently buffered: either we don't have a full header yet,
// or we have a header but not yet its full declared body.
func (c *Client) wantMore() bool {
	if c.ingress.len() < HeaderSize {
		return true
	}
	h := decodeHeader(c.ingress.bytes())
	return c.ingress.len() < int(h.length)
}

// tryDispatchOne consumes and dispatches exactly one complete frame from
// the front of the ingress buffer, if one is fully buffered. It reports
// whether it did so, so callers can loop until the buffer is drained of
// complete frames (a single readable event can deliver more than one).
func (c *Client) tryDispatchOne() bool {
	if c.ingress.len() < HeaderSize {
		return false
	}
	h := decodeHeader(c.ingress.bytes())
	if h.marker != Marker || h.version != Version {
		c.fail(ErrFraming)
		return false
	}
	if int(h.length) < HeaderSize {
		c.fail(ErrFraming)
		return false
	}
	if c.ingress.len() < int(h.length) {
		c.ingress.ensure(int(h.length))
		return false
	}

	body := c.ingress.bytes()[HeaderSize:h.length]
	rest := append([]byte(nil), c.ingress.bytes()[h.length:c.ingress.len()]...)

	c.dispatch(h.command, newCursor(body))

	c.ingress.reset()
	if len(rest) > 0 {
		c.ingress.ensure(len(rest))
		copy(c.ingress.free(), rest)
		c.ingress.advance(len(rest))
		return true
	}
	return false
}

func errJoin(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return errors.Join(sentinel, cause)
}
