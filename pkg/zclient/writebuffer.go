package zclient

import (
	"errors"
	"io"
	"net"
	"time"
)

// writeResult mirrors the original implementation's BUFFER_ERROR /
// BUFFER_EMPTY / BUFFER_PENDING tri-state result of a non-blocking write.
type writeResult int

const (
	writeError writeResult = iota
	writeEmpty
	writePending
)

// writeBuffer is the FIFO overflow queue described in spec §4.3: bytes that
// a non-blocking write couldn't push to the socket immediately are queued
// here and retried on write readiness.
type writeBuffer struct {
	pending []byte
}

func (w *writeBuffer) empty() bool { return len(w.pending) == 0 }

func (w *writeBuffer) pendingBytes() int { return len(w.pending) }

func (w *writeBuffer) reset() { w.pending = nil }

// write attempts to drain any already-queued bytes followed by frame, and
// queues whatever the socket would block on.
func (w *writeBuffer) write(conn net.Conn, frame []byte) (writeResult, error) {
	if len(w.pending) > 0 {
		w.pending = append(w.pending, frame...)
		return w.flush(conn)
	}
	_ = conn.SetWriteDeadline(time.Now().Add(time.Millisecond))
	n, err := conn.Write(frame)
	if err != nil {
		if isWouldBlock(err) {
			w.pending = append(w.pending, frame[n:]...)
			return writePending, nil
		}
		return writeError, err
	}
	if n < len(frame) {
		w.pending = append(w.pending, frame[n:]...)
		return writePending, nil
	}
	return writeEmpty, nil
}

// flush drains as much of the pending queue as the socket accepts without
// blocking.
func (w *writeBuffer) flush(conn net.Conn) (writeResult, error) {
	for len(w.pending) > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(time.Millisecond))
		n, err := conn.Write(w.pending)
		if n > 0 {
			w.pending = w.pending[n:]
		}
		if err != nil {
			if isWouldBlock(err) {
				return writePending, nil
			}
			return writeError, err
		}
		if n == 0 {
			return writePending, nil
		}
	}
	return writeEmpty, nil
}

func isWouldBlock(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, io.ErrShortWrite)
}
