package zclient

import "errors"

// Error taxonomy per spec §7. ConnectError and TransportError/FramingError
// all collapse to the same internal recovery path ((*Client).fail); they
// are exported so callers and tests can classify a failure if they care to.
var (
	// ErrNotConnected is returned by send operations when no socket is
	// currently established; the caller's send is simply dropped.
	ErrNotConnected = errors.New("zclient: not connected")

	// ErrFraming indicates a malformed frame header: bad marker, bad
	// version, or a declared length shorter than HeaderSize.
	ErrFraming = errors.New("zclient: framing error")

	// ErrTransport indicates a read or write syscall failure, or a clean
	// peer close observed as a zero-length read.
	ErrTransport = errors.New("zclient: transport error")

	// ErrConnect indicates socket() or connect() failed.
	ErrConnect = errors.New("zclient: connect error")

	// ErrPolicyStop indicates fail_count has reached the reconnect cap;
	// no further automatic reconnection will be scheduled until Reset.
	ErrPolicyStop = errors.New("zclient: reconnect policy stopped, call Reset")

	// ErrPathNotSocket is returned by WithUNIXSocketPath when the given
	// path does not stat as a UNIX domain socket.
	ErrPathNotSocket = errors.New("zclient: path does not exist or is not a socket")
)

// maxFailCount is the spec §4.4 cap past which no automatic reconnect is
// scheduled.
const maxFailCount = 10

// backoff schedule thresholds (spec §4.4).
const (
	fastBackoffThreshold = 3
	fastBackoff          = 10 // seconds
	slowBackoff          = 60 // seconds
)
