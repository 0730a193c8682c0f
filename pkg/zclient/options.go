package zclient

import (
	"net"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/routemgr/zclient/pkg/readiness"
)

// DefaultUNIXSocketPath is the compiled-in default used when no explicit
// path has been configured (spec §4.4).
const DefaultUNIXSocketPath = "/var/run/zserv.api"

// DefaultTCPPort is the fixed loopback port used by TCP-loopback mode
// (spec §4.4's ZEBRA_PORT).
const DefaultTCPPort = 2600

// Option configures a Client at construction time.
type Option func(*Client) error

// WithEventLoop supplies the readiness.EventLoop the Client drives its
// connection and I/O against. Required.
func WithEventLoop(loop readiness.EventLoop) Option {
	return func(c *Client) error {
		c.loop = loop
		return nil
	}
}

// WithUNIXSocketPath overrides DefaultUNIXSocketPath. Per spec §4.4 and
// §6, a path that does not stat as a socket is rejected outright rather
// than silently falling back to the default.
func WithUNIXSocketPath(path string) Option {
	return func(c *Client) error {
		info, err := os.Stat(path)
		if err != nil {
			return ErrPathNotSocket
		}
		if info.Mode()&os.ModeSocket == 0 {
			return ErrPathNotSocket
		}
		c.network = "unix"
		c.unixPath = path
		return nil
	}
}

// WithTCPLoopback selects the TCP-loopback transport variant instead of
// the default UNIX socket (spec §4.4's HAVE_TCP_ZEBRA switch).
func WithTCPLoopback() Option {
	return func(c *Client) error {
		c.network = "tcp"
		return nil
	}
}

// WithRedistributeDefault sets the route-type implicitly subscribed by
// HELLO (spec §3).
func WithRedistributeDefault(t RouteType) Option {
	return func(c *Client) error {
		c.redistDefault = t
		c.redist[t] = true
		return nil
	}
}

// WithLogger overrides the package default logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) error {
		c.log = logger
		return nil
	}
}

// WithInterfaceTable supplies the interface registry collaborator
// (spec §6). If omitted, INTERFACE_* frames are decoded but not applied.
func WithInterfaceTable(t InterfaceTable) Option {
	return func(c *Client) error {
		c.ifaces = t
		return nil
	}
}

// WithConnectedAddressTable supplies the connected-address registry
// collaborator (spec §6).
func WithConnectedAddressTable(t ConnectedAddressTable) Option {
	return func(c *Client) error {
		c.addrs = t
		return nil
	}
}

// WithDiagnostics registers a hook invoked after every successful connect
// and disconnect with the live connection (or nil on disconnect), so a
// caller can feed a TCP_INFO collector (pkg/diag) without the core knowing
// anything about Prometheus.
func WithDiagnostics(hook func(conn net.Conn)) Option {
	return func(c *Client) error {
		c.diagHook = hook
		return nil
	}
}
