// Package zclient implements the client side of ZAPI: a long-lived,
// reconnecting, message-framed duplex channel used by routing protocol
// daemons to announce routes to, and receive interface/router-id events
// from, a central routing manager (spec §1).
//
// A Client is not safe for concurrent use: every method must be called
// from the same goroutine that drives its readiness.EventLoop, exactly as
// spec §5 requires of the original single-threaded cooperative model.
package zclient

import (
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/routemgr/zclient/pkg/readiness"
)

// Client is one managed ZAPI channel (spec §3).
type Client struct {
	loop readiness.EventLoop
	log  *logrus.Logger

	network  string // "unix" or "tcp"
	unixPath string

	conn  net.Conn
	reg   readiness.Registration
	timer readiness.Timer

	// dial is overridden in tests to hand the client one end of a
	// net.Pipe instead of actually dialing a socket.
	dial func(network, address string, timeout time.Duration) (net.Conn, error)

	ingress *frameBuffer
	egress  *stream
	wb      writeBuffer

	enabled            bool
	failCount          int
	redistDefault      RouteType
	redist             [RouteTypeMax]bool
	defaultInformation bool

	handlers handlerTable

	ifaces InterfaceTable
	addrs  ConnectedAddressTable

	diagHook func(net.Conn)
}

// New constructs a Client. Callers must still call Init to start
// connecting.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		network: "unix",
		log:     logrus.StandardLogger(),
		ingress: newFrameBuffer(MaxPacket),
		egress:  newStream(),
		dial:    net.DialTimeout,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.loop == nil {
		return nil, fmt.Errorf("zclient: WithEventLoop is required")
	}
	if c.unixPath == "" {
		c.unixPath = DefaultUNIXSocketPath
	}
	return c, nil
}

// Init marks the client enabled and schedules the first connection attempt
// immediately, preserving whatever subscription state the caller already
// configured (spec §3 Lifecycle).
func (c *Client) Init() {
	c.enabled = true
	c.failCount = 0
	c.scheduleConnect(0)
}

// Stop closes the socket, cancels any armed timer, and resets transient
// buffers, but preserves redist/redistDefault/defaultInformation so a
// subsequent Init replays the same subscriptions (spec §3 Lifecycle).
func (c *Client) Stop() {
	if c.timer != nil {
		c.timer.Cancel()
	}
	c.closeConn()
	c.ingress.reset()
	c.egress.reset(0)
	c.wb.reset()
	c.enabled = false
}

// Reset is Stop followed by Init, preserving redistDefault (spec §3).
func (c *Client) Reset() {
	c.Stop()
	c.Init()
}

// Connected reports whether the socket is currently established.
func (c *Client) Connected() bool {
	return c.conn != nil
}

// FailCount returns the current consecutive-failure count.
func (c *Client) FailCount() int {
	return c.failCount
}

func (c *Client) closeConn() {
	if c.reg != nil {
		c.reg.DisableRead()
		c.reg.DisableWrite()
		c.reg.Unregister()
		c.reg = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
		if c.diagHook != nil {
			c.diagHook(nil)
		}
	}
}

type handlerTable struct {
	routerIDUpdate         func(*Client, RouterIDUpdate)
	interfaceAdd           func(*Client, *Interface)
	interfaceDelete        func(*Client, *Interface)
	interfaceUp            func(*Client, *Interface)
	interfaceDown          func(*Client, *Interface)
	interfaceAddressAdd    func(*Client, *ConnectedAddress)
	interfaceAddressDelete func(*Client, *ConnectedAddress)
	ipv4RouteAdd           func(*Client, IPv4Route)
	ipv4RouteDelete        func(*Client, IPv4Route)
	ipv6RouteAdd           func(*Client, IPv6Route)
	ipv6RouteDelete        func(*Client, IPv6Route)
}

// OnRouterIDUpdate installs the ROUTER_ID_UPDATE handler.
func (c *Client) OnRouterIDUpdate(fn func(*Client, RouterIDUpdate)) { c.handlers.routerIDUpdate = fn }

// OnInterfaceAdd installs the INTERFACE_ADD handler. The Interface passed
// to fn has already been looked-up-or-created in the InterfaceTable.
func (c *Client) OnInterfaceAdd(fn func(*Client, *Interface)) { c.handlers.interfaceAdd = fn }

// OnInterfaceDelete installs the INTERFACE_DELETE handler. fn's Interface
// is nil if the name was unknown to the InterfaceTable.
func (c *Client) OnInterfaceDelete(fn func(*Client, *Interface)) { c.handlers.interfaceDelete = fn }

// OnInterfaceUp installs the INTERFACE_UP handler.
func (c *Client) OnInterfaceUp(fn func(*Client, *Interface)) { c.handlers.interfaceUp = fn }

// OnInterfaceDown installs the INTERFACE_DOWN handler.
func (c *Client) OnInterfaceDown(fn func(*Client, *Interface)) { c.handlers.interfaceDown = fn }

// OnInterfaceAddressAdd installs the INTERFACE_ADDRESS_ADD handler.
func (c *Client) OnInterfaceAddressAdd(fn func(*Client, *ConnectedAddress)) {
	c.handlers.interfaceAddressAdd = fn
}

// OnInterfaceAddressDelete installs the INTERFACE_ADDRESS_DELETE handler.
func (c *Client) OnInterfaceAddressDelete(fn func(*Client, *ConnectedAddress)) {
	c.handlers.interfaceAddressDelete = fn
}

// OnIPv4RouteAdd installs the IPV4_ROUTE_ADD handler.
func (c *Client) OnIPv4RouteAdd(fn func(*Client, IPv4Route)) { c.handlers.ipv4RouteAdd = fn }

// OnIPv4RouteDelete installs the IPV4_ROUTE_DELETE handler.
func (c *Client) OnIPv4RouteDelete(fn func(*Client, IPv4Route)) { c.handlers.ipv4RouteDelete = fn }

// OnIPv6RouteAdd installs the IPV6_ROUTE_ADD handler.
func (c *Client) OnIPv6RouteAdd(fn func(*Client, IPv6Route)) { c.handlers.ipv6RouteAdd = fn }

// OnIPv6RouteDelete installs the IPV6_ROUTE_DELETE handler.
func (c *Client) OnIPv6RouteDelete(fn func(*Client, IPv6Route)) { c.handlers.ipv6RouteDelete = fn }
