package zclient

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/routemgr/zclient/pkg/readiness"
)

// scheduleConnect arms the reconnect timer for delay seconds, or connects
// immediately when delay is zero (spec §4.4's zclient_event_t scheduling).
// It is a no-op if the client has been stopped or the policy has already
// given up (fail_count >= maxFailCount).
func (c *Client) scheduleConnect(delaySeconds int) {
	if !c.enabled || c.failCount >= maxFailCount {
		return
	}
	if c.timer == nil {
		c.timer = c.loop.NewTimer()
	}
	if delaySeconds <= 0 {
		c.connect()
		return
	}
	c.timer.Arm(time.Duration(delaySeconds)*time.Second, c.connect)
}

// connect attempts to establish the socket, registers it with the event
// loop, and on success runs the post-connect handshake (spec §4.4, §4.1).
func (c *Client) connect() {
	if !c.enabled || c.conn != nil {
		return
	}

	addr := c.dialAddress()
	conn, err := c.dial(c.network, addr, 2*time.Second)
	if err != nil {
		c.fail(ErrConnect)
		return
	}

	reg, err := c.register(conn)
	if err != nil {
		_ = conn.Close()
		c.fail(ErrConnect)
		return
	}

	c.conn = conn
	c.reg = reg
	c.failCount = 0
	c.ingress.reset()
	c.wb.reset()

	c.reg.EnableRead(c.onReadable)

	if c.diagHook != nil {
		c.diagHook(conn)
	}

	c.runHandshake()
}

// register attaches conn to the event loop, using the fd-based path where
// available and falling back to readiness.ConnRegisterer (goloop) when the
// loop can't register a bare descriptor portably.
func (c *Client) register(conn net.Conn) (readiness.Registration, error) {
	if fd, err := socketFD(conn); err == nil {
		if reg, err := c.loop.Register(fd); err == nil {
			return reg, nil
		}
	}
	if cr, ok := c.loop.(readiness.ConnRegisterer); ok {
		return cr.RegisterConn(conn), nil
	}
	return nil, fmt.Errorf("zclient: event loop cannot register connection")
}

func (c *Client) dialAddress() string {
	if c.network == "tcp" {
		return net.JoinHostPort("127.0.0.1", strconv.Itoa(DefaultTCPPort))
	}
	return c.unixPath
}

// runHandshake replays HELLO (if a default route type is subscribed),
// ROUTER_ID_ADD, INTERFACE_ADD, and every currently-subscribed
// REDISTRIBUTE_ADD/REDISTRIBUTE_DEFAULT_ADD, in the fixed order spec §4.1
// requires. redistDefault is announced solely via HELLO, never via its own
// REDISTRIBUTE_ADD, matching zclient_start's `i != redist_default` guard.
func (c *Client) runHandshake() {
	if c.redistDefault != 0 {
		c.sendFrame(c.encodeHello())
	}
	c.sendFrame(c.encodeSimple(CommandRouterIDAdd))
	c.sendFrame(c.encodeSimple(CommandInterfaceAdd))
	for t := RouteType(0); t < RouteTypeMax; t++ {
		if t != c.redistDefault && c.redist[t] {
			c.sendFrame(c.encodeRouteType(CommandRedistributeAdd, t))
		}
	}
	if c.defaultInformation {
		c.sendFrame(c.encodeSimple(CommandRedistributeDefaultAdd))
	}
}

// fail tears the connection down (if any), increments fail_count, and
// schedules the next attempt per the backoff policy of spec §4.4: fewer
// than fastBackoffThreshold failures waits fastBackoff seconds, otherwise
// slowBackoff seconds, until failCount reaches maxFailCount, at which point
// no further automatic reconnection is scheduled (ErrPolicyStop).
func (c *Client) fail(cause error) {
	c.closeConn()
	if !c.enabled {
		return
	}
	c.failCount++
	if c.failCount >= maxFailCount {
		c.log.WithError(cause).WithField("fail_count", c.failCount).
			Warn("zclient: reconnect policy stopped")
		return
	}
	delay := slowBackoff
	if c.failCount < fastBackoffThreshold {
		delay = fastBackoff
	}
	c.log.WithError(cause).WithFields(map[string]interface{}{
		"fail_count": c.failCount,
		"delay":      delay,
	}).Debug("zclient: scheduling reconnect")
	c.scheduleConnect(delay)
}
