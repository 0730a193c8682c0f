package zclient

import "fmt"

// encodeHello builds a HELLO frame: uint8 redist_default (spec §4.2).
func (c *Client) encodeHello() []byte {
	c.egress.reset(CommandHello)
	c.egress.putUint8(uint8(c.redistDefault))
	return c.egress.finish()
}

// encodeSimple builds an empty-body frame (ROUTER_ID_ADD, INTERFACE_ADD,
// REDISTRIBUTE_DEFAULT_ADD/DELETE).
func (c *Client) encodeSimple(command Command) []byte {
	c.egress.reset(command)
	return c.egress.finish()
}

// encodeRouteType builds a frame whose sole body field is a route-type
// octet (REDISTRIBUTE_ADD/DELETE).
func (c *Client) encodeRouteType(command Command, t RouteType) []byte {
	c.egress.reset(command)
	c.egress.putUint8(uint8(t))
	return c.egress.finish()
}

func (c *Client) encodeIPv4Route(command Command, r IPv4Route) ([]byte, error) {
	if r.Prefix.Family != FamilyIPv4 {
		return nil, fmt.Errorf("zclient: IPv4Route prefix family must be FamilyIPv4")
	}
	psize := PrefixByteLen(r.Prefix.PrefixLen)
	if len(r.Prefix.Address) < psize {
		return nil, fmt.Errorf("zclient: IPv4Route prefix shorter than prefixlen requires")
	}

	c.egress.reset(command)
	c.egress.putUint8(uint8(r.Type))
	c.egress.putUint8(r.ZebraFlag)
	c.egress.putUint8(r.Message)
	c.egress.putUint16(uint16(r.SAFI))
	c.egress.putUint8(r.Prefix.PrefixLen)
	c.egress.put(r.Prefix.Address[:psize])

	if r.Message&MessageNexthop != 0 {
		if r.ZebraFlag&(ZebraFlagBlackhole|ZebraFlagReject) != 0 {
			c.egress.putUint8(1)
			c.egress.putUint8(uint8(NexthopTypeBlackhole))
		} else {
			c.egress.putUint8(uint8(len(r.Nexthops) + len(r.Ifindexes)))
			for _, nh := range r.Nexthops {
				c.egress.putUint8(uint8(NexthopTypeIPv4))
				c.egress.put(nh[:])
			}
			for _, idx := range r.Ifindexes {
				c.egress.putUint8(uint8(NexthopTypeIFIndex))
				c.egress.putUint32(idx)
			}
		}
	}
	if r.Message&MessageDistance != 0 {
		c.egress.putUint8(r.Distance)
	}
	if r.Message&MessageMetric != 0 {
		c.egress.putUint32(r.Metric)
	}
	return c.egress.finish(), nil
}

func (c *Client) encodeIPv6Route(command Command, r IPv6Route) ([]byte, error) {
	if r.Prefix.Family != FamilyIPv6 {
		return nil, fmt.Errorf("zclient: IPv6Route prefix family must be FamilyIPv6")
	}
	psize := PrefixByteLen(r.Prefix.PrefixLen)
	if len(r.Prefix.Address) < psize {
		return nil, fmt.Errorf("zclient: IPv6Route prefix shorter than prefixlen requires")
	}

	c.egress.reset(command)
	c.egress.putUint8(uint8(r.Type))
	c.egress.putUint8(r.ZebraFlag)
	c.egress.putUint8(r.Message)
	c.egress.putUint16(uint16(r.SAFI))
	c.egress.putUint8(r.Prefix.PrefixLen)
	c.egress.put(r.Prefix.Address[:psize])

	if r.Message&MessageNexthop != 0 {
		if r.ZebraFlag&(ZebraFlagBlackhole|ZebraFlagReject) != 0 {
			c.egress.putUint8(1)
			c.egress.putUint8(uint8(NexthopTypeBlackhole))
		} else {
			c.egress.putUint8(uint8(len(r.Nexthops) + len(r.Ifindexes)))
			for _, nh := range r.Nexthops {
				c.egress.putUint8(uint8(NexthopTypeIPv6))
				c.egress.put(nh[:])
			}
			for _, idx := range r.Ifindexes {
				c.egress.putUint8(uint8(NexthopTypeIFIndex))
				c.egress.putUint32(idx)
			}
		}
	}
	if r.Message&MessageDistance != 0 {
		c.egress.putUint8(r.Distance)
	}
	if r.Message&MessageMetric != 0 {
		c.egress.putUint32(r.Metric)
	}
	return c.egress.finish(), nil
}
