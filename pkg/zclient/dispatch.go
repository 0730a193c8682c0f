package zclient

// dispatch decodes one frame body according to command and invokes the
// matching typed handler, applying InterfaceTable/ConnectedAddressTable
// side effects first when collaborators are configured (spec §6). Unknown
// or unhandled commands are logged and dropped; they never fail the
// connection (spec §4.5: "an unrecognised command is not a framing error").
func (c *Client) dispatch(command Command, cur *Cursor) {
	switch command {
	case CommandRouterIDUpdate:
		u, err := decodeRouterIDUpdate(cur)
		if err != nil {
			c.fail(ErrFraming)
			return
		}
		if c.handlers.routerIDUpdate != nil {
			c.handlers.routerIDUpdate(c, u)
		}

	case CommandInterfaceAdd:
		u, err := decodeInterfaceAdd(cur)
		if err != nil {
			c.fail(ErrFraming)
			return
		}
		ifp := c.applyInterfaceAdd(u)
		if c.handlers.interfaceAdd != nil {
			c.handlers.interfaceAdd(c, ifp)
		}

	case CommandInterfaceDelete:
		u, err := decodeInterfaceState(cur)
		if err != nil {
			c.fail(ErrFraming)
			return
		}
		var ifp *Interface
		if c.ifaces != nil {
			ifp = c.ifaces.LookupByName(u.Name)
		}
		if c.handlers.interfaceDelete != nil {
			c.handlers.interfaceDelete(c, ifp)
		}

	case CommandInterfaceUp:
		c.dispatchInterfaceState(cur, c.handlers.interfaceUp)

	case CommandInterfaceDown:
		c.dispatchInterfaceState(cur, c.handlers.interfaceDown)

	case CommandInterfaceAddressAdd:
		u, err := decodeConnectedAddress(cur)
		if err != nil {
			c.fail(ErrFraming)
			return
		}
		ca := c.applyConnectedAddressAdd(u)
		if c.handlers.interfaceAddressAdd != nil {
			c.handlers.interfaceAddressAdd(c, ca)
		}

	case CommandInterfaceAddressDelete:
		u, err := decodeConnectedAddress(cur)
		if err != nil {
			c.fail(ErrFraming)
			return
		}
		ca := c.applyConnectedAddressDelete(u)
		if c.handlers.interfaceAddressDelete != nil {
			c.handlers.interfaceAddressDelete(c, ca)
		}

	case CommandIPv4RouteAdd:
		r, err := decodeIPv4Route(cur)
		if err != nil {
			c.fail(ErrFraming)
			return
		}
		if c.handlers.ipv4RouteAdd != nil {
			c.handlers.ipv4RouteAdd(c, r)
		}

	case CommandIPv4RouteDelete:
		r, err := decodeIPv4Route(cur)
		if err != nil {
			c.fail(ErrFraming)
			return
		}
		if c.handlers.ipv4RouteDelete != nil {
			c.handlers.ipv4RouteDelete(c, r)
		}

	case CommandIPv6RouteAdd:
		r, err := decodeIPv6Route(cur)
		if err != nil {
			c.fail(ErrFraming)
			return
		}
		if c.handlers.ipv6RouteAdd != nil {
			c.handlers.ipv6RouteAdd(c, r)
		}

	case CommandIPv6RouteDelete:
		r, err := decodeIPv6Route(cur)
		if err != nil {
			c.fail(ErrFraming)
			return
		}
		if c.handlers.ipv6RouteDelete != nil {
			c.handlers.ipv6RouteDelete(c, r)
		}

	default:
		c.log.WithField("command", command).Debug("zclient: dropping frame with no local handler")
	}
}

func (c *Client) dispatchInterfaceState(cur *Cursor, fn func(*Client, *Interface)) {
	u, err := decodeInterfaceState(cur)
	if err != nil {
		c.fail(ErrFraming)
		return
	}
	var ifp *Interface
	if c.ifaces != nil {
		ifp = c.ifaces.LookupByIndex(u.Index)
		if ifp == nil {
			ifp = c.ifaces.LookupByName(u.Name)
		}
	}
	if fn != nil {
		fn(c, ifp)
	}
}

func (c *Client) applyInterfaceAdd(u InterfaceUpdate) *Interface {
	if c.ifaces == nil {
		return nil
	}
	ifp := c.ifaces.GetOrCreate(u.Name)
	ifp.Index = u.Index
	ifp.Status = u.Status
	ifp.Flags = u.Flags
	ifp.Metric = u.Metric
	ifp.MTU = u.MTU
	ifp.MTU6 = u.MTU6
	ifp.Bandwidth = u.Bandwidth
	ifp.HWAddr = u.HWAddr
	if indexer, ok := c.ifaces.(InterfaceIndexer); ok {
		indexer.Reindex(ifp)
	}
	return ifp
}

func (c *Client) applyConnectedAddressAdd(u ConnectedAddressUpdate) *ConnectedAddress {
	if c.ifaces == nil || c.addrs == nil {
		return nil
	}
	ifp := c.ifaces.LookupByIndex(u.Index)
	if ifp == nil {
		return nil
	}
	return c.addrs.AddByPrefix(ifp, u.Address, u.Destination)
}

func (c *Client) applyConnectedAddressDelete(u ConnectedAddressUpdate) *ConnectedAddress {
	if c.ifaces == nil || c.addrs == nil {
		return nil
	}
	ifp := c.ifaces.LookupByIndex(u.Index)
	if ifp == nil {
		return nil
	}
	return c.addrs.DeleteByPrefix(ifp, u.Address)
}
