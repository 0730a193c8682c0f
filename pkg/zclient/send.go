package zclient

// SendIPv4Route announces or withdraws an IPv4 route (command must be
// CommandIPv4RouteAdd or CommandIPv4RouteDelete). It returns ErrNotConnected
// without sending anything if the socket isn't currently established.
func (c *Client) SendIPv4Route(command Command, r IPv4Route) error {
	if !c.Connected() {
		return ErrNotConnected
	}
	frame, err := c.encodeIPv4Route(command, r)
	if err != nil {
		return err
	}
	c.sendFrame(frame)
	return nil
}

// SendIPv6Route is the IPv6 analogue of SendIPv4Route.
func (c *Client) SendIPv6Route(command Command, r IPv6Route) error {
	if !c.Connected() {
		return ErrNotConnected
	}
	frame, err := c.encodeIPv6Route(command, r)
	if err != nil {
		return err
	}
	c.sendFrame(frame)
	return nil
}
