package zclient

// Redistribute subscribes to (add=true) or unsubscribes from (add=false)
// route-type t. Both directions are idempotent: a redundant call is a
// no-op and never sends a frame, matching the original implementation's
// zclient_redistribute (spec §4.6).
func (c *Client) Redistribute(add bool, t RouteType) error {
	if add == c.redist[t] {
		return nil
	}
	c.redist[t] = add
	if !c.Connected() {
		return nil
	}
	command := CommandRedistributeDelete
	if add {
		command = CommandRedistributeAdd
	}
	c.sendFrame(c.encodeRouteType(command, t))
	return nil
}

// RedistributeDefault subscribes to (add=true) or unsubscribes from
// (add=false) the manager's default-route announcements. Idempotent like
// Redistribute (spec §4.6's zclient_redistribute_default).
func (c *Client) RedistributeDefault(add bool) error {
	if add == c.defaultInformation {
		return nil
	}
	c.defaultInformation = add
	if !c.Connected() {
		return nil
	}
	command := CommandRedistributeDefaultDelete
	if add {
		command = CommandRedistributeDefaultAdd
	}
	c.sendFrame(c.encodeSimple(command))
	return nil
}
