package zclient

import (
	"bytes"
	"testing"
)

func newEncodingClient() *Client {
	return &Client{egress: newStream()}
}

// TestHelloFrameMatchesFixedExample reproduces the protocol illustration
// [00 07 FE 03 00 17 09] for a HELLO carrying redist_default=RouteBGP (9).
func TestHelloFrameMatchesFixedExample(t *testing.T) {
	c := newEncodingClient()
	c.redistDefault = RouteBGP
	got := c.encodeHello()
	want := []byte{0x00, 0x07, Marker, Version, 0x00, byte(CommandHello), byte(RouteBGP)}
	if !bytes.Equal(got, want) {
		t.Fatalf("encodeHello() = % x, want % x", got, want)
	}
}

// TestRouterIDAddFrameMatchesFixedExample reproduces [00 06 FE 03 00 0C].
func TestRouterIDAddFrameMatchesFixedExample(t *testing.T) {
	c := newEncodingClient()
	got := c.encodeSimple(CommandRouterIDAdd)
	want := []byte{0x00, 0x06, Marker, Version, 0x00, byte(CommandRouterIDAdd)}
	if !bytes.Equal(got, want) {
		t.Fatalf("encodeSimple(RouterIDAdd) = % x, want % x", got, want)
	}
}

func TestIPv4RouteRoundTrip(t *testing.T) {
	c := newEncodingClient()
	r := IPv4Route{
		Type:      RouteStatic,
		ZebraFlag: ZebraFlagSelected,
		Message:   MessageNexthop | MessageDistance | MessageMetric,
		SAFI:      SAFIUnicast,
		Prefix:    Prefix{Family: FamilyIPv4, Address: []byte{10, 0, 0, 0}, PrefixLen: 24},
		Nexthops:  [][4]byte{{10, 0, 0, 1}},
		Distance:  1,
		Metric:    100,
	}
	frame, err := c.encodeIPv4Route(CommandIPv4RouteAdd, r)
	if err != nil {
		t.Fatalf("encodeIPv4Route: %v", err)
	}

	h := decodeHeader(frame[:HeaderSize])
	if h.command != CommandIPv4RouteAdd {
		t.Fatalf("command = %v, want %v", h.command, CommandIPv4RouteAdd)
	}
	if int(h.length) != len(frame) {
		t.Fatalf("declared length %d != actual frame length %d", h.length, len(frame))
	}

	got, err := decodeIPv4Route(newCursor(frame[HeaderSize:]))
	if err != nil {
		t.Fatalf("decodeIPv4Route: %v", err)
	}
	if got.Type != r.Type || got.ZebraFlag != r.ZebraFlag || got.Message != r.Message {
		t.Fatalf("decoded route header mismatch: %+v", got)
	}
	if got.Prefix.PrefixLen != 24 || !bytes.Equal(got.Prefix.Address, r.Prefix.Address) {
		t.Fatalf("decoded prefix mismatch: %+v", got.Prefix)
	}
	if len(got.Nexthops) != 1 || got.Nexthops[0] != r.Nexthops[0] {
		t.Fatalf("decoded nexthops mismatch: %+v", got.Nexthops)
	}
	if got.Distance != 1 || got.Metric != 100 {
		t.Fatalf("decoded distance/metric mismatch: %+v", got)
	}
}

// TestBlackholeForcesSingleSyntheticNexthop verifies the ambiguous-but-kept
// original behaviour (spec §9): a BLACKHOLE/REJECT route's real nexthop
// list is replaced on the wire by exactly one NexthopTypeBlackhole entry.
func TestBlackholeForcesSingleSyntheticNexthop(t *testing.T) {
	c := newEncodingClient()
	r := IPv4Route{
		Type:      RouteStatic,
		ZebraFlag: ZebraFlagBlackhole,
		Message:   MessageNexthop,
		SAFI:      SAFIUnicast,
		Prefix:    Prefix{Family: FamilyIPv4, Address: []byte{0, 0, 0, 0}, PrefixLen: 0},
		Nexthops:  [][4]byte{{10, 0, 0, 1}, {10, 0, 0, 2}},
	}
	frame, err := c.encodeIPv4Route(CommandIPv4RouteAdd, r)
	if err != nil {
		t.Fatalf("encodeIPv4Route: %v", err)
	}
	got, err := decodeIPv4Route(newCursor(frame[HeaderSize:]))
	if err != nil {
		t.Fatalf("decodeIPv4Route: %v", err)
	}
	if len(got.Nexthops) != 0 || len(got.Ifindexes) != 0 {
		t.Fatalf("blackhole route decoded with real nexthops: %+v", got)
	}
}

func TestInterfaceAddRoundTrip(t *testing.T) {
	c := newEncodingClient()
	c.egress.reset(CommandInterfaceAdd)
	name := make([]byte, interfaceNameSize)
	copy(name, "eth0")
	c.egress.put(name)
	c.egress.putUint32(7)      // index
	c.egress.putUint8(1)       // status
	c.egress.putUint64(0x1234) // flags
	c.egress.putUint32(1)      // metric
	c.egress.putUint32(1500)   // mtu
	c.egress.putUint32(1500)   // mtu6
	c.egress.putUint32(1000)   // bandwidth
	hw := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	c.egress.putUint32(uint32(len(hw)))
	c.egress.put(hw)
	frame := c.egress.finish()

	u, err := decodeInterfaceAdd(newCursor(frame[HeaderSize:]))
	if err != nil {
		t.Fatalf("decodeInterfaceAdd: %v", err)
	}
	if u.Name != "eth0" || u.Index != 7 || u.Flags != 0x1234 || u.MTU != 1500 {
		t.Fatalf("decoded interface mismatch: %+v", u)
	}
	if !bytes.Equal(u.HWAddr, hw) {
		t.Fatalf("decoded hw addr mismatch: % x", u.HWAddr)
	}
}

func TestConnectedAddressAbsentDestination(t *testing.T) {
	c := newEncodingClient()
	c.egress.reset(CommandInterfaceAddressAdd)
	c.egress.putUint32(3) // index
	c.egress.putUint8(0)  // ifc flags
	c.egress.putUint8(uint8(FamilyIPv4))
	c.egress.put([]byte{192, 168, 1, 1})
	c.egress.putUint8(24)
	c.egress.put([]byte{0, 0, 0, 0}) // all-zero destination
	frame := c.egress.finish()

	u, err := decodeConnectedAddress(newCursor(frame[HeaderSize:]))
	if err != nil {
		t.Fatalf("decodeConnectedAddress: %v", err)
	}
	if u.Destination != nil {
		t.Fatalf("all-zero destination decoded as present: %+v", u.Destination)
	}
	if u.Index != 3 || u.Address.PrefixLen != 24 {
		t.Fatalf("decoded address mismatch: %+v", u)
	}
}
