package zclient

// Message flags select which optional trailer fields a route frame carries
// (spec §4.2).
const (
	MessageNexthop  uint8 = 1 << 0
	MessageDistance uint8 = 1 << 1
	MessageMetric   uint8 = 1 << 2
)

// Zebra flags carried alongside a route's type; BLACKHOLE (and, per the
// unresolved ambiguity in spec §9, REJECT) forces a synthetic one-entry
// blackhole nexthop list regardless of the caller's actual nexthop/ifindex
// counts.
const (
	ZebraFlagSelected    uint8 = 1 << 0
	ZebraFlagFIBOverride uint8 = 1 << 1
	ZebraFlagBlackhole   uint8 = 1 << 2
	ZebraFlagReject      uint8 = 1 << 3
)

// NexthopType tags each entry in a route frame's nexthop list.
type NexthopType uint8

const (
	NexthopTypeIFIndex   NexthopType = 1
	NexthopTypeIPv4      NexthopType = 2
	NexthopTypeIPv6      NexthopType = 3
	NexthopTypeBlackhole NexthopType = 4
)

// IPv4Route is the Go-shaped form of the wire IPv4 route message (spec
// §4.2). Nexthop and Ifindex are mutually additive: both lists are written
// in order, nexthops first.
type IPv4Route struct {
	Type      RouteType
	ZebraFlag uint8
	Message   uint8
	SAFI      SAFI
	Prefix    Prefix // Family must be FamilyIPv4
	Nexthops  [][4]byte
	Ifindexes []uint32
	Distance  uint8
	Metric    uint32
}

// IPv6Route is the IPv6 analogue of IPv4Route.
type IPv6Route struct {
	Type      RouteType
	ZebraFlag uint8
	Message   uint8
	SAFI      SAFI
	Prefix    Prefix // Family must be FamilyIPv6
	Nexthops  [][16]byte
	Ifindexes []uint32
	Distance  uint8
	Metric    uint32
}
