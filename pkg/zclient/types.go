package zclient

import "fmt"

// Family selects the address family of a Prefix.
type Family uint8

const (
	FamilyIPv4 Family = 2 // AF_INET
	FamilyIPv6 Family = 10 // AF_INET6
)

func (f Family) addressLen() (int, error) {
	switch f {
	case FamilyIPv4:
		return 4, nil
	case FamilyIPv6:
		return 16, nil
	default:
		return 0, fmt.Errorf("zclient: unsupported address family %d", f)
	}
}

// Prefix is a family/address/prefixlen triple, the wire shape common to
// ROUTER_ID_UPDATE and connected-address frames (spec §4.2).
type Prefix struct {
	Family    Family
	Address   []byte
	PrefixLen uint8
}

// PrefixByteLen returns ceil(prefixlen/8), the number of octets the wire
// format uses to encode a route prefix of this length.
func PrefixByteLen(prefixLen uint8) int {
	return (int(prefixLen) + 7) / 8
}

func isAllZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// RouterIDUpdate is the decoded result of a ROUTER_ID_UPDATE frame.
type RouterIDUpdate struct {
	RouterID Prefix
}

// InterfaceUpdate is the decoded result of an INTERFACE_ADD/DELETE/UP/DOWN
// frame, prior to being applied to the InterfaceTable collaborator.
type InterfaceUpdate struct {
	Name      string
	Index     uint32
	Status    uint8
	Flags     uint64
	Metric    uint32
	MTU       uint32
	MTU6      uint32
	Bandwidth uint32
	HWAddr    []byte // only present on ADD
}

// ConnectedAddressUpdate is the decoded result of an
// INTERFACE_ADDRESS_ADD/DELETE frame.
type ConnectedAddressUpdate struct {
	Index       uint32
	Flags       uint8
	Address     Prefix
	Destination *Prefix // nil when the wire frame's destination was all-zero
}
