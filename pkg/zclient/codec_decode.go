package zclient

import "fmt"

// interfaceNameSize is the fixed-width interface name field (spec §4.2
// "NAMSIZ"), matching the original implementation's INTERFACE_NAMSIZ.
const interfaceNameSize = 20

func readFixedName(cur *Cursor) (string, error) {
	raw, err := cur.Bytes(interfaceNameSize)
	if err != nil {
		return "", err
	}
	n := 0
	for n < len(raw) && raw[n] != 0 {
		n++
	}
	return string(raw[:n]), nil
}

// decodeRouterIDUpdate parses uint8 family; address octets; uint8 prefixlen.
func decodeRouterIDUpdate(cur *Cursor) (RouterIDUpdate, error) {
	familyByte, err := cur.Uint8()
	if err != nil {
		return RouterIDUpdate{}, err
	}
	family := Family(familyByte)
	n, err := family.addressLen()
	if err != nil {
		return RouterIDUpdate{}, err
	}
	addr, err := cur.Bytes(n)
	if err != nil {
		return RouterIDUpdate{}, err
	}
	prefixLen, err := cur.Uint8()
	if err != nil {
		return RouterIDUpdate{}, err
	}
	return RouterIDUpdate{RouterID: Prefix{Family: family, Address: append([]byte(nil), addr...), PrefixLen: prefixLen}}, nil
}

// decodeInterfaceAdd parses the common interface fields plus the
// length-prefixed hardware address trailer (spec §9: canonical encoding
// choice between sockaddr_dl and length-prefixed hw_addr).
func decodeInterfaceAdd(cur *Cursor) (InterfaceUpdate, error) {
	u, err := decodeInterfaceCommon(cur)
	if err != nil {
		return InterfaceUpdate{}, err
	}
	hwLen, err := cur.Uint32()
	if err != nil {
		return InterfaceUpdate{}, err
	}
	if hwLen > 0 {
		hw, err := cur.Bytes(int(hwLen))
		if err != nil {
			return InterfaceUpdate{}, err
		}
		u.HWAddr = append([]byte(nil), hw...)
	}
	return u, nil
}

// decodeInterfaceState parses INTERFACE_DELETE/UP/DOWN: the common fields
// with no hardware-address trailer.
func decodeInterfaceState(cur *Cursor) (InterfaceUpdate, error) {
	return decodeInterfaceCommon(cur)
}

func decodeInterfaceCommon(cur *Cursor) (InterfaceUpdate, error) {
	var u InterfaceUpdate
	name, err := readFixedName(cur)
	if err != nil {
		return u, err
	}
	u.Name = name
	if u.Index, err = cur.Uint32(); err != nil {
		return u, err
	}
	if u.Status, err = cur.Uint8(); err != nil {
		return u, err
	}
	if u.Flags, err = cur.Uint64(); err != nil {
		return u, err
	}
	if u.Metric, err = cur.Uint32(); err != nil {
		return u, err
	}
	if u.MTU, err = cur.Uint32(); err != nil {
		return u, err
	}
	if u.MTU6, err = cur.Uint32(); err != nil {
		return u, err
	}
	if u.Bandwidth, err = cur.Uint32(); err != nil {
		return u, err
	}
	return u, nil
}

// decodeConnectedAddress parses INTERFACE_ADDRESS_ADD/DELETE (spec §4.2,
// §8 S6): an all-zero destination encodes "absent".
func decodeConnectedAddress(cur *Cursor) (ConnectedAddressUpdate, error) {
	var u ConnectedAddressUpdate
	var err error
	if u.Index, err = cur.Uint32(); err != nil {
		return u, err
	}
	if u.Flags, err = cur.Uint8(); err != nil {
		return u, err
	}
	familyByte, err := cur.Uint8()
	if err != nil {
		return u, err
	}
	family := Family(familyByte)
	n, err := family.addressLen()
	if err != nil {
		return u, err
	}
	addr, err := cur.Bytes(n)
	if err != nil {
		return u, err
	}
	prefixLen, err := cur.Uint8()
	if err != nil {
		return u, err
	}
	u.Address = Prefix{Family: family, Address: append([]byte(nil), addr...), PrefixLen: prefixLen}

	dest, err := cur.Bytes(n)
	if err != nil {
		return u, err
	}
	if !isAllZero(dest) {
		d := Prefix{Family: family, Address: append([]byte(nil), dest...), PrefixLen: prefixLen}
		u.Destination = &d
	}
	return u, nil
}

func decodeIPv4Route(cur *Cursor) (IPv4Route, error) {
	var r IPv4Route
	var err error
	var t, flags, msg uint8
	if t, err = cur.Uint8(); err != nil {
		return r, err
	}
	if flags, err = cur.Uint8(); err != nil {
		return r, err
	}
	if msg, err = cur.Uint8(); err != nil {
		return r, err
	}
	var safi uint16
	if safi, err = cur.Uint16(); err != nil {
		return r, err
	}
	r.Type, r.ZebraFlag, r.Message, r.SAFI = RouteType(t), flags, msg, SAFI(safi)

	prefixLen, err := cur.Uint8()
	if err != nil {
		return r, err
	}
	addr, err := cur.Bytes(PrefixByteLen(prefixLen))
	if err != nil {
		return r, err
	}
	// the wire carries only ceil(prefixlen/8) octets; the rest are zero
	full := make([]byte, 4)
	copy(full, addr)
	r.Prefix = Prefix{Family: FamilyIPv4, Address: full, PrefixLen: prefixLen}

	if r.Message&MessageNexthop != 0 {
		count, err := cur.Uint8()
		if err != nil {
			return r, err
		}
		for i := uint8(0); i < count; i++ {
			nt, err := cur.Uint8()
			if err != nil {
				return r, err
			}
			switch NexthopType(nt) {
			case NexthopTypeIPv4:
				b, err := cur.Bytes(4)
				if err != nil {
					return r, err
				}
				var nh [4]byte
				copy(nh[:], b)
				r.Nexthops = append(r.Nexthops, nh)
			case NexthopTypeIFIndex:
				idx, err := cur.Uint32()
				if err != nil {
					return r, err
				}
				r.Ifindexes = append(r.Ifindexes, idx)
			case NexthopTypeBlackhole:
				// no payload
			default:
				return r, fmt.Errorf("zclient: unexpected nexthop type %d in IPv4 route", nt)
			}
		}
	}
	if r.Message&MessageDistance != 0 {
		if r.Distance, err = cur.Uint8(); err != nil {
			return r, err
		}
	}
	if r.Message&MessageMetric != 0 {
		if r.Metric, err = cur.Uint32(); err != nil {
			return r, err
		}
	}
	return r, nil
}

func decodeIPv6Route(cur *Cursor) (IPv6Route, error) {
	var r IPv6Route
	var err error
	var t, flags, msg uint8
	if t, err = cur.Uint8(); err != nil {
		return r, err
	}
	if flags, err = cur.Uint8(); err != nil {
		return r, err
	}
	if msg, err = cur.Uint8(); err != nil {
		return r, err
	}
	var safi uint16
	if safi, err = cur.Uint16(); err != nil {
		return r, err
	}
	r.Type, r.ZebraFlag, r.Message, r.SAFI = RouteType(t), flags, msg, SAFI(safi)

	prefixLen, err := cur.Uint8()
	if err != nil {
		return r, err
	}
	addr, err := cur.Bytes(PrefixByteLen(prefixLen))
	if err != nil {
		return r, err
	}
	// the wire carries only ceil(prefixlen/8) octets; the rest are zero
	full := make([]byte, 16)
	copy(full, addr)
	r.Prefix = Prefix{Family: FamilyIPv6, Address: full, PrefixLen: prefixLen}

	if r.Message&MessageNexthop != 0 {
		count, err := cur.Uint8()
		if err != nil {
			return r, err
		}
		for i := uint8(0); i < count; i++ {
			nt, err := cur.Uint8()
			if err != nil {
				return r, err
			}
			switch NexthopType(nt) {
			case NexthopTypeIPv6:
				b, err := cur.Bytes(16)
				if err != nil {
					return r, err
				}
				var nh [16]byte
				copy(nh[:], b)
				r.Nexthops = append(r.Nexthops, nh)
			case NexthopTypeIFIndex:
				idx, err := cur.Uint32()
				if err != nil {
					return r, err
				}
				r.Ifindexes = append(r.Ifindexes, idx)
			case NexthopTypeBlackhole:
				// no payload
			default:
				return r, fmt.Errorf("zclient: unexpected nexthop type %d in IPv6 route", nt)
			}
		}
	}
	if r.Message&MessageDistance != 0 {
		if r.Distance, err = cur.Uint8(); err != nil {
			return r, err
		}
	}
	if r.Message&MessageMetric != 0 {
		if r.Metric, err = cur.Uint32(); err != nil {
			return r, err
		}
	}
	return r, nil
}
