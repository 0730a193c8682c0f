package zclient

// Interface is the minimal view of an interface record the core needs to
// populate from INTERFACE_ADD/DELETE/UP/DOWN frames. The real record (with
// whatever else a routing daemon hangs off it) lives entirely in the
// collaborator; the core only ever writes these fields.
type Interface struct {
	Name      string
	Index     uint32
	Status    uint8
	Flags     uint64
	Metric    uint32
	MTU       uint32
	MTU6      uint32
	Bandwidth uint32
	HWAddr    []byte
}

// ConnectedAddress is the minimal view of a connected-address record.
type ConnectedAddress struct {
	Flags       uint8
	Address     Prefix
	Destination *Prefix
}

// InterfaceTable is the process-global interface registry collaborator
// (spec §6). It is assumed to be accessed only from the same task the
// zclient core itself runs on (spec §5).
type InterfaceTable interface {
	// GetOrCreate returns the interface record named name, creating one if
	// it does not already exist. Used by INTERFACE_ADD.
	GetOrCreate(name string) *Interface

	// LookupByName returns the interface record named name, or nil if
	// unknown. Used by INTERFACE_DELETE, and by INTERFACE_UP/DOWN when the
	// index lookup finds nothing.
	LookupByName(name string) *Interface

	// LookupByIndex returns the interface record with the given index, or
	// nil if unknown. Used by connected-address frames, which carry only
	// the index, and tried first for INTERFACE_UP/DOWN.
	LookupByIndex(index uint32) *Interface
}

// InterfaceIndexer is an optional InterfaceTable capability: a table that
// indexes interfaces by index (as opposed to scanning byName) needs to be
// told when an interface's index is first learned or changes, which only
// happens on INTERFACE_ADD (spec §4.2).
type InterfaceIndexer interface {
	Reindex(ifp *Interface)
}

// ConnectedAddressTable is the connected-address registry collaborator.
type ConnectedAddressTable interface {
	// AddByPrefix attaches addr to ifp, with destination nil when the wire
	// frame encoded an absent destination (spec §4.2, §8 S6).
	AddByPrefix(ifp *Interface, addr Prefix, destination *Prefix) *ConnectedAddress

	// DeleteByPrefix removes and returns the connected address matching
	// addr on ifp, or nil if none matched.
	DeleteByPrefix(ifp *Interface, addr Prefix) *ConnectedAddress
}
