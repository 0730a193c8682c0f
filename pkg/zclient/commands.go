package zclient

// Command is the 16-bit command code carried in every frame header.
type Command uint16

// Wire command codes. Gaps (17-22) are reserved for nexthop-lookup,
// import-lookup and interface-rename commands that the manager speaks
// but this client never sends or dispatches.
const (
	CommandInterfaceAdd              Command = 1
	CommandInterfaceDelete           Command = 2
	CommandInterfaceAddressAdd       Command = 3
	CommandInterfaceAddressDelete    Command = 4
	CommandInterfaceUp               Command = 5
	CommandInterfaceDown             Command = 6
	CommandIPv4RouteAdd              Command = 7
	CommandIPv4RouteDelete           Command = 8
	CommandIPv6RouteAdd              Command = 9
	CommandIPv6RouteDelete           Command = 10
	CommandRedistributeAdd           Command = 11
	CommandRouterIDAdd               Command = 12
	CommandRedistributeDelete        Command = 13
	CommandRouterIDUpdate            Command = 14
	CommandRedistributeDefaultAdd    Command = 15
	CommandRedistributeDefaultDelete Command = 16
	CommandHello                     Command = 23
)

// RouteType is an opaque route-type tag carried in HELLO and redistribution
// frames. The core never interprets its value beyond equality and array
// indexing; the manager and the routing daemon agree on its meaning.
type RouteType uint8

// A handful of named route types for caller convenience; the set the
// manager actually understands is out of scope (spec §1).
const (
	RouteSystem RouteType = iota
	RouteKernel
	RouteConnect
	RouteStatic
	RouteRIP
	RouteRIPNG
	RouteOSPF
	RouteOSPF6
	RouteISIS
	RouteBGP
)

// RouteTypeMax bounds the redistribution subscription array, mirroring the
// fixed-size ZEBRA_ROUTE_MAX array in the original implementation.
const RouteTypeMax = 32

// SAFI is an opaque subsequent-address-family tag carried in route frames.
type SAFI uint16

const (
	SAFIUnicast   SAFI = 1
	SAFIMulticast SAFI = 2
)
