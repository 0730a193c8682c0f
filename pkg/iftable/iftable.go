// Package iftable is a minimal in-memory InterfaceTable/ConnectedAddressTable,
// sufficient for tests and for daemons that have nothing fancier than a map
// to track interfaces by. Grounded on the teacher's plain
// map[net.Conn]connEntry bookkeeping in pkg/exporter/exporter.go, adapted
// here to key on interface name/index instead of a connection.
package iftable

import (
	"bytes"
	"sync"

	"github.com/routemgr/zclient/pkg/zclient"
)

// Table is a process-global interface and connected-address registry. The
// zclient core assumes single-task access (spec §5); Table still takes a
// mutex so it can also be inspected from, e.g., a metrics handler running
// on another goroutine.
type Table struct {
	mu         sync.Mutex
	byName     map[string]*zclient.Interface
	byIndex    map[uint32]*zclient.Interface
	connected  map[*zclient.Interface][]*zclient.ConnectedAddress
}

func New() *Table {
	return &Table{
		byName:    make(map[string]*zclient.Interface),
		byIndex:   make(map[uint32]*zclient.Interface),
		connected: make(map[*zclient.Interface][]*zclient.ConnectedAddress),
	}
}

func (t *Table) GetOrCreate(name string) *zclient.Interface {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ifp, ok := t.byName[name]; ok {
		return ifp
	}
	ifp := &zclient.Interface{Name: name}
	t.byName[name] = ifp
	return ifp
}

func (t *Table) LookupByName(name string) *zclient.Interface {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byName[name]
}

func (t *Table) LookupByIndex(index uint32) *zclient.Interface {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byIndex[index]
}

// Reindex must be called by the owner whenever ifp.Index changes (e.g.
// after applying an INTERFACE_ADD) so LookupByIndex stays correct.
func (t *Table) Reindex(ifp *zclient.Interface) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byIndex[ifp.Index] = ifp
}

// Delete removes ifp entirely. The zclient core never calls this itself
// (spec §4.2: "caller responsible for removal" on INTERFACE_DELETE); it
// exists for the caller's handler to invoke.
func (t *Table) Delete(ifp *zclient.Interface) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.byName, ifp.Name)
	delete(t.byIndex, ifp.Index)
	delete(t.connected, ifp)
}

func (t *Table) AddByPrefix(ifp *zclient.Interface, addr zclient.Prefix, destination *zclient.Prefix) *zclient.ConnectedAddress {
	t.mu.Lock()
	defer t.mu.Unlock()
	ifc := &zclient.ConnectedAddress{Address: addr, Destination: destination}
	t.connected[ifp] = append(t.connected[ifp], ifc)
	return ifc
}

func (t *Table) DeleteByPrefix(ifp *zclient.Interface, addr zclient.Prefix) *zclient.ConnectedAddress {
	t.mu.Lock()
	defer t.mu.Unlock()
	list := t.connected[ifp]
	for i, ifc := range list {
		if ifc.Address.PrefixLen == addr.PrefixLen && bytes.Equal(ifc.Address.Address, addr.Address) {
			t.connected[ifp] = append(list[:i], list[i+1:]...)
			return ifc
		}
	}
	return nil
}
