package diag

import (
	"net"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollectorDescribeIsStable(t *testing.T) {
	c := New("zclient", []string{"network"}, nil, nil)

	descs := make(chan *prometheus.Desc, 16)
	c.Describe(descs)
	close(descs)

	var n int
	for range descs {
		n++
	}
	if n != 8 {
		t.Fatalf("Describe sent %d descriptors, want 8", n)
	}
}

func TestCollectorAddRemoveBookkeeping(t *testing.T) {
	c := New("zclient", []string{"network"}, nil, nil)

	client, server := net.Pipe()
	defer server.Close()

	c.Add("primary", client, []string{"unix"})
	if _, ok := c.conns["primary"]; !ok {
		t.Fatalf("Add did not register connection")
	}

	c.Remove("primary")
	if _, ok := c.conns["primary"]; ok {
		t.Fatalf("Remove left connection registered")
	}

	// Removing an unknown name is a no-op, not an error.
	c.Remove("never-added")
	_ = client.Close()
}
