/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package zclient

import (
	"fmt"
	"net"

	"github.com/higebu/netfd"
)

// socketFD extracts the raw file descriptor backing conn so it can be
// handed to a readiness.EventLoop, the same way pkg/diag's Collector does
// for TCP_INFO. It fails only when netfd can't find a descriptor at all
// (e.g. an in-memory net.Pipe conn in a test), in which case the caller
// falls back to readiness.ConnRegisterer.
func socketFD(conn net.Conn) (fd int, err error) {
	// netfd panics, rather than failing, on a conn with no OS descriptor.
	defer func() {
		if recover() != nil {
			fd, err = 0, fmt.Errorf("zclient: could not extract file descriptor from %T", conn)
		}
	}()
	fd = netfd.GetFdFromConn(conn)
	if fd < 0 {
		return 0, fmt.Errorf("zclient: could not extract file descriptor from %T", conn)
	}
	return fd, nil
}
