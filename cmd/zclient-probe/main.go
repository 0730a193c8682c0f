//go:build linux

/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// zclient-probe connects to a routing manager over ZAPI and logs every
// interface, address, and router-id event it receives, until interrupted.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/routemgr/zclient/pkg/iftable"
	"github.com/routemgr/zclient/pkg/readiness/epoll"
	"github.com/routemgr/zclient/pkg/zclient"
)

func main() {
	socketPath := flag.String("socket", zclient.DefaultUNIXSocketPath, "UNIX socket path of the routing manager")
	useTCP := flag.Bool("tcp", false, "use the TCP loopback transport instead of a UNIX socket")
	flag.Parse()

	log := logrus.StandardLogger()
	log.SetLevel(logrus.DebugLevel)

	loop, err := epoll.New()
	if err != nil {
		log.WithError(err).Fatal("zclient-probe: creating event loop")
	}

	ifaces := iftable.New()

	opts := []zclient.Option{
		zclient.WithEventLoop(loop),
		zclient.WithLogger(log),
		zclient.WithInterfaceTable(ifaces),
		zclient.WithConnectedAddressTable(ifaces),
	}
	if *useTCP {
		opts = append(opts, zclient.WithTCPLoopback())
	} else {
		opts = append(opts, zclient.WithUNIXSocketPath(*socketPath))
	}

	c, err := zclient.New(opts...)
	if err != nil {
		log.WithError(err).Fatal("zclient-probe: constructing client")
	}

	c.OnRouterIDUpdate(func(_ *zclient.Client, u zclient.RouterIDUpdate) {
		log.WithField("router_id", u.RouterID).Info("router-id update")
	})
	c.OnInterfaceAdd(func(_ *zclient.Client, ifp *zclient.Interface) {
		log.WithFields(logrus.Fields{"name": ifp.Name, "index": ifp.Index}).Info("interface add")
	})
	c.OnInterfaceDelete(func(_ *zclient.Client, ifp *zclient.Interface) {
		log.WithField("interface", ifp).Info("interface delete")
	})
	c.OnInterfaceUp(func(_ *zclient.Client, ifp *zclient.Interface) {
		log.WithField("interface", ifp).Info("interface up")
	})
	c.OnInterfaceDown(func(_ *zclient.Client, ifp *zclient.Interface) {
		log.WithField("interface", ifp).Info("interface down")
	})
	c.OnInterfaceAddressAdd(func(_ *zclient.Client, ca *zclient.ConnectedAddress) {
		log.WithField("address", ca).Info("address add")
	})
	c.OnInterfaceAddressDelete(func(_ *zclient.Client, ca *zclient.ConnectedAddress) {
		log.WithField("address", ca).Info("address delete")
	})
	c.OnIPv4RouteAdd(func(_ *zclient.Client, r zclient.IPv4Route) {
		log.WithField("route", r).Info("ipv4 route add")
	})
	c.OnIPv4RouteDelete(func(_ *zclient.Client, r zclient.IPv4Route) {
		log.WithField("route", r).Info("ipv4 route delete")
	})

	c.Init()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		c.Stop()
		_ = loop.Close()
	}()

	if err := loop.Run(); err != nil {
		log.WithError(err).Fatal("zclient-probe: event loop stopped")
	}
}
