//go:build linux

/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// zclient-metrics runs a zclient against a routing manager and serves its
// connection health (pkg/diag) as Prometheus metrics over HTTP.
package main

import (
	"flag"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/routemgr/zclient/pkg/diag"
	"github.com/routemgr/zclient/pkg/iftable"
	"github.com/routemgr/zclient/pkg/readiness/epoll"
	"github.com/routemgr/zclient/pkg/zclient"
)

func main() {
	socketPath := flag.String("socket", zclient.DefaultUNIXSocketPath, "UNIX socket path of the routing manager")
	listenAddr := flag.String("listen", ":18080", "address to serve /metrics on")
	flag.Parse()

	log := logrus.StandardLogger()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	collector := diag.New("zclient", []string{"instance"}, prometheus.Labels{"hostname": hostname}, func(err error) {
		log.WithError(err).Warn("zclient-metrics: collecting tcpinfo")
	})
	prometheus.MustRegister(collector)

	failGauge := diag.FailCountMetric()
	prometheus.MustRegister(failGauge)

	loop, err := epoll.New()
	if err != nil {
		log.WithError(err).Fatal("zclient-metrics: creating event loop")
	}

	ifaces := iftable.New()
	instanceID := xid.New().String()

	c, err := zclient.New(
		zclient.WithEventLoop(loop),
		zclient.WithLogger(log),
		zclient.WithUNIXSocketPath(*socketPath),
		zclient.WithInterfaceTable(ifaces),
		zclient.WithConnectedAddressTable(ifaces),
		zclient.WithDiagnostics(func(conn net.Conn) {
			if conn == nil {
				collector.Remove(instanceID)
				return
			}
			collector.Add(instanceID, conn, []string{instanceID})
		}),
	)
	if err != nil {
		log.WithError(err).Fatal("zclient-metrics: constructing client")
	}
	c.Init()

	// fail_count is policy state the Collector's socket-keyed Collect loop
	// has no way to see; sample it separately on a coarse interval. Reading
	// c.FailCount() off the event-loop goroutine is a benign race (it's a
	// single int), unlike calling any other Client method from here.
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			failGauge.Set(float64(c.FailCount()))
		}
	}()

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(*listenAddr, nil); err != nil {
			log.WithError(err).Fatal("zclient-metrics: serving metrics")
		}
	}()

	if err := loop.Run(); err != nil {
		log.WithError(err).Fatal("zclient-metrics: event loop stopped")
	}
}
