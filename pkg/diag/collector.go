/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package diag exposes the health of a zclient connection as Prometheus
// metrics: TCP_INFO counters for the socket underneath it, and the
// reconnect-policy state of the client itself. It is wired in through
// zclient.WithDiagnostics rather than known to the core.
package diag

import (
	"fmt"
	"net"
	"sync"

	"github.com/higebu/netfd"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/routemgr/zclient/pkg/diag/linux"
)

// entry is one tracked connection: its raw fd for GetTCPInfo, and the
// label values supplied when it was added.
type entry struct {
	fd     int
	labels []string
}

// Collector is a prometheus.Collector tracking zero or more live TCP
// connections, re-keyed from pkg/exporter/exporter.go's net.Conn-keyed map
// to carry an explicit name per tracked connection (a zclient typically
// has exactly one, but the collector makes no such assumption).
type Collector struct {
	mu    sync.Mutex
	conns map[string]entry

	labelNames []string
	onError    func(error)

	state       *prometheus.Desc
	rtt         *prometheus.Desc
	rttVar      *prometheus.Desc
	cwnd        *prometheus.Desc
	retransmits *prometheus.Desc
	totalRetr   *prometheus.Desc

	connected *prometheus.Desc
	failCount *prometheus.Desc
}

// New constructs a Collector. labelNames are the label keys attached to
// every tracked connection (values are supplied per-connection to Add);
// constLabels apply to every metric regardless of which connection it
// came from.
func New(namespace string, labelNames []string, constLabels prometheus.Labels, onError func(error)) *Collector {
	if onError == nil {
		onError = func(error) {}
	}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labelNames, constLabels)
	}
	return &Collector{
		conns:      make(map[string]entry),
		labelNames: labelNames,
		onError:    onError,

		state:       desc("tcp_state", "TCP connection state, see include/net/tcp_states.h."),
		rtt:         desc("tcp_rtt_microseconds", "Smoothed round trip time."),
		rttVar:      desc("tcp_rttvar_microseconds", "Round trip time variance."),
		cwnd:        desc("tcp_snd_cwnd_segments", "Sender congestion window, in segments."),
		retransmits: desc("tcp_retransmits", "Timeout-based retransmissions at the current sequence."),
		totalRetr:   desc("tcp_total_retransmits", "Total retransmitted segments."),

		connected: desc("connected", "1 if the zclient socket is currently established, else 0."),
		failCount: desc("fail_count", "Consecutive connection failures since the last successful connect."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.state
	descs <- c.rtt
	descs <- c.rttVar
	descs <- c.cwnd
	descs <- c.retransmits
	descs <- c.totalRetr
	descs <- c.connected
	descs <- c.failCount
}

// Collect implements prometheus.Collector, emitting the connected gauge for
// every tracked connection plus, where GetTCPInfo succeeds, the underlying
// socket's TCP_INFO counters. The fail_count descriptor is described but
// never emitted here.
func (c *Collector) Collect(metrics chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for name, e := range c.conns {
		metrics <- prometheus.MustNewConstMetric(c.connected, prometheus.GaugeValue, 1, e.labels...)

		info, err := linux.GetTCPInfo(e.fd)
		if err != nil {
			c.onError(fmt.Errorf("diag: getting tcpinfo for %s: %w", name, err))
			continue
		}
		metrics <- prometheus.MustNewConstMetric(c.state, prometheus.GaugeValue, float64(info.State), e.labels...)
		metrics <- prometheus.MustNewConstMetric(c.rtt, prometheus.GaugeValue, float64(info.RTT), e.labels...)
		metrics <- prometheus.MustNewConstMetric(c.rttVar, prometheus.GaugeValue, float64(info.RTTVar), e.labels...)
		metrics <- prometheus.MustNewConstMetric(c.cwnd, prometheus.GaugeValue, float64(info.SndCWnd), e.labels...)
		metrics <- prometheus.MustNewConstMetric(c.retransmits, prometheus.GaugeValue, float64(info.Retransmits), e.labels...)
		metrics <- prometheus.MustNewConstMetric(c.totalRetr, prometheus.GaugeValue, float64(info.TotalRetrans), e.labels...)
	}
}

// Add starts tracking conn under name, with the given label values (matched
// positionally against the labelNames passed to New). A conn with no OS
// descriptor behind it (such as one end of a net.Pipe) is tracked with fd
// -1, so its TCP_INFO lookups fail and are reported through onError.
func (c *Collector) Add(name string, conn net.Conn, labels []string) {
	fd := -1
	func() {
		// netfd panics, rather than failing, on a conn with no OS descriptor.
		defer func() { _ = recover() }()
		fd = netfd.GetFdFromConn(conn)
	}()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conns[name] = entry{fd: fd, labels: labels}
}

// Remove stops tracking name. Safe to call on a name that was never added
// or already removed.
func (c *Collector) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.conns, name)
}

// FailCountMetric lets a caller feed (*zclient.Client).FailCount into a
// separate prometheus.Gauge wired outside the Collector, since fail_count
// is updated far more often than a Collect cycle and tracks a policy state
// the TCP socket itself knows nothing about.
func FailCountMetric() prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "zclient_fail_count",
		Help: "Consecutive connection failures since the last successful connect.",
	})
}
