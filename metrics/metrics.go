// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package metrics - prometheus collectors for the relay
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "relayd"

// label values
const (
	KindParameters = "parameters"
	KindPing       = "ping"

	SourcePoller     = "poller"
	SourceSubscriber = "subscriber"
)

// Metrics - all collectors, create with New
type Metrics struct {
	Sessions         prometheus.Gauge
	SessionsTotal    prometheus.Counter
	SessionsRejected prometheus.Counter
	Broadcasts       *prometheus.CounterVec
	Dropped          *prometheus.CounterVec
	UpstreamUpdates  *prometheus.CounterVec
	UpstreamErrors   *prometheus.CounterVec
	StreamConnects   prometheus.Counter
}

// New - create and register the collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "active",
			Help:      "Number of registered downstream sessions.",
		}),
		SessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "accepted_total",
			Help:      "Total number of accepted downstream sessions.",
		}),
		SessionsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "rejected_total",
			Help:      "Total number of connections refused by the session limit.",
		}),
		Broadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "messages_total",
			Help:      "Total number of messages enqueued to sessions.",
		}, []string{"kind"}),
		Dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "dropped_total",
			Help:      "Total number of messages dropped because a session queue was full.",
		}, []string{"kind"}),
		UpstreamUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "changes_total",
			Help:      "Total number of parameter changes observed.",
		}, []string{"source"}),
		UpstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "errors_total",
			Help:      "Total number of failed upstream cycles or messages.",
		}, []string{"source"}),
		StreamConnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "stream_connects_total",
			Help:      "Total number of successful event stream connections.",
		}),
	}

	reg.MustRegister(
		m.Sessions,
		m.SessionsTotal,
		m.SessionsRejected,
		m.Broadcasts,
		m.Dropped,
		m.UpstreamUpdates,
		m.UpstreamErrors,
		m.StreamConnects,
	)
	return m
}

// NewRegistry - registry with Go runtime and process collectors
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler - serves the registry in the prometheus text format
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
