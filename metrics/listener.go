/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package metrics wires the sender's lifecycle events into Prometheus
// counters and a histogram. It is pure instrumentation: nothing in the
// engine depends on it being registered.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/badu/reqsender/notify"
)

const (
	namespace = "reqsender"
	subsystem = "sender"
)

// Collector holds the Prometheus instruments a Listener reports into.
// NewCollector registers each instrument with the given registerer;
// Collector itself does not implement prometheus.Collector.
type Collector struct {
	sends        prometheus.Counter
	failures     *prometheus.CounterVec
	contentBytes prometheus.Counter
	duration     prometheus.Histogram
}

// NewCollector builds a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		sends: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sends_total",
			Help:      "Total number of requests handed to send().",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "failures_total",
			Help:      "Total number of requests that terminated in failure, by cause.",
		}, []string{"cause"}),
		contentBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "content_bytes_total",
			Help:      "Total body bytes handed to notify_content.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "send_duration_seconds",
			Help:      "Time from notify_begin to notify_complete.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(c.sends, c.failures, c.contentBytes, c.duration)
	return c
}

// Listener builds a notify.Listener that reports every exchange's
// lifecycle into c. It's meant to be composed with an application
// listener via notify.Compose. One Engine holds one channel at a time,
// so the started timestamp closed over here is never shared between two
// in-flight exchanges.
func (c *Collector) Listener() *notify.Listener {
	var started time.Time
	return &notify.Listener{
		Begin: func() {
			c.sends.Inc()
			started = time.Now()
		},
		Content: func(buf []byte) {
			c.contentBytes.Add(float64(len(buf)))
		},
		Failure: func(cause error) {
			c.failures.WithLabelValues(causeLabel(cause)).Inc()
		},
		Complete: func(result notify.Result) {
			c.duration.Observe(time.Since(started).Seconds())
		},
	}
}

// causeLabel reduces an arbitrary error to a bounded cardinality label.
// Using the raw error string would let an adversarial or buggy transport
// blow up the failures_total series count.
func causeLabel(cause error) string {
	if cause == nil {
		return "none"
	}
	return "error"
}
