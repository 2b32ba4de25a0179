// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability holds the Prometheus instrumentation for the
// dashboard's streaming query path.
package observability

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the dashboard's Prometheus collectors.
//
// # Fields
//
//   - QueriesTotal: Queries served, labeled by transport (sse, ws).
//   - ChunksTotal: Stream chunks emitted, labeled by chunk type.
//   - QueryDuration: End-to-end stream duration per transport.
//   - ActiveStreams: Streams currently being served.
type Metrics struct {
	QueriesTotal  *prometheus.CounterVec
	ChunksTotal   *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	ActiveStreams prometheus.Gauge
}

// NewMetrics registers the dashboard collectors with reg. A nil reg uses
// the default registerer; tests pass a fresh registry to avoid duplicate
// registration panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		QueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "secureguard",
			Subsystem: "dashboard",
			Name:      "queries_total",
			Help:      "Queries served, labeled by transport.",
		}, []string{"transport"}),
		ChunksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "secureguard",
			Subsystem: "dashboard",
			Name:      "stream_chunks_total",
			Help:      "Stream chunks emitted, labeled by chunk type.",
		}, []string{"type"}),
		QueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "secureguard",
			Subsystem: "dashboard",
			Name:      "query_duration_seconds",
			Help:      "End-to-end stream duration per transport.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"transport"}),
		ActiveStreams: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "secureguard",
			Subsystem: "dashboard",
			Name:      "active_streams",
			Help:      "Streams currently being served.",
		}),
	}
}

// PrometheusHandler exposes the default registry at a gin route.
func PrometheusHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
