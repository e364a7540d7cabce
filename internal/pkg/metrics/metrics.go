// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusconnect_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campusconnect_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// ReactionsTotal counts votes and likes by kind and outcome.
	ReactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusconnect_reactions_total",
		Help: "Total number of votes and likes",
	}, []string{"kind", "result"})

	// UploadsTotal counts stored uploads per bucket.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusconnect_uploads_total",
		Help: "Total number of stored uploads",
	}, []string{"bucket"})

	// MessagesSentTotal counts direct messages.
	MessagesSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusconnect_messages_sent_total",
		Help: "Total number of direct messages sent",
	})

	// WSConnections is the number of open websocket connections.
	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "campusconnect_ws_connections",
		Help: "Number of active WebSocket connections",
	})
)

// Reaction outcomes
const (
	ResultAdded   = "added"
	ResultRemoved = "removed"
	ResultChanged = "changed"
)

// RecordReaction counts one toggle of the given kind.
func RecordReaction(kind, result string) {
	ReactionsTotal.WithLabelValues(kind, result).Inc()
}
