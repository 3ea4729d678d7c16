// Package telemetry exposes the Prometheus collectors used across odinbot.
// Label sets are small and fixed so cardinality stays bounded.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeRemoteStatus = "remote_status"
	OutcomeError        = "error"
	OutcomeFallback     = "fallback"
)

// Activation results.
const (
	ActivationAdded         = "added"
	ActivationAlreadyActive = "already_active"
	ActivationFailed        = "failed"
)

// Remote endpoints.
const (
	EndpointToken          = "token"
	EndpointReferencePrice = "reference_price"
)

var (
	// Lookups counts token lookups by outcome.
	Lookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "odinbot",
			Name:      "token_lookups_total",
			Help:      "Token lookups triggered by chat messages, by outcome.",
		},
		[]string{"outcome"},
	)

	// RemoteRequests counts remote API calls by endpoint and outcome.
	RemoteRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "odinbot",
			Name:      "remote_requests_total",
			Help:      "Remote market data requests, by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	// RemoteLatency records remote API latency in seconds by endpoint.
	RemoteLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "odinbot",
			Name:      "remote_request_duration_seconds",
			Help:      "Duration of remote market data requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// HTTPRequests counts requests served by the embedded HTTP server.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "odinbot",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	// ActiveChats is the number of chats with lookups enabled.
	ActiveChats = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "odinbot",
			Name:      "active_chats",
			Help:      "Chats with token lookups enabled.",
		},
	)

	// Activations counts /start results in groups.
	Activations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "odinbot",
			Name:      "activations_total",
			Help:      "Group activation attempts, by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(Lookups, RemoteRequests, RemoteLatency, Activations, ActiveChats, HTTPRequests)
}

// ObserveRemote records one remote call.
func ObserveRemote(endpoint, outcome string, started time.Time) {
	RemoteRequests.WithLabelValues(endpoint, outcome).Inc()
	RemoteLatency.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
}
