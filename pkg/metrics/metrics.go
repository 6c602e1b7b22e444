// Package metrics holds the Prometheus collectors of the API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blog_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	authEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_auth_events_total",
		Help: "Auth flow outcomes by flow (register, login, refresh, logout) and outcome",
	}, []string{"flow", "outcome"})

	sessionRevocations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blog_auth_session_revocations_total",
		Help: "Times every refresh token of a user was revoked after token reuse",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveAuthEvent counts one auth flow outcome, e.g. ("refresh", "reuse_detected").
func ObserveAuthEvent(flow, outcome string) {
	authEvents.WithLabelValues(flow, outcome).Inc()
}

func ObserveSessionRevocation() {
	sessionRevocations.Inc()
}
