// Package metrics exposes the Prometheus metrics endpoint for the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request metrics for the HTTP API surface. Model and prediction metrics
// live next to their packages.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "match_predictor",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route and status class",
	}, []string{"route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "match_predictor",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	ScheduleRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "match_predictor",
		Name:      "schedule_refresh_total",
		Help:      "Total number of live schedule refresh attempts",
	}, []string{"status"})
)

// Handler returns the Prometheus HTTP handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
