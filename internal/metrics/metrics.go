// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recgames_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recgames_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	TogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recgames_toggles_total",
			Help: "Favorite and like toggles by outcome",
		},
		[]string{"kind", "status"}, // kind: "favorite", "like"
	)

	FilterRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recgames_filter_requests_total",
			Help: "Tag filter requests by result",
		},
		[]string{"result"}, // "ok", "invalid", "error"
	)

	EventStreams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recgames_event_streams",
			Help: "Number of open collection event streams",
		},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordToggle counts a favorite or like toggle outcome.
func RecordToggle(kind, status string) {
	TogglesTotal.WithLabelValues(kind, status).Inc()
}
