package observability

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce        sync.Once
	forumRequestsTotal  *prometheus.CounterVec
	forumLatencySeconds *prometheus.HistogramVec
	forumErrorsTotal    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used for forum observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		forumRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forum_requests_total",
			Help: "Total number of forum API requests served.",
		}, []string{"method", "route", "status"})

		forumLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "forum_latency_seconds",
			Help:    "Latency distribution for forum API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		forumErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forum_errors_total",
			Help: "Total number of error responses returned by forum endpoints.",
		}, []string{"method", "route", "status"})

		prometheus.MustRegister(forumRequestsTotal, forumLatencySeconds, forumErrorsTotal)
	})
}

// ForumRequests exposes the counter for forum requests.
func ForumRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return forumRequestsTotal
}

// ForumLatency exposes the latency histogram for forum requests.
func ForumLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return forumLatencySeconds
}

// ForumErrors exposes the counter for forum error responses.
func ForumErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return forumErrorsTotal
}

// MetricsHandler exposes the Prometheus scrape endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.Handler())
}
