package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dashboardRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "Requests served by the admin dashboard, by route and status",
		},
		[]string{"service", "method", "endpoint", "status"},
	)

	dashboardRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "Dashboard request latency; includes time spent on core API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "endpoint", "status"},
	)

	dashboardRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_http_requests_in_flight",
			Help: "Dashboard requests currently being handled",
		},
	)
)

// Metrics records per-route counters and latency. Unmatched paths collapse
// into a single label so probes can't explode the cardinality.
func Metrics(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		dashboardRequestsInFlight.Inc()

		c.Next()

		dashboardRequestsInFlight.Dec()
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		endpoint := c.FullPath()
		method := c.Request.Method

		if endpoint == "" {
			endpoint = "not_found"
		}

		dashboardRequestsTotal.WithLabelValues(serviceName, method, endpoint, status).Inc()
		dashboardRequestDuration.WithLabelValues(serviceName, method, endpoint, status).Observe(duration)
	}
}
