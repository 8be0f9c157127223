package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestDuration observes request latency per route and status
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "loanflow_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status code",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// LifecycleOperations counts lifecycle transitions by operation and outcome
	LifecycleOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanflow_lifecycle_operations_total",
			Help: "Lifecycle operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// ScoringRequests counts scoring evaluations by outcome
	ScoringRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanflow_scoring_requests_total",
			Help: "Scoring requests by outcome",
		},
		[]string{"outcome"},
	)
)

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// RecordLifecycle increments the lifecycle operation counter
func RecordLifecycle(operation string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	LifecycleOperations.WithLabelValues(operation, outcome).Inc()
}

// Middleware observes request latency for every handled route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the Prometheus registry
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
