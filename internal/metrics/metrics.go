package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campus",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "code"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "campus",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campus",
		Name:      "registrations_total",
		Help:      "Event registration attempts by outcome.",
	}, []string{"outcome"})

	notices = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campus",
		Name:      "notices_processed_total",
		Help:      "Queue notices handled by the worker, by type and result.",
	}, []string{"type", "result"})
)

// ObserveRegistration counts one registration attempt.
func ObserveRegistration(outcome string) {
	registrations.WithLabelValues(outcome).Inc()
}

// ObserveNotice counts one notice handled by the worker.
func ObserveNotice(kind, result string) {
	notices.WithLabelValues(kind, result).Inc()
}

// Gin records request counts and latency. Unmatched routes are grouped
// under a single label to keep cardinality bounded.
func Gin() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
