package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics tracks request counts and latency per route.
type HTTPMetrics struct {
	requestCount   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP metrics on the default registry.
func NewHTTPMetrics() *HTTPMetrics {
	return NewHTTPMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewHTTPMetricsWithRegistry registers the HTTP metrics on the given
// registry. Tests pass their own registry to avoid duplicate registration.
func NewHTTPMetricsWithRegistry(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "conserv_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "conserv_http_request_duration_seconds",
			Help:    "Time taken to serve HTTP requests",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.requestCount, m.requestLatency)
	return m
}

// Handler records one observation per completed request. The route label
// uses the registered pattern, not the raw path, to keep cardinality low.
func (m *HTTPMetrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.requestCount.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
