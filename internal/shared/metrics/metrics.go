package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for extraction counters.
const (
	OutcomeSuccess    = "success"
	OutcomeUnreadable = "unreadable"
	OutcomeExtraction = "extraction_failed"
	OutcomeStorage    = "storage_failed"
)

var (
	registry = prometheus.NewRegistry()

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cv_http_requests_total",
			Help: "Total HTTP requests served.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cv_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	extractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cv_extractions_total",
			Help: "Upload pipeline runs by field extraction strategy and outcome.",
		},
		[]string{"strategy", "outcome"},
	)

	extractionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cv_extraction_duration_seconds",
			Help:    "Upload pipeline duration in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"strategy"},
	)
)

func init() {
	registry.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		extractionsTotal,
		extractionDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveExtraction records a pipeline run.
func ObserveExtraction(strategy, outcome string, elapsed time.Duration) {
	if elapsed < 0 {
		elapsed = 0
	}
	extractionsTotal.WithLabelValues(strategy, outcome).Inc()
	extractionDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

// Middleware records request counts and latency. Routes are labelled by their
// registered pattern so unmatched paths collapse into one series.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
