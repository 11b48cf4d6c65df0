// Package metrics exposes Prometheus collectors for the HTTP layer and the
// matching domain.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	EmotionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmatch_emotions_recorded_total",
			Help: "Emotion records written, by source and label",
		},
		[]string{"source", "emotion"},
	)

	MatchesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmatch_matches_created_total",
			Help: "Matches created, by emotion",
		},
		[]string{"emotion"},
	)

	MatchesEnded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moodmatch_matches_ended_total",
			Help: "Matches moved from active to inactive",
		},
	)

	MatchConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moodmatch_match_conflicts_total",
			Help: "Match creations rejected because a participant already held an active match",
		},
	)
)

// Middleware records request counts and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
