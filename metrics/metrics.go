// Package metrics exposes Prometheus counters for the engine and its HTTP surface.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GamesStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wordseek_games_started_total",
		Help: "Regular games started",
	})
	GamesEnded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wordseek_games_ended_total",
		Help: "Regular games ended, by how they ended",
	}, []string{"reason"})
	Guesses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wordseek_guesses_total",
		Help: "Guesses evaluated, by mode and result",
	}, []string{"mode", "result"})
	EndVotes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wordseek_end_votes_total",
		Help: "End-game votes accepted",
	})
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(GamesStarted, GamesEnded, Guesses, EndVotes, HttpRequestsTotal, HttpRequestDuration)
}

// GinMiddleware records count and latency of every request.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": status}
		HttpRequestsTotal.With(labels).Inc()
		HttpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
