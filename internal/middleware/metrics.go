package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledgerkeep_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledgerkeep_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})

	journalEntriesPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledgerkeep_journal_entries_posted_total",
		Help: "Total journal entries that reached POSTED status",
	})

	authorizationDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledgerkeep_authorization_denials_total",
		Help: "Total requests denied by the policy engine, labeled by action",
	}, []string{"action"})
)

// Metrics creates a Gin middleware that records request counts and latency.
// The route template (FullPath) is used as the endpoint label to keep
// cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// RecordEntryPosted increments the posted-entries counter.
func RecordEntryPosted() {
	journalEntriesPosted.Inc()
}

// RecordAuthorizationDenial increments the denial counter for an action.
func RecordAuthorizationDenial(action string) {
	authorizationDenials.WithLabelValues(action).Inc()
}
