package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics the client records. Nil when no
// registry was supplied; every record site checks for that.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	TokenRefreshes  *prometheus.CounterVec
}

// NewMetrics creates and registers all client metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shikshadesk",
				Name:      "client_requests_total",
				Help:      "Total API requests made by the client",
			},
			[]string{"resource", "outcome"}, // outcome=ok/http_<code>/transport_error
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "shikshadesk",
				Name:      "client_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"resource"},
		),
		TokenRefreshes: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shikshadesk",
				Name:      "client_token_refreshes_total",
				Help:      "Silent token refresh attempts by result",
			},
			[]string{"result"}, // result=success/rejected/missing_session/store_error
		),
	}
}

// observe records one HTTP exchange.
func (c *Client) observe(req *apiRequest, status int, err error, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	resource := resourceLabel(req.path)
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "transport_error"
	case status < 200 || status >= 300:
		outcome = "http_" + strconv.Itoa(status)
	}
	c.metrics.RequestsTotal.WithLabelValues(resource, outcome).Inc()
	c.metrics.RequestDuration.WithLabelValues(resource).Observe(elapsed.Seconds())
}

// countRefresh records the result of one refresh attempt.
func (c *Client) countRefresh(result string) {
	if c.metrics == nil {
		return
	}
	c.metrics.TokenRefreshes.WithLabelValues(result).Inc()
}

// resourceLabel reduces a request path to its first segment so metric
// cardinality stays bounded ("/Students/42" -> "Students").
func resourceLabel(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	if path == "" {
		return "unknown"
	}
	return path
}
