package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shikshadesk/shikshactl/internal/session"
)

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithBaseURL sets the ShikshaDesk API base URL.
// If not set, defaults to the SHIKSHADESK_API_URL environment variable.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom http.Client for making requests.
// This is useful for testing, proxying, or custom transport configurations.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the HTTP request timeout.
// If not set, defaults to 30 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the slog logger used for debug and warning output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStore sets the session store. If not set, a file store at
// ~/.shikshadesk/session.json is used.
func WithStore(s session.Store) Option {
	return func(c *Client) {
		c.store = s
	}
}

// WithOnAuthExpired sets the hook invoked exactly once per irrecoverable
// authorization failure, after the session has been cleared. The browser
// dashboard navigates to /login here; the CLI prints re-login
// instructions.
func WithOnAuthExpired(fn func()) Option {
	return func(c *Client) {
		c.onAuthExpired = fn
	}
}

// WithCacheTTL enables the read cache for master-data GETs with the
// given entry time-to-live. Zero disables caching (the default).
func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = d
	}
}

// WithMetrics registers client metrics (request counts, durations, token
// refreshes) with the given registry. Intended for long-running
// processes embedding the SDK; the CLI does not set it.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) {
		c.metrics = NewMetrics(reg)
	}
}
