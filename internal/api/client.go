// Package api provides the Go client for the ShikshaDesk management API.
//
// Every call goes through an authenticated request pipeline: the stored
// access token is attached as a bearer credential, and a 401 response
// triggers exactly one silent token refresh followed by one replay of
// the original request. When the refresh itself fails the stored session
// is cleared and the auth-expired hook fires, forcing re-authentication.
//
// Quick start:
//
//	client, err := api.NewClient(api.WithBaseURL("https://api.shikshadesk.org"))
//	if err != nil { ... }
//	if _, err := client.SignIn(ctx, "admin@ngo.org", "secret"); err != nil { ... }
//	students, err := client.ListStudents(ctx, api.StudentListParams{ClusterID: 12})
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shikshadesk/shikshactl/internal/session"
)

const defaultTimeout = 30 * time.Second

// Client is the ShikshaDesk API client. A single instance is safe for
// concurrent use. The session store is the only shared mutable state;
// concurrent refreshes race and last-write-wins, each pair issued by the
// server being individually valid.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	store      session.Store
	logger     *slog.Logger

	onAuthExpired func()
	metrics       *Metrics

	cacheTTL time.Duration
	cache    *readCache

	mu      sync.RWMutex
	current *session.Session
}

// NewClient creates a new ShikshaDesk client and synchronously loads the
// persisted session: no network call is made, token validity is
// discovered lazily on the first real request.
// It reads configuration from SHIKSHADESK_* environment variables by
// default; options override the defaults.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:  os.Getenv("SHIKSHADESK_API_URL"),
		timeout:  parseDurationEnv("SHIKSHADESK_TIMEOUT", defaultTimeout),
		cacheTTL: parseDurationEnv("SHIKSHADESK_CACHE_TTL", 0),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
		}
	}
	if c.store == nil {
		path, err := session.DefaultPath()
		if err != nil {
			return nil, err
		}
		c.store = session.NewFileStore(path, c.logger)
	}
	if c.cacheTTL > 0 {
		c.cache = newReadCache(c.cacheTTL, defaultCacheSize)
	}

	// Bootstrap: the store guarantees either a fully valid session or an
	// empty one, so the authenticated/unauthenticated state resolves here.
	c.current = c.store.Load()

	return c, nil
}

// Session returns a copy of the in-memory session.
func (c *Client) Session() *session.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.Clone()
}

// Authenticated reports whether a fully populated session is loaded.
// It never contacts the server.
func (c *Client) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.Valid()
}

func (c *Client) setSession(s *session.Session) {
	c.mu.Lock()
	c.current = s
	c.mu.Unlock()
}

// apiRequest is one logical request travelling through the pipeline,
// carried so it can be replayed once with fresh credentials.
type apiRequest struct {
	method string
	path   string
	query  url.Values
	body   any

	// noAuth skips bearer decoration. Set for the login and token
	// refresh endpoints, which must not carry an expired access token.
	noAuth bool

	// retried marks that this request has already been replayed after a
	// refresh. It is set in exactly one place, which is what bounds the
	// pipeline to at most one retry.
	retried bool
}

// do runs a request through the pipeline and decodes the 2xx response
// body into result (ignored when result is nil).
func (c *Client) do(ctx context.Context, req *apiRequest, result any) error {
	body, err := c.doRaw(ctx, req)
	if err != nil {
		return err
	}
	return decode(body, result)
}

// doRaw runs the request pipeline and returns the raw 2xx response body.
//
// Decoration happens before send; interception after. On a 401 the
// pipeline refreshes the token pair once and replays; a second 401, or
// any refresh failure, clears the session, fires the auth-expired hook,
// and propagates the original failure.
func (c *Client) doRaw(ctx context.Context, req *apiRequest) ([]byte, error) {
	for {
		requestID := uuid.NewString()
		start := time.Now()

		status, body, err := c.send(ctx, req, requestID)
		c.observe(req, status, err, time.Since(start))

		if err != nil {
			// Transport error: no retry, no session mutation.
			return nil, fmt.Errorf("shikshadesk request failed: %w", err)
		}

		if status == http.StatusUnauthorized && !req.noAuth {
			unauthorized := newAPIError(status, body, requestID)
			if req.retried {
				// The replay came back 401 as well: do not loop.
				c.expireSession()
				return nil, &AuthExpiredError{Cause: unauthorized}
			}
			if _, err := c.refreshTokens(ctx); err != nil {
				c.logger.Debug("token refresh failed", "error", err)
				c.expireSession()
				return nil, &AuthExpiredError{Cause: unauthorized}
			}
			req.retried = true
			continue
		}

		if status < 200 || status >= 300 {
			return nil, newAPIError(status, body, requestID)
		}
		return body, nil
	}
}

// send performs one HTTP exchange: decorate, send, read.
func (c *Client) send(ctx context.Context, req *apiRequest, requestID string) (int, []byte, error) {
	u := strings.TrimRight(c.baseURL, "/") + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var bodyReader io.Reader
	if req.body != nil {
		jsonBody, err := json.Marshal(req.body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("X-Request-ID", requestID)
	if !req.noAuth {
		if token := c.Session().AccessToken; token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response body: %w", err)
	}
	return httpResp.StatusCode, respBody, nil
}

// expireSession tears down the client-side session after an
// irrecoverable authorization failure. The dashboard's hard redirect to
// /login maps to the onAuthExpired hook here.
func (c *Client) expireSession() {
	if err := c.store.Clear(); err != nil {
		c.logger.Warn("failed to clear stored session", "error", err)
	}
	c.setSession(&session.Session{})
	if c.cache != nil {
		c.cache.purge()
	}
	if c.onAuthExpired != nil {
		c.onAuthExpired()
	}
}

// decode unmarshals a response body into result, tolerating empty bodies.
func decode(body []byte, result any) error {
	if result == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// Convenience wrappers used by the resource methods.

func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	return c.do(ctx, &apiRequest{method: http.MethodGet, path: path, query: query}, result)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, &apiRequest{method: http.MethodPost, path: path, body: body}, result)
}

func (c *Client) put(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, &apiRequest{method: http.MethodPut, path: path, body: body}, result)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, &apiRequest{method: http.MethodDelete, path: path}, nil)
}

// getCached serves master-data GETs through the read cache when one is
// enabled. Only 2xx bodies are cached.
func (c *Client) getCached(ctx context.Context, path string, query url.Values, result any) error {
	if c.cache == nil {
		return c.get(ctx, path, query, result)
	}

	// Keyed by user identity rather than token so a silent refresh does
	// not orphan entries.
	var identity string
	if sess := c.Session(); sess.User != nil {
		identity = sess.User.Email
	}
	key := cacheKey(http.MethodGet, path, query.Encode(), identity)
	if data, ok := c.cache.get(key); ok {
		return decode(data, result)
	}

	body, err := c.doRaw(ctx, &apiRequest{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return err
	}
	c.cache.put(key, body)
	return decode(body, result)
}

// invalidateCache drops all cached reads. Called after any mutation and
// on sign-out, keeping staleness bounded to the TTL for remote changes
// only.
func (c *Client) invalidateCache() {
	if c.cache != nil {
		c.cache.purge()
	}
}

// parseDurationEnv reads a duration from the environment, accepting
// either an integer number of seconds or a Go duration string.
func parseDurationEnv(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := time.ParseDuration(v + "s"); err == nil {
		return secs
	}
	return defaultVal
}
