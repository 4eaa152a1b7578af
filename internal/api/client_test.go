package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"go.uber.org/goleak"

	"github.com/shikshadesk/shikshactl/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testSession() *session.Session {
	return &session.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         &session.User{ID: 42, Email: "teacher@ngo.org", Role: "teacher"},
		Profile:      &session.Profile{ID: 42, Email: "teacher@ngo.org", FullName: "Meera Joshi"},
		RoleName:     "teacher",
	}
}

// newTestClient builds a client backed by a file store in a temp dir,
// optionally pre-populated with a session.
func newTestClient(t *testing.T, serverURL string, sess *session.Session, opts ...Option) (*Client, *session.FileStore) {
	t.Helper()
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"), testLogger())
	if sess != nil {
		if err := store.Save(sess); err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}
	opts = append([]Option{
		WithBaseURL(serverURL),
		WithStore(store),
		WithLogger(testLogger()),
		// Keep-alive connections would trip the goleak verifier.
		WithHTTPClient(&http.Client{Transport: &http.Transport{DisableKeepAlives: true}}),
	}, opts...)
	c, err := NewClient(opts...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, store
}

// ---------------------------------------------------------------------------
// Bearer decoration
// ---------------------------------------------------------------------------

func TestBearerAttached_WhenSessionLoaded(t *testing.T) {
	var gotAuth atomic.Value

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(DashboardStats{TotalStudents: 120})
	}))
	defer server.Close()

	c, _ := newTestClient(t, server.URL, testSession())

	stats, err := c.GetDashboardStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalStudents != 120 {
		t.Errorf("TotalStudents = %d, want 120", stats.TotalStudents)
	}
	if got := gotAuth.Load(); got != "Bearer access-1" {
		t.Errorf("Authorization = %q, want 'Bearer access-1'", got)
	}
}

func TestNoBearer_WhenSessionEmpty(t *testing.T) {
	var gotAuth atomic.Value

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"items":[],"total":0}`))
	}))
	defer server.Close()

	c, _ := newTestClient(t, server.URL, nil)

	if _, err := c.ListStudents(context.Background(), StudentListParams{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := gotAuth.Load(); got != "" {
		t.Errorf("expected no Authorization header, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// Refresh and replay
// ---------------------------------------------------------------------------

func TestRefreshAndReplay_OnUnauthorized(t *testing.T) {
	var (
		apiCalls     atomic.Int32
		refreshCalls atomic.Int32
		refreshBody  map[string]any
		replayAuth   atomic.Value
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case refreshPath:
			refreshCalls.Add(1)
			if auth := r.Header.Get("Authorization"); auth != "" {
				t.Errorf("refresh call must be unauthenticated, got %q", auth)
			}
			if err := json.NewDecoder(r.Body).Decode(&refreshBody); err != nil {
				t.Fatalf("decode refresh body: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(refreshResponse{
				AccessToken:  "access-2",
				RefreshToken: "refresh-2",
			})
		case "/Students":
			if apiCalls.Add(1) == 1 {
				http.Error(w, `{"message":"token expired"}`, http.StatusUnauthorized)
				return
			}
			replayAuth.Store(r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"items":[{"id":1,"full_name":"Ravi"}],"total":1}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c, store := newTestClient(t, server.URL, testSession())

	list, err := c.ListStudents(context.Background(), StudentListParams{})
	if err != nil {
		t.Fatalf("expected replay to succeed, got: %v", err)
	}
	if list.Total != 1 || list.Items[0].FullName != "Ravi" {
		t.Errorf("unexpected replay result: %+v", list)
	}

	if got := refreshCalls.Load(); got != 1 {
		t.Errorf("expected exactly 1 refresh call, got %d", got)
	}
	if got := apiCalls.Load(); got != 2 {
		t.Errorf("expected original + 1 replay, got %d calls", got)
	}
	if got := replayAuth.Load(); got != "Bearer access-2" {
		t.Errorf("replay Authorization = %q, want 'Bearer access-2'", got)
	}

	// Refresh payload carries the stored refresh token and identity.
	if refreshBody["refreshToken"] != "refresh-1" {
		t.Errorf("refreshToken = %v, want refresh-1", refreshBody["refreshToken"])
	}
	if refreshBody["username"] != "teacher@ngo.org" {
		t.Errorf("username = %v", refreshBody["username"])
	}
	if refreshBody["role"] != "teacher" {
		t.Errorf("role = %v", refreshBody["role"])
	}
	if refreshBody["loginId"] != float64(42) {
		t.Errorf("loginId = %v, want 42", refreshBody["loginId"])
	}
	if refreshBody["type"] != "CHECK" {
		t.Errorf("type = %v, want CHECK", refreshBody["type"])
	}
	if v, present := refreshBody["refreshExpiry"]; !present || v != nil {
		t.Errorf("refreshExpiry must be present and null, got %v (present=%v)", v, present)
	}

	// Only the token pair was rotated in the store.
	persisted := store.Load()
	if persisted.AccessToken != "access-2" || persisted.RefreshToken != "refresh-2" {
		t.Errorf("persisted tokens = %q/%q, want access-2/refresh-2",
			persisted.AccessToken, persisted.RefreshToken)
	}
	if persisted.User.Email != "teacher@ngo.org" || persisted.Profile.FullName != "Meera Joshi" {
		t.Error("refresh must not touch identity or profile fields")
	}
	if persisted.RoleName != "teacher" {
		t.Errorf("role changed to %q", persisted.RoleName)
	}
}

func TestRefreshFailure_ClearsSessionAndFiresHook(t *testing.T) {
	var hookCalls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case refreshPath:
			http.Error(w, `{"message":"refresh token revoked"}`, http.StatusForbidden)
		default:
			http.Error(w, `{"message":"token expired"}`, http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	c, store := newTestClient(t, server.URL, testSession(),
		WithOnAuthExpired(func() { hookCalls.Add(1) }))

	_, err := c.GetDashboardStats(context.Background())
	if err == nil {
		t.Fatal("expected error after failed refresh")
	}
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expected errors.Is(err, ErrSessionExpired), got %v (%T)", err, err)
	}
	// The original 401 stays reachable through the chain.
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected the original 401 to propagate, got %v", err)
	}
	var expired *AuthExpiredError
	if !errors.As(err, &expired) {
		t.Fatalf("expected *AuthExpiredError, got %T", err)
	}

	if store.Load().Valid() {
		t.Error("expected stored session to be cleared")
	}
	if c.Authenticated() {
		t.Error("expected in-memory session to be cleared")
	}
	if got := hookCalls.Load(); got != 1 {
		t.Errorf("auth-expired hook fired %d times, want exactly 1", got)
	}
}

func TestAtMostOneRetry_WhenReplayAlsoUnauthorized(t *testing.T) {
	var (
		apiCalls     atomic.Int32
		refreshCalls atomic.Int32
		hookCalls    atomic.Int32
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case refreshPath:
			refreshCalls.Add(1)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(refreshResponse{
				AccessToken:  "access-2",
				RefreshToken: "refresh-2",
			})
		default:
			apiCalls.Add(1)
			http.Error(w, `{"message":"still expired"}`, http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	c, store := newTestClient(t, server.URL, testSession(),
		WithOnAuthExpired(func() { hookCalls.Add(1) }))

	_, err := c.GetDashboardStats(context.Background())
	if err == nil {
		t.Fatal("expected error when replay is also unauthorized")
	}
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}

	if got := refreshCalls.Load(); got != 1 {
		t.Errorf("expected exactly 1 refresh, got %d", got)
	}
	if got := apiCalls.Load(); got != 2 {
		t.Errorf("expected original + exactly 1 replay, got %d calls", got)
	}
	if got := hookCalls.Load(); got != 1 {
		t.Errorf("hook fired %d times, want 1", got)
	}
	if store.Load().Valid() {
		t.Error("expected session cleared after second 401")
	}
}

func TestUnauthorized_WithoutSession_NoRefreshAttempt(t *testing.T) {
	var refreshCalls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == refreshPath {
			refreshCalls.Add(1)
		}
		http.Error(w, `{"message":"authentication required"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	var hookCalls atomic.Int32
	c, _ := newTestClient(t, server.URL, nil,
		WithOnAuthExpired(func() { hookCalls.Add(1) }))

	_, err := c.GetDashboardStats(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
	if got := refreshCalls.Load(); got != 0 {
		t.Errorf("refresh endpoint must not be called without a session, got %d calls", got)
	}
	if got := hookCalls.Load(); got != 1 {
		t.Errorf("hook fired %d times, want 1", got)
	}
}

// ---------------------------------------------------------------------------
// Non-401 handling
// ---------------------------------------------------------------------------

func TestNon401Errors_PropagateWithoutRetry(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"message":"cluster not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	c, store := newTestClient(t, server.URL, testSession())

	_, err := c.GetCluster(context.Background(), 99)
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", apiErr.Status)
	}
	if apiErr.Message != "cluster not found" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("404 must not match ErrUnauthorized")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}
	if !store.Load().Valid() {
		t.Error("non-401 error must not mutate the session")
	}
}

func TestTransportError_PropagatesWithoutSessionMutation(t *testing.T) {
	// Point at a closed port.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	c, store := newTestClient(t, addr, testSession())

	_, err := c.GetDashboardStats(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	if errors.Is(err, ErrSessionExpired) {
		t.Error("transport error must not be treated as auth failure")
	}
	if !store.Load().Valid() {
		t.Error("transport error must not mutate the session")
	}
	if !c.Authenticated() {
		t.Error("in-memory session must survive a transport error")
	}
}
