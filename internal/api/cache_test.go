package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestReadCache_HitAndExpiry(t *testing.T) {
	c := newReadCache(50*time.Millisecond, 10)
	key := cacheKey("GET", "/Clusters", "", "a@b.org")

	if _, ok := c.get(key); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.put(key, []byte(`[{"id":1}]`))
	data, ok := c.get(key)
	if !ok || string(data) != `[{"id":1}]` {
		t.Fatalf("expected hit, got ok=%v data=%s", ok, data)
	}

	time.Sleep(80 * time.Millisecond)
	if _, ok := c.get(key); ok {
		t.Error("expected expiry after TTL")
	}
}

func TestReadCache_LRUEviction(t *testing.T) {
	c := newReadCache(time.Minute, 2)
	k1 := cacheKey("GET", "/Clusters", "", "u")
	k2 := cacheKey("GET", "/Programs", "", "u")
	k3 := cacheKey("GET", "/Dashboard/Stats", "", "u")

	c.put(k1, []byte("1"))
	c.put(k2, []byte("2"))
	c.get(k1) // promote k1, k2 becomes LRU
	c.put(k3, []byte("3"))

	if _, ok := c.get(k2); ok {
		t.Error("expected k2 evicted as least recently used")
	}
	if _, ok := c.get(k1); !ok {
		t.Error("expected k1 retained")
	}
	if _, ok := c.get(k3); !ok {
		t.Error("expected k3 retained")
	}
}

func TestReadCache_KeyIncludesIdentity(t *testing.T) {
	a := cacheKey("GET", "/Clusters", "", "a@ngo.org")
	b := cacheKey("GET", "/Clusters", "", "b@ngo.org")
	if a == b {
		t.Error("cache keys must differ per identity")
	}
}

func TestReadCache_Purge(t *testing.T) {
	c := newReadCache(time.Minute, 10)
	c.put(1, []byte("x"))
	c.put(2, []byte("y"))
	c.purge()
	if c.len() != 0 {
		t.Errorf("expected empty cache after purge, got %d entries", c.len())
	}
}

// ---------------------------------------------------------------------------
// Client integration
// ---------------------------------------------------------------------------

func TestListClusters_SecondCallServedFromCache(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Pune East","active":true}]`))
	}))
	defer server.Close()

	c, _ := newTestClient(t, server.URL, testSession(), WithCacheTTL(time.Minute))

	for i := 0; i < 2; i++ {
		clusters, err := c.ListClusters(context.Background())
		if err != nil {
			t.Fatalf("call %d: %v", i+1, err)
		}
		if len(clusters) != 1 || clusters[0].Name != "Pune East" {
			t.Fatalf("call %d: unexpected result %+v", i+1, clusters)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 server call, got %d", got)
	}
}

func TestMutation_InvalidatesCache(t *testing.T) {
	var listCalls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"id":2,"name":"Pune West","active":true}`))
			return
		}
		listCalls.Add(1)
		w.Write([]byte(`[{"id":1,"name":"Pune East","active":true}]`))
	}))
	defer server.Close()

	c, _ := newTestClient(t, server.URL, testSession(), WithCacheTTL(time.Minute))

	if _, err := c.ListClusters(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := c.CreateCluster(context.Background(), &Cluster{Name: "Pune West"}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ListClusters(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := listCalls.Load(); got != 2 {
		t.Errorf("expected cache invalidated by mutation (2 list calls), got %d", got)
	}
}

func TestSignOut_PurgesCache(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c, _ := newTestClient(t, server.URL, testSession(), WithCacheTTL(time.Minute))

	if _, err := c.ListPrograms(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := c.SignOut(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ListPrograms(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := calls.Load(); got != 2 {
		t.Errorf("expected cache purged on sign-out (2 calls), got %d", got)
	}
}
