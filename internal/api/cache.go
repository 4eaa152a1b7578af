package api

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

const defaultCacheSize = 256

// readCache is a small LRU cache with TTL expiry for master-data GET
// responses. Raw response bodies are stored so hits skip both the
// network and re-marshalling.
type readCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[uint64]*cacheNode
	head       *cacheNode // most recently used
	tail       *cacheNode // least recently used
}

type cacheNode struct {
	key       uint64
	data      []byte
	expiresAt time.Time
	prev      *cacheNode
	next      *cacheNode
}

func newReadCache(ttl time.Duration, maxEntries int) *readCache {
	return &readCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[uint64]*cacheNode),
	}
}

// get returns the cached body for key if present and unexpired, and
// promotes the entry to most recently used.
func (c *readCache) get(key uint64) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(node.expiresAt) {
		c.removeLocked(node)
		return nil, false
	}
	c.moveToFrontLocked(node)
	return node.data, true
}

// put stores a body under key, evicting the least recently used entry
// when the cache is full.
func (c *readCache) put(key uint64, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.entries[key]; ok {
		node.data = data
		node.expiresAt = time.Now().Add(c.ttl)
		c.moveToFrontLocked(node)
		return
	}

	if len(c.entries) >= c.maxEntries && c.tail != nil {
		c.removeLocked(c.tail)
	}

	node := &cacheNode{key: key, data: data, expiresAt: time.Now().Add(c.ttl)}
	c.entries[key] = node
	c.pushFrontLocked(node)
}

// purge drops every entry.
func (c *readCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*cacheNode)
	c.head = nil
	c.tail = nil
}

func (c *readCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *readCache) pushFrontLocked(node *cacheNode) {
	node.prev = nil
	node.next = c.head
	if c.head != nil {
		c.head.prev = node
	}
	c.head = node
	if c.tail == nil {
		c.tail = node
	}
}

func (c *readCache) moveToFrontLocked(node *cacheNode) {
	if c.head == node {
		return
	}
	c.unlinkLocked(node)
	c.pushFrontLocked(node)
}

func (c *readCache) removeLocked(node *cacheNode) {
	delete(c.entries, node.key)
	c.unlinkLocked(node)
}

func (c *readCache) unlinkLocked(node *cacheNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		c.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		c.tail = node.prev
	}
	node.prev = nil
	node.next = nil
}

// cacheKey generates a unique hash for a GET request. Includes the
// signed-in identity so entries never leak across users.
func cacheKey(method, path, rawQuery, identity string) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(method)
	_, _ = h.Write([]byte{0}) // separator
	_, _ = h.WriteString(path)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(rawQuery)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(identity)
	return h.Sum64()
}
