package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"github.com/use-agent/kqxs/config"
	"github.com/use-agent/kqxs/source"
)

// entry holds a rendered result with its creation timestamp.
type entry struct {
	body      string
	createdAt time.Time
}

// Cache is a simple in-memory cache for rendered results.
// It is safe for concurrent use. A nil *Cache is a disabled cache.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

// New creates a Cache from cfg, or returns nil when cfg.TTL is not
// positive. A background goroutine evicts expired entries every TTL.
func New(cfg config.CacheConfig) *Cache {
	if cfg.TTL <= 0 {
		return nil
	}
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 1
	}

	c := &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
		ttl:        cfg.TTL,
		now:        time.Now,
	}

	go c.cleanupLoop()
	return c
}

// Key generates a cache key from the normalized query and output format.
func Key(q source.Query, outputFormat string) string {
	h := sha256.New()
	for _, part := range []string{
		q.Date.Format("2006-01-02"),
		q.ResultURL,
		strconv.Itoa(int(q.Column)),
		strconv.FormatBool(q.Vietnam),
		strconv.FormatBool(q.Night),
		outputFormat,
	} {
		h.Write([]byte(part))
		h.Write([]byte("|"))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached body if it exists and has not expired.
func (c *Cache) Get(key string) (string, bool) {
	if c == nil {
		return "", false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(e.createdAt) > c.ttl {
		return "", false
	}
	return e.body, true
}

// Set stores a body in the cache. If the cache is at capacity,
// a random entry is evicted to make room.
func (c *Cache) Set(key, body string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Map iteration order is random in Go.
	if _, exists := c.store[key]; !exists && len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &entry{
		body:      body,
		createdAt: c.now(),
	}
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// cleanupLoop evicts expired entries every TTL.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()
	for range ticker.C {
		c.evictExpired()
	}
}

func (c *Cache) evictExpired() {
	cutoff := c.now().Add(-c.ttl)
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.store {
		if e.createdAt.Before(cutoff) {
			delete(c.store, k)
		}
	}
}
