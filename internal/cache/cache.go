package cache

import (
	"sync"
	"time"
)

// DefaultTTL is how long an upstream payload is served before it is refetched.
const DefaultTTL = 5 * time.Minute

type entry struct {
	payload    []byte
	capturedAt time.Time
}

// Cache is a time-boxed key/value store of raw upstream payloads.
// Expired entries are dropped lazily on the next Get; there is no other eviction.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// New creates a Cache. A non-positive ttl selects DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// WithClock replaces the time source. Used by tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// TTL returns the configured lifetime of an entry.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get returns the payload stored under key while it is younger than the TTL.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.capturedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.payload, true
}

// Put stores payload under key, replacing any previous entry.
func (c *Cache) Put(key string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{payload: payload, capturedAt: c.now()}
}

// Len returns the number of physically stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
