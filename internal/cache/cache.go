// Package cache memoizes generation responses by canonical request
// hash. The cache is the only shared state between concurrent
// transcript pipelines, so access is mutex-protected.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/MikeSquared-Agency/verbatim/internal/genai"
)

type entry struct {
	value      string
	storedAt   time.Time
	lastAccess time.Time
}

// Cache is a bounded TTL cache. When size exceeds the maximum, the
// oldest 25% of entries by last access are evicted; entries past their
// TTL expire regardless of pressure.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	maxEntries int
	ttl        time.Duration
	now        func() time.Time // overridable in tests
}

func New(maxEntries int, ttl time.Duration) *Cache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Cache{
		entries:    make(map[string]*entry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Key computes the canonical hash for a request: volatile fields
// (request ID, timestamp) are removed and the rest is serialized with
// sorted keys before hashing.
func Key(req genai.Request) string {
	extras := req.ExtraInstructions
	if extras == nil {
		extras = []string{}
	}
	canonical := map[string]any{
		"prompt":             req.Prompt,
		"input_text":         req.InputText,
		"response_format":    req.ResponseFormat,
		"temperature":        req.Temperature,
		"extra_instructions": extras,
	}
	// json.Marshal emits map keys in sorted order, which makes the
	// serialization stable.
	data, err := json.Marshal(canonical)
	if err != nil {
		// Only unmarshalable types can fail here; the request is all
		// plain strings and numbers.
		data = []byte(req.Prompt + req.InputText)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached response for a key, if present and fresh.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, key)
		return "", false
	}
	e.lastAccess = c.now()
	return e.value, true
}

// Put stores a response copy, evicting the oldest quarter of entries
// when the cache grows past its maximum.
func (c *Cache) Put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = &entry{value: value, storedAt: now, lastAccess: now}

	if len(c.entries) > c.maxEntries {
		c.evictOldest()
	}
}

// Len reports the current entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictOldest removes the oldest 25% of entries by last access.
// Caller must hold the mutex.
func (c *Cache) evictOldest() {
	type aged struct {
		key        string
		lastAccess time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{key: k, lastAccess: e.lastAccess})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].lastAccess.Before(all[j].lastAccess)
	})

	n := len(c.entries) / 4
	if n < 1 {
		n = 1
	}
	for i := 0; i < n && i < len(all); i++ {
		delete(c.entries, all[i].key)
	}
}
