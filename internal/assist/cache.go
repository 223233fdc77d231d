package assist

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ent0n29/taskboard/internal/board"
)

const defaultCacheTTL = 5 * time.Minute

// responseCache keeps assist answers for identical boards. The key is a
// fingerprint of task identities and statuses, so any add, delete, or move
// naturally misses.
type responseCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value   any
	expires time.Time
}

func newResponseCache(ttl time.Duration) *responseCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &responseCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *responseCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *responseCache) put(key string, value any) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func fingerprint(op string, tasks []board.Task) string {
	parts := make([]string, 0, len(tasks))
	for _, t := range tasks {
		parts = append(parts, t.ID+":"+string(t.Status))
	}
	sort.Strings(parts)
	sum := sha256.Sum256([]byte(op + "|" + strings.Join(parts, ",")))
	return hex.EncodeToString(sum[:])
}
