package http

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/couchcryptid/scent-plan-service/internal/domain"
)

// resultCache is a thread-safe LRU cache of computed plan results,
// keyed by a digest of the raw request payload. Only requests with an
// explicit evaluated_at are cached: without one, "now" shifts between
// calls and the cached envelope would silently go stale.
type resultCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.PlanResult
	prev  *entry
	next  *entry
}

func newResultCache(maxEntries int) *resultCache {
	return &resultCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

// cacheKey digests a raw request body. Two byte-identical payloads
// always compute the same plan, so the body is the natural key.
func cacheKey(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func (c *resultCache) get(key string) (domain.PlanResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.PlanResult{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *resultCache) put(key string, value domain.PlanResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *resultCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *resultCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *resultCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *resultCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
