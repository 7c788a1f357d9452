package jwks

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheEntry struct {
	key        *SigningKey
	insertedAt time.Time
}

// keyCache maps kid to an extracted signing key. Entries are bounded by
// count (LRU eviction) and by age (lazy expiry at read time, no
// background sweep). Either bound can be disabled: maxEntries <= 0
// stores entries in a plain map, maxAge <= 0 keeps entries forever.
type keyCache struct {
	maxAge time.Duration
	now    func() time.Time

	// Exactly one of lru/items is in use.
	lru *lru.Cache[string, cacheEntry]

	mu    sync.Mutex
	items map[string]cacheEntry
}

func newKeyCache(maxEntries int, maxAge time.Duration) (*keyCache, error) {
	c := &keyCache{
		maxAge: maxAge,
		now:    time.Now,
	}

	if maxEntries > 0 {
		bounded, err := lru.New[string, cacheEntry](maxEntries)
		if err != nil {
			return nil, wrapError(KindArgument, err, "could not build key cache")
		}
		c.lru = bounded
	} else {
		c.items = make(map[string]cacheEntry)
	}

	return c, nil
}

// get returns the cached key for kid. An entry older than maxAge is
// removed and reported as a miss.
func (c *keyCache) get(kid string) (*SigningKey, bool) {
	entry, ok := c.lookup(kid)
	if !ok {
		return nil, false
	}

	if c.maxAge > 0 && c.now().Sub(entry.insertedAt) >= c.maxAge {
		c.remove(kid)
		return nil, false
	}

	return entry.key, true
}

func (c *keyCache) add(kid string, key *SigningKey) {
	entry := cacheEntry{key: key, insertedAt: c.now()}

	if c.lru != nil {
		c.lru.Add(kid, entry)
		return
	}

	c.mu.Lock()
	c.items[kid] = entry
	c.mu.Unlock()
}

func (c *keyCache) lookup(kid string) (cacheEntry, bool) {
	if c.lru != nil {
		return c.lru.Get(kid)
	}

	c.mu.Lock()
	entry, ok := c.items[kid]
	c.mu.Unlock()
	return entry, ok
}

func (c *keyCache) remove(kid string) {
	if c.lru != nil {
		c.lru.Remove(kid)
		return
	}

	c.mu.Lock()
	delete(c.items, kid)
	c.mu.Unlock()
}
