package storage

import (
	"context"
	"slices"
	"sync"
	"time"
)

type cacheEntry struct {
	value   []byte
	stored  time.Time
	expires time.Time
}

// CachedStore wraps a Store with an in-process read cache. Get serves fresh
// cache hits without touching the backend; Set and Delete write through and
// keep the cache coherent for this process. Writers in other processes are
// only observed once the TTL lapses, consistent with the last-write-wins
// stance of the Store contract.
//
// Every cache fill first drops entries whose TTL has lapsed; when a maximum
// entry count is configured, it then evicts the oldest entries until the
// insert fits.
type CachedStore struct {
	store      Store
	ttl        time.Duration
	maxEntries int
	entries    map[string]cacheEntry
	mu         sync.RWMutex
}

var _ Store = (*CachedStore)(nil)

// CacheOption configures a CachedStore.
type CacheOption func(*CachedStore)

// WithMaxEntries bounds the cache to at most n entries; filling a full cache
// evicts the oldest entries first. Zero or negative n leaves the cache
// unbounded.
func WithMaxEntries(n int) CacheOption {
	return func(c *CachedStore) {
		c.maxEntries = n
	}
}

// NewCachedStore wraps store with a read cache. A zero ttl means entries
// never expire.
func NewCachedStore(store Store, ttl time.Duration, opts ...CacheOption) *CachedStore {
	c := &CachedStore{
		store:   store,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && (c.ttl == 0 || time.Now().Before(entry.expires)) {
		return slices.Clone(entry.value), true, nil
	}

	value, present, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	if present {
		c.fillLocked(key, value)
	} else {
		delete(c.entries, key)
	}
	c.mu.Unlock()

	if !present {
		return nil, false, nil
	}
	return slices.Clone(value), true, nil
}

func (c *CachedStore) Set(ctx context.Context, key string, value []byte) error {
	if err := c.store.Set(ctx, key, value); err != nil {
		return err
	}

	c.mu.Lock()
	c.fillLocked(key, value)
	c.mu.Unlock()
	return nil
}

func (c *CachedStore) Delete(ctx context.Context, key string) error {
	if err := c.store.Delete(ctx, key); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Keys always consults the backend; the cache indexes only keys this
// process has touched.
func (c *CachedStore) Keys(ctx context.Context) ([]string, error) {
	return c.store.Keys(ctx)
}

// Invalidate drops any cached entry for key, forcing the next Get to hit
// the backend.
func (c *CachedStore) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len reports the number of entries currently cached, expired ones included
// until the next fill sweeps them.
func (c *CachedStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// fillLocked caches value under key, evicting first so the bound holds after
// the insert. Callers hold the write lock.
func (c *CachedStore) fillLocked(key string, value []byte) {
	now := time.Now()
	c.evictLocked(now, key)

	entry := cacheEntry{value: slices.Clone(value), stored: now}
	if c.ttl > 0 {
		entry.expires = now.Add(c.ttl)
	}
	c.entries[key] = entry
}

// evictLocked removes expired entries, then the oldest entries until a
// configured bound has room for one more. The key being filled is exempt
// since its slot is about to be overwritten anyway.
func (c *CachedStore) evictLocked(now time.Time, filling string) {
	if c.ttl > 0 {
		for key, entry := range c.entries {
			if !now.Before(entry.expires) {
				delete(c.entries, key)
			}
		}
	}

	if c.maxEntries <= 0 {
		return
	}
	if _, ok := c.entries[filling]; ok {
		return
	}
	for len(c.entries) >= c.maxEntries {
		oldest := ""
		var oldestAt time.Time
		for key, entry := range c.entries {
			if oldest == "" || entry.stored.Before(oldestAt) {
				oldest = key
				oldestAt = entry.stored
			}
		}
		delete(c.entries, oldest)
	}
}
