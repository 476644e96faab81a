package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUCacheFactory creates LRU cache instances.
type LRUCacheFactory struct {
	maxSize int
}

// NewLRUCacheFactory creates a new LRU cache factory.
func NewLRUCacheFactory(maxSize int) KeyedCacheFactory {
	return &LRUCacheFactory{maxSize: maxSize}
}

// Create creates a new LRU cache instance.
func (lcf *LRUCacheFactory) Create() (KeyedCache, error) {
	return NewLRUCache(lcf.maxSize)
}

// LRUCache is a local LRU cache implementation using golang-lru.
type LRUCache struct {
	cache  *lru.Cache[string, any]
	hits   int64
	misses int64
}

// NewLRUCache creates a new LRU-based local cache.
func NewLRUCache(maxSize int) (*LRUCache, error) {
	cache, err := lru.New[string, any](maxSize)
	if err != nil {
		return nil, err
	}

	return &LRUCache{
		cache: cache,
	}, nil
}

// Get retrieves a value from the local cache.
func (lc *LRUCache) Get(key string) (any, bool) {
	value, found := lc.cache.Get(key)
	if found {
		atomic.AddInt64(&lc.hits, 1)
	} else {
		atomic.AddInt64(&lc.misses, 1)
	}
	return value, found
}

// Set stores a value in the local cache.
func (lc *LRUCache) Set(key string, value any, cost int64) bool {
	lc.cache.Add(key, value)
	return true
}

// Delete removes a value from the local cache.
func (lc *LRUCache) Delete(key string) {
	lc.cache.Remove(key)
}

// Remove removes each key if present and returns the subset actually removed.
func (lc *LRUCache) Remove(keys []string) []string {
	removed := make([]string, 0, len(keys))
	for _, key := range keys {
		if lc.cache.Remove(key) {
			removed = append(removed, key)
		}
	}
	return removed
}

// Keys returns a snapshot of all resident keys.
func (lc *LRUCache) Keys() []string {
	return lc.cache.Keys()
}

// Len returns the number of resident keys.
func (lc *LRUCache) Len() int {
	return lc.cache.Len()
}

// Clear removes all values from the local cache.
func (lc *LRUCache) Clear() {
	lc.cache.Purge()
}

// Close closes the local cache.
func (lc *LRUCache) Close() {
	lc.cache.Purge()
}

// Metrics returns cache metrics.
func (lc *LRUCache) Metrics() KeyedCacheMetrics {
	return KeyedCacheMetrics{
		Hits:   atomic.LoadInt64(&lc.hits),
		Misses: atomic.LoadInt64(&lc.misses),
		Size:   int64(lc.cache.Len()),
	}
}
