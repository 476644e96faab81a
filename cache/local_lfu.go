package cache

import (
	"sync"
	"sync/atomic"

	lfu "github.com/dgraph-io/ristretto"
)

// LFUCacheFactory creates Ristretto cache instances.
type LFUCacheFactory struct {
	config LocalCacheConfig
}

// NewLFUCacheFactory creates a new Ristretto cache factory.
func NewLFUCacheFactory(config LocalCacheConfig) KeyedCacheFactory {
	return &LFUCacheFactory{config: config}
}

// Create creates a new Ristretto cache instance.
func (rcf *LFUCacheFactory) Create() (KeyedCache, error) {
	return NewLFUCache(rcf.config)
}

// lfuEntry wraps a cached value together with its original string key.
// Ristretto only hands back hashed keys on eviction, so the envelope is what
// lets the key index stay in lockstep with evictions.
type lfuEntry struct {
	key   string
	value any
}

// LFUCache is a local LFU cache implementation using Ristretto, extended with
// a key index so the resident key set can be enumerated.
type LFUCache struct {
	cache     *lfu.Cache
	mu        sync.Mutex
	index     map[string]struct{}
	hits      int64
	misses    int64
	evictions int64
}

// NewLFUCache creates a new Ristretto-based local cache.
func NewLFUCache(config LocalCacheConfig) (*LFUCache, error) {
	rc := &LFUCache{
		index: make(map[string]struct{}),
	}

	cache, err := lfu.NewCache(&lfu.Config{
		NumCounters:        config.NumCounters,
		MaxCost:            config.MaxCost,
		BufferItems:        config.BufferItems,
		IgnoreInternalCost: config.IgnoreInternalCost,
		OnEvict: func(item *lfu.Item) {
			if entry, ok := item.Value.(*lfuEntry); ok {
				rc.dropFromIndex(entry.key)
				atomic.AddInt64(&rc.evictions, 1)
			}
		},
		// A buffered Set can still be refused by the admission policy, in
		// which case Ristretto reports it here rather than through OnEvict.
		// The index entry added by Set must come back out.
		OnReject: func(item *lfu.Item) {
			if entry, ok := item.Value.(*lfuEntry); ok {
				rc.dropFromIndex(entry.key)
			}
		},
	})
	if err != nil {
		return nil, err
	}

	rc.cache = cache
	return rc, nil
}

// Get retrieves a value from the local cache.
func (rc *LFUCache) Get(key string) (any, bool) {
	value, found := rc.cache.Get(key)
	if found {
		atomic.AddInt64(&rc.hits, 1)
		if entry, ok := value.(*lfuEntry); ok {
			return entry.value, true
		}
		return value, true
	}
	atomic.AddInt64(&rc.misses, 1)
	return nil, false
}

// Set stores a value in the local cache. The key is indexed before the
// buffered write so an asynchronous rejection cannot arrive first and lose
// the race against the index add.
func (rc *LFUCache) Set(key string, value any, cost int64) bool {
	rc.mu.Lock()
	rc.index[key] = struct{}{}
	rc.mu.Unlock()

	ok := rc.cache.Set(key, &lfuEntry{key: key, value: value}, cost)
	if !ok {
		// Dropped before buffering. Keep the index entry only if an earlier
		// value for the key is still resident.
		if _, found := rc.cache.Get(key); !found {
			rc.dropFromIndex(key)
		}
	}
	return ok
}

// Delete removes a value from the local cache.
func (rc *LFUCache) Delete(key string) {
	rc.dropFromIndex(key)
	rc.cache.Del(key)
}

// Remove removes each key if present and returns the subset actually removed.
// Presence is decided by the key index under its lock, so two racing Remove
// calls never both claim the same key.
func (rc *LFUCache) Remove(keys []string) []string {
	removed := make([]string, 0, len(keys))
	for _, key := range keys {
		rc.mu.Lock()
		_, present := rc.index[key]
		if present {
			delete(rc.index, key)
		}
		rc.mu.Unlock()

		if present {
			rc.cache.Del(key)
			removed = append(removed, key)
		}
	}
	return removed
}

// Keys returns a snapshot of all resident keys.
func (rc *LFUCache) Keys() []string {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	keys := make([]string, 0, len(rc.index))
	for key := range rc.index {
		keys = append(keys, key)
	}
	return keys
}

// Len returns the number of resident keys.
func (rc *LFUCache) Len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.index)
}

// Clear removes all values from the local cache.
func (rc *LFUCache) Clear() {
	rc.mu.Lock()
	rc.index = make(map[string]struct{})
	rc.mu.Unlock()
	rc.cache.Clear()
}

// Close closes the local cache.
func (rc *LFUCache) Close() {
	rc.cache.Close()
}

// Metrics returns cache metrics.
func (rc *LFUCache) Metrics() KeyedCacheMetrics {
	return KeyedCacheMetrics{
		Hits:      atomic.LoadInt64(&rc.hits),
		Misses:    atomic.LoadInt64(&rc.misses),
		Evictions: atomic.LoadInt64(&rc.evictions),
		Size:      int64(rc.Len()),
	}
}

func (rc *LFUCache) dropFromIndex(key string) {
	rc.mu.Lock()
	delete(rc.index, key)
	rc.mu.Unlock()
}

// Wait blocks until buffered Set operations have been applied. Ristretto
// applies writes asynchronously; tests use this to observe a stable state.
func (rc *LFUCache) Wait() {
	rc.cache.Wait()
}
