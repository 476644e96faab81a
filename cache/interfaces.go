package cache

// Logger defines the interface for logging in cache-admin.
type Logger interface {
	// Debug logs a debug message.
	Debug(msg string, args ...any)

	// Info logs an info message.
	Info(msg string, args ...any)

	// Warn logs a warning message.
	Warn(msg string, args ...any)

	// Error logs an error message.
	Error(msg string, args ...any)
}

// Marshaller defines the interface for wire serialization.
type Marshaller interface {
	// Marshal serializes a value to bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal deserializes a value from bytes.
	Unmarshal(data []byte, v any) error
}

// KeyedCache defines the interface for a local in-process cache whose
// resident key set can be enumerated and bulk-removed. All methods are safe
// for concurrent callers.
type KeyedCache interface {
	// Get retrieves a value from the cache.
	Get(key string) (any, bool)

	// Set stores a value in the cache.
	Set(key string, value any, cost int64) bool

	// Delete removes a single key from the cache.
	Delete(key string)

	// Remove removes each of the given keys if present and returns exactly
	// the subset that was resident and removed. Absent keys are skipped,
	// never errors.
	Remove(keys []string) []string

	// Keys returns a snapshot of all currently resident keys. No ordering
	// is guaranteed.
	Keys() []string

	// Len returns the number of resident keys.
	Len() int

	// Clear removes all values from the cache.
	Clear()

	// Close closes the cache.
	Close()

	// Metrics returns cache metrics.
	Metrics() KeyedCacheMetrics
}

// KeyedCacheMetrics represents local cache metrics.
type KeyedCacheMetrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int64
}

// KeyedCacheFactory defines the interface for creating cache implementations.
type KeyedCacheFactory interface {
	// Create creates a new cache instance.
	Create() (KeyedCache, error)
}
