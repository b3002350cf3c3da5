package jsonsize

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultCacheEntries is the entry limit used when CacheConfig.MaxEntries
// is zero.
const DefaultCacheEntries = 10_000

// ErrEntryTooLarge is returned by Cache.Add for a value whose estimated size
// alone exceeds the byte budget.
var ErrEntryTooLarge = errors.New("entry exceeds cache byte budget")

// CacheConfig configures a Cache. The zero value is valid.
type CacheConfig struct {
	// Maximum number of entries. Zero means DefaultCacheEntries.
	MaxEntries int

	// Maximum sum of estimated entry sizes, in bytes. Zero disables the
	// byte bound.
	MaxBytes int64

	// Logger receives eviction and rejection messages. Defaults to
	// DefaultLogger(false).
	Logger Logger

	// Registerer receives the cache metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer

	// OnEvict is called for every entry dropped to respect the budgets. It
	// runs while the cache lock is held and must not call back into the
	// cache.
	OnEvict func(key string, v Value)
}

// Validate reports the first invalid field of c.
func (c CacheConfig) Validate() error {
	if c.MaxEntries < 0 {
		return ConfigError{
			Reason: "negative entry limit",
			Field:  "MaxEntries",
			Value:  c.MaxEntries,
		}
	}

	if c.MaxBytes < 0 {
		return ConfigError{
			Reason: "negative byte limit",
			Field:  "MaxBytes",
			Value:  c.MaxBytes,
		}
	}

	return nil
}

func makeCacheConfig(c CacheConfig) CacheConfig {
	if c.MaxEntries == 0 {
		c.MaxEntries = DefaultCacheEntries
	}

	if c.Logger == nil {
		c.Logger = DefaultLogger(false)
	}

	return c
}

type cacheEntry struct {
	value Value
	size  int64
}

// Cache holds JSON values under string keys, bounded by entry count and by
// the estimated memory the values occupy. Each entry is charged
// SizeOf(value) plus the length of its key. Least recently used entries are
// evicted first.
//
// A Cache is safe for concurrent use.
type Cache struct {
	config  CacheConfig
	metrics *cacheMetrics

	// mu serializes writers so byte accounting stays consistent with the
	// contents of lru. Readers only touch lru, which has its own lock.
	mu    sync.Mutex
	lru   *lru.Cache[string, cacheEntry]
	bytes atomic.Int64
}

// NewCache returns a cache configured by config, or an error if config is
// invalid.
func NewCache(config CacheConfig) (*Cache, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config = makeCacheConfig(config)

	// Evictions are driven by Add so the LRU never drops entries on its own.
	l, err := lru.New[string, cacheEntry](config.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("creating lru: %w", err)
	}

	return &Cache{
		config:  config,
		metrics: newCacheMetrics(config.Registerer),
		lru:     l,
	}, nil
}

// Add stores v under key and returns how many entries were evicted to make
// room for it.
func (c *Cache) Add(key string, v Value) (int, error) {
	size := int64(SizeOf(v) + len(key))
	if c.config.MaxBytes > 0 && size > c.config.MaxBytes {
		c.metrics.rejected.Inc()
		c.config.Logger.Warnf("rejecting %q: %d bytes exceeds budget of %d", key, size, c.config.MaxBytes)
		return 0, fmt.Errorf("%w: %q needs %d bytes, budget is %d", ErrEntryTooLarge, key, size, c.config.MaxBytes)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	if old, ok := c.lru.Peek(key); ok {
		c.bytes.Add(-old.size)
	} else if c.lru.Len() >= c.config.MaxEntries {
		if c.evictOldest() {
			evicted++
		}
	}

	c.lru.Add(key, cacheEntry{value: v, size: size})
	c.bytes.Add(size)

	for c.config.MaxBytes > 0 && c.bytes.Load() > c.config.MaxBytes {
		if !c.evictOldest() {
			break
		}
		evicted++
	}

	c.updateGauges()
	return evicted, nil
}

// evictOldest drops the least recently used entry. c.mu must be held.
func (c *Cache) evictOldest() bool {
	key, e, ok := c.lru.RemoveOldest()
	if !ok {
		return false
	}
	c.bytes.Add(-e.size)
	c.metrics.evictions.Inc()
	c.config.Logger.Debugf("evicted %q (%d bytes)", key, e.size)
	if c.config.OnEvict != nil {
		c.config.OnEvict(key, e.value)
	}
	return true
}

func (c *Cache) updateGauges() {
	c.metrics.bytes.Set(float64(c.bytes.Load()))
	c.metrics.entries.Set(float64(c.lru.Len()))
}

// Get returns the value stored under key and marks it as recently used.
func (c *Cache) Get(key string) (Value, bool) {
	e, ok := c.lru.Get(key)
	if !ok {
		c.metrics.misses.Inc()
		return Value{}, false
	}
	c.metrics.hits.Inc()
	return e.value, true
}

// Peek returns the value stored under key without updating its recency.
func (c *Cache) Peek(key string) (Value, bool) {
	e, ok := c.lru.Peek(key)
	return e.value, ok
}

// Remove deletes key and reports whether it was present.
func (c *Cache) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Peek(key)
	if !ok {
		return false
	}
	c.lru.Remove(key)
	c.bytes.Add(-e.size)
	c.updateGauges()
	return true
}

// Purge removes every entry without calling OnEvict.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Purge()
	c.bytes.Store(0)
	c.updateGauges()
}

func (c *Cache) Len() int { return c.lru.Len() }

// Bytes returns the estimated size of all cached entries.
func (c *Cache) Bytes() int64 { return c.bytes.Load() }

// Keys returns the cached keys from oldest to newest.
func (c *Cache) Keys() []string { return c.lru.Keys() }
