package expression

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// CacheStats tracks cache statistics
type CacheStats struct {
	Hits      int64 // Number of cache hits
	Misses    int64 // Number of cache misses
	Evictions int64 // Number of cache evictions
	Size      int64 // Current size in bytes
}

// Cache is a thread-safe LRU cache of compiled formulas bounded by an
// estimated memory size, with optional TTL expiry.
type Cache struct {
	items     map[string]*list.Element
	evictList *list.List
	stats     CacheStats
	config    *CacheConfig
	mu        sync.Mutex
	cancel    context.CancelFunc
}

// CacheConfig defines configuration options for the cache
type CacheConfig struct {
	MaxSize         int64                             // Maximum memory size in bytes
	TTL             time.Duration                     // Time to live for cache entries
	CleanupInterval time.Duration                     // Interval for cleanup routine
	OnEvict         func(key string, value *Compiled) // Callback when an item is evicted
}

type cacheEntry struct {
	key    string
	value  *Compiled
	size   int64
	expiry time.Time // zero means no expiry
}

// NewCache creates a new cache instance with the given configuration
func NewCache(config *CacheConfig) *Cache {
	if config == nil {
		config = &CacheConfig{
			MaxSize:         1024 * 1024, // 1MB default
			TTL:             time.Hour,
			CleanupInterval: time.Minute * 5,
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		items:     make(map[string]*list.Element),
		evictList: list.New(),
		config:    config,
		cancel:    cancel,
	}

	if config.CleanupInterval > 0 {
		go c.startCleanup(ctx)
	}

	return c
}

// Get retrieves a compiled formula from the cache
func (c *Cache) Get(key string) (*Compiled, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.items[key]
	if !ok {
		atomic.AddInt64(&c.stats.Misses, 1)
		return nil, false
	}

	entry := ent.Value.(*cacheEntry)
	if !entry.expiry.IsZero() && time.Now().After(entry.expiry) {
		c.removeElement(ent)
		atomic.AddInt64(&c.stats.Misses, 1)
		return nil, false
	}

	c.evictList.MoveToFront(ent)
	atomic.AddInt64(&c.stats.Hits, 1)
	return entry.value, true
}

// Set adds or updates a compiled formula in the cache
func (c *Cache) Set(key string, value *Compiled) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := estimateSize(key, value)
	if size > c.config.MaxSize {
		return fmt.Errorf("item size %d exceeds cache max size %d", size, c.config.MaxSize)
	}

	if ent, ok := c.items[key]; ok {
		c.removeElement(ent)
	}

	for c.stats.Size+size > c.config.MaxSize {
		if !c.evictOldest() {
			return fmt.Errorf("cannot make room for item with size %d", size)
		}
	}

	entry := &cacheEntry{key: key, value: value, size: size}
	if c.config.TTL > 0 {
		entry.expiry = time.Now().Add(c.config.TTL)
	}

	c.items[key] = c.evictList.PushFront(entry)
	atomic.AddInt64(&c.stats.Size, entry.size)

	return nil
}

// Remove removes a key from the cache
func (c *Cache) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.removeElement(ent)
		return true
	}
	return false
}

func (c *Cache) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	entry := e.Value.(*cacheEntry)
	delete(c.items, entry.key)
	atomic.AddInt64(&c.stats.Size, -entry.size)
	atomic.AddInt64(&c.stats.Evictions, 1)

	if c.config.OnEvict != nil {
		c.config.OnEvict(entry.key, entry.value)
	}
}

func (c *Cache) evictOldest() bool {
	if ent := c.evictList.Back(); ent != nil {
		c.removeElement(ent)
		return true
	}
	return false
}

// Len returns the number of items in the cache
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns cache statistics
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Hits:      atomic.LoadInt64(&c.stats.Hits),
		Misses:    atomic.LoadInt64(&c.stats.Misses),
		Evictions: atomic.LoadInt64(&c.stats.Evictions),
		Size:      atomic.LoadInt64(&c.stats.Size),
	}
}

// Close stops the background cleanup routine
func (c *Cache) Close() {
	c.cancel()
}

func (c *Cache) startCleanup(ctx context.Context) {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.PurgeExpired()
		}
	}
}

// PurgeExpired removes all expired items and returns how many were removed
func (c *Cache) PurgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	now := time.Now()
	for _, ent := range c.items {
		entry := ent.Value.(*cacheEntry)
		if !entry.expiry.IsZero() && now.After(entry.expiry) {
			c.removeElement(ent)
			count++
		}
	}

	return count
}
