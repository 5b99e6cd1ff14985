// Package cache stores fetched record sets and the auth session between runs.
//
// The persistent store is a badger database under the cache directory. When
// it cannot be opened (for example while another lynva-tui holds the lock)
// Open falls back to an in-memory LRU so the application still works, just
// without persistence.
package cache

import (
	"container/list"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lynva/lynva-tui/pkg/api/interfaces"
)

// DefaultMemoryEntries bounds the fallback memory cache.
const DefaultMemoryEntries = 256

// Cache is an interfaces.Cache that owns resources.
type Cache interface {
	interfaces.Cache

	// Close releases the underlying store.
	Close() error
}

// Open returns a badger-backed cache in dir/badger, or a memory cache when
// badger cannot be opened. The returned error is non-nil only for the
// fallback case, so callers may log it and carry on.
func Open(dir string, logger interfaces.Logger) (Cache, error) {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	badgerDir := filepath.Join(dir, "badger")
	if err := os.MkdirAll(badgerDir, 0o750); err != nil {
		logger.Error("Failed to create cache directory %s: %v", badgerDir, err)

		return NewMemoryCache(DefaultMemoryEntries), fmt.Errorf("create cache directory: %w", err)
	}

	bc, err := NewBadgerCache(badgerDir, logger)
	if err != nil {
		logger.Error("Badger cache unavailable, using memory cache: %v", err)

		return NewMemoryCache(DefaultMemoryEntries), err
	}

	logger.Debug("Opened badger cache at %s", badgerDir)

	return bc, nil
}

type memoryEntry struct {
	key     string
	data    json.RawMessage
	expires time.Time // zero: never
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// MemoryCache is an LRU cache with per-entry TTL. A maxEntries of 0 means unbounded.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache creates an empty memory cache.
func NewMemoryCache(maxEntries int) *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get unmarshals the entry under key into dest and marks it recently used.
func (c *MemoryCache) Get(key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return false, nil
	}

	entry := el.Value.(*memoryEntry)
	if entry.expired(c.now()) {
		c.removeElement(el)

		return false, nil
	}

	c.order.MoveToFront(el)

	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, fmt.Errorf("unmarshal cache entry %s: %w", key, err)
	}

	return true, nil
}

// Set stores value under key, evicting the least recently used entry when full.
func (c *MemoryCache) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache entry %s: %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var expires time.Time
	if ttl > 0 {
		expires = c.now().Add(ttl)
	}

	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.data = data
		entry.expires = expires
		c.order.MoveToFront(el)

		return nil
	}

	c.entries[key] = c.order.PushFront(&memoryEntry{key: key, data: data, expires: expires})

	if c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		c.removeElement(c.order.Back())
	}

	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.removeElement(el)
	}

	return nil
}

// Clear removes every entry.
func (c *MemoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()

	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

// Close is a no-op.
func (c *MemoryCache) Close() error { return nil }

// removeElement must be called with mu held.
func (c *MemoryCache) removeElement(el *list.Element) {
	if el == nil {
		return
	}

	c.order.Remove(el)
	delete(c.entries, el.Value.(*memoryEntry).key)
}

var (
	_ Cache = (*MemoryCache)(nil)
	_ Cache = (*BadgerCache)(nil)
)
