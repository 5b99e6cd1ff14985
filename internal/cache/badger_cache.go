package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/lynva/lynva-tui/pkg/api/interfaces"
)

const gcInterval = 5 * time.Minute

// BadgerCache persists entries in a badger database. Expiry uses badger's
// native entry TTL, so expired keys are invisible to reads and reclaimed by
// compaction.
type BadgerCache struct {
	db     *badger.DB
	logger interfaces.Logger

	stopGC    chan struct{}
	closeOnce sync.Once
}

// NewBadgerCache opens (or creates) the database in dir.
func NewBadgerCache(dir string, logger interfaces.Logger) (*BadgerCache, error) {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	opts.ValueLogFileSize = 1 << 20

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database (another instance may be running): %w", err)
	}

	c := &BadgerCache{
		db:     db,
		logger: logger,
		stopGC: make(chan struct{}),
	}

	go c.runGC()

	return c, nil
}

// NewInMemoryBadgerCache opens a badger database without a directory. Tests use it.
func NewInMemoryBadgerCache() (*BadgerCache, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory badger database: %w", err)
	}

	c := &BadgerCache{
		db:     db,
		logger: &interfaces.NoOpLogger{},
		stopGC: make(chan struct{}),
	}

	go c.runGC()

	return c, nil
}

func (c *BadgerCache) runGC() {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				c.logger.Debug("Badger value log GC failed: %v", err)
			}
		case <-c.stopGC:
			return
		}
	}
}

// Get unmarshals the value under key into dest.
func (c *BadgerCache) Get(key string, dest interface{}) (bool, error) {
	found := false

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}

		if err != nil {
			return err
		}

		found = true

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
	if err != nil {
		return false, fmt.Errorf("badger get %s: %w", key, err)
	}

	if found {
		c.logger.Debug("Cache hit for: %s", key)
	} else {
		c.logger.Debug("Cache miss for: %s", key)
	}

	return found, nil
}

// Set stores value under key. A ttl of 0 never expires.
func (c *BadgerCache) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache entry %s: %w", key, err)
	}

	entry := badger.NewEntry([]byte(key), data)
	if ttl > 0 {
		entry = entry.WithTTL(ttl)
	}

	if err := c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(entry)
	}); err != nil {
		return fmt.Errorf("badger set %s: %w", key, err)
	}

	c.logger.Debug("Cached %s with TTL %v", key, ttl)

	return nil
}

// Delete removes key.
func (c *BadgerCache) Delete(key string) error {
	if err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	}); err != nil {
		return fmt.Errorf("badger delete %s: %w", key, err)
	}

	return nil
}

// Clear drops every key.
func (c *BadgerCache) Clear() error {
	c.logger.Debug("Clearing badger cache")

	return c.db.DropAll()
}

// DeletePrefix removes every key starting with prefix.
func (c *BadgerCache) DeletePrefix(prefix string) error {
	return c.db.DropPrefix([]byte(prefix))
}

// Close stops background GC and closes the database.
func (c *BadgerCache) Close() error {
	var err error

	c.closeOnce.Do(func() {
		close(c.stopGC)
		err = c.db.Close()
	})

	return err
}
