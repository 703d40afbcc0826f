package storage

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"
)

const (
	schemaVersion = "1.0"
	lockTimeout   = 5 * time.Second
)

// IDCache is a persisted map from normalized channel references to canonical
// channel IDs. It satisfies the resolver's cache contract: reads before any
// network lookup, write-back on miss. The file lock guards against concurrent
// runs; in-process access is guarded by a mutex, last writer wins.
type IDCache struct {
	path string
	lock *FileLock
	data *cacheData
	mu   sync.RWMutex
}

// cacheData is the top-level JSON structure.
type cacheData struct {
	Version   string                 `json:"version"`
	UpdatedAt time.Time              `json:"updated_at"`
	Channels  map[string]*cacheEntry `json:"channels"`
}

// cacheEntry records one resolved reference.
type cacheEntry struct {
	ChannelID  string    `json:"channel_id"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// OpenIDCache loads the cache at path, creating an empty one if the file
// does not exist. The cache holds an exclusive file lock until Close.
func OpenIDCache(path string) (*IDCache, error) {
	c := &IDCache{
		path: path,
		lock: NewFileLock(path),
	}

	if err := c.lock.Lock(lockTimeout); err != nil {
		return nil, err
	}

	if err := c.load(); err != nil {
		c.lock.Unlock()
		return nil, err
	}

	return c, nil
}

// load reads the JSON file into memory. Creates empty data if the file
// doesn't exist.
func (c *IDCache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.data = &cacheData{
				Version:  schemaVersion,
				Channels: make(map[string]*cacheEntry),
			}
			return nil
		}
		return &StorageError{Op: "read", Path: c.path, Err: err}
	}

	c.data = &cacheData{}
	if err := json.Unmarshal(data, c.data); err != nil {
		return &StorageError{Op: "read", Path: c.path, Err: ErrStorageCorrupt}
	}
	if c.data.Channels == nil {
		c.data.Channels = make(map[string]*cacheEntry)
	}
	return nil
}

// Get returns the cached channel ID for a normalized reference.
func (c *IDCache) Get(reference string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.data.Channels[reference]
	if !ok {
		return "", false
	}
	return entry.ChannelID, true
}

// Put records a resolved reference. The write is in-memory until Save.
func (c *IDCache) Put(reference, channelID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Channels[reference] = &cacheEntry{
		ChannelID:  channelID,
		ResolvedAt: time.Now().UTC(),
	}
}

// Len returns the number of cached references.
func (c *IDCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data.Channels)
}

// Save persists the cache to disk atomically.
func (c *IDCache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data.UpdatedAt = time.Now().UTC()
	c.data.Version = schemaVersion

	writer, err := NewAtomicWriter(c.path)
	if err != nil {
		return &StorageError{Op: "write", Path: c.path, Err: err}
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(c.data); err != nil {
		writer.Abort()
		return &StorageError{Op: "write", Path: c.path, Err: err}
	}

	if err := writer.Commit(); err != nil {
		return &StorageError{Op: "write", Path: c.path, Err: err}
	}
	return nil
}

// Close releases the file lock. It does not save; callers own the explicit
// load-at-start/save-at-end lifecycle.
func (c *IDCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lock.Unlock()
}
