// Package storage persists the resolver cache across runs as a JSON file
// with atomic writes and advisory file locking.
package storage

import (
	"errors"
	"fmt"
)

// Sentinel errors for storage operations.
var (
	// ErrStorageCorrupt indicates the cache file could not be parsed.
	ErrStorageCorrupt = errors.New("storage: data corrupt")
	// ErrLockTimeout indicates a timeout acquiring the cache file lock.
	ErrLockTimeout = errors.New("storage: lock timeout")
)

// StorageError wraps a failed storage operation.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
