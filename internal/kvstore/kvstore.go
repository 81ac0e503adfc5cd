// Package kvstore provides the key-value persistence capability the preset
// store is built on: a durable SQLite implementation and an in-memory
// implementation for tests.
package kvstore

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get for keys that have never been set or
// were deleted.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is the minimal persistence capability consumed by the preset
// store. Implementations must be safe for concurrent use.
type KeyValueStore interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all keys with the given prefix, in unspecified order.
	// An empty prefix returns every key.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases underlying resources.
	Close() error
}
