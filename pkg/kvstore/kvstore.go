// Package kvstore provides the persistent key-value store used to save and
// load board state (bookmark groups, preview flag).
//
// The interface mirrors the narrow get/set contract of browser extension
// storage: batch reads over a set of keys and batch writes of a key→value
// mapping. Values are opaque byte slices; callers own serialization.
//
// Implementations:
//   - Memory: in-process map for tests and development
//   - File: one JSON file per key on disk, for CLI usage
//   - Redis: shared store for multi-instance deployments
//   - Mongo: document store backend
//   - Null: discards writes, reads nothing
package kvstore

import (
	"context"
	"errors"
)

// Well-known keys used by the group store.
const (
	// KeyGroups holds the serialized bookmark group collection.
	KeyGroups = "bookmarkGroups"

	// KeyShowPreview holds the boolean "show preview" flag.
	KeyShowPreview = "showPreview"
)

// ErrClosed is returned when an operation is attempted on a closed store.
var ErrClosed = errors.New("store closed")

// Store is the interface for persistent key-value backends.
//
// Get returns values for the requested keys; keys with no stored value are
// simply absent from the result map (absence is not an error). Set replaces
// the values for all given keys in one logical write. There is no
// compare-and-swap: concurrent writers are last-write-wins.
type Store interface {
	// Get retrieves the values for the given keys.
	// Missing keys are omitted from the returned map.
	Get(ctx context.Context, keys ...string) (map[string][]byte, error)

	// Set stores all given key→value pairs.
	Set(ctx context.Context, values map[string][]byte) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Close releases any underlying resources.
	Close() error
}
