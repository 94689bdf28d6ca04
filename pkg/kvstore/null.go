package kvstore

import "context"

// NullStore discards all writes and returns no values.
// Useful for tests and for running the engine without persistence.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore { return &NullStore{} }

// Get returns an empty result for any keys.
func (s *NullStore) Get(ctx context.Context, keys ...string) (map[string][]byte, error) {
	return map[string][]byte{}, nil
}

// Set does nothing.
func (s *NullStore) Set(ctx context.Context, values map[string][]byte) error { return nil }

// Delete does nothing.
func (s *NullStore) Delete(ctx context.Context, keys ...string) error { return nil }

// Close does nothing.
func (s *NullStore) Close() error { return nil }

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)
