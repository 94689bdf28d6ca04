package kvstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
)

// FileStore persists each key as a JSON file in a directory.
// Suited to CLI usage where the board lives under ~/.local/share or similar.
//
// Keys are hashed to derive file names, so any string is a valid key.
// Writes go through a temp file and rename so readers never observe a
// partially written value.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir.
// The directory is created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *FileStore) Dir() string { return s.dir }

// Get retrieves values for the given keys. Missing keys are omitted.
func (s *FileStore) Get(ctx context.Context, keys ...string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		data, err := os.ReadFile(s.path(k))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[k] = data
	}
	return out, nil
}

// Set stores all given key→value pairs.
func (s *FileStore) Set(ctx context.Context, values map[string][]byte) error {
	for k, v := range values {
		path := s.path(k)
		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, v, 0o644); err != nil {
			return err
		}
		if err := os.Rename(tmp, path); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the given keys.
func (s *FileStore) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		err := os.Remove(s.path(k))
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Close does nothing for a file store.
func (s *FileStore) Close() error { return nil }

// path converts a key to a file path via SHA-256, avoiding filesystem
// special characters in keys.
func (s *FileStore) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json")
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
