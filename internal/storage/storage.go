// Package storage persists resources as whole JSON files under the data
// directory. Every write replaces the entire file via write-to-temp-then-rename,
// which guards against partial writes. There is no isolation between
// concurrent writers: a read-modify-write race loses the earlier update. The
// intended deployment is a single low-traffic instance.
package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// AtomicWrite writes data to a temp file in the same directory and renames it
// over path.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("failed to generate temp suffix: %w", err)
	}
	tmp := filepath.Join(dir, ".tmp-"+filepath.Base(path)+"-"+hex.EncodeToString(buf))
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Repository is a JSON-array-backed collection of T. List reads the whole
// file; ReplaceAll rewrites it atomically. Call sites never touch files
// directly, so the backing store can later be swapped without touching them.
type Repository[T any] struct {
	path string
}

// NewRepository creates a repository backed by the JSON array file at path.
func NewRepository[T any](path string) *Repository[T] {
	return &Repository[T]{path: path}
}

// Path returns the backing file path.
func (r *Repository[T]) Path() string {
	return r.path
}

// List reads all records. A missing or unreadable file yields an empty slice.
func (r *Repository[T]) List() []T {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return []T{}
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// ReplaceAll atomically rewrites the file with the given records.
func (r *Repository[T]) ReplaceAll(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(r.path), err)
	}
	return AtomicWrite(r.path, data)
}

// EnsureFile creates the backing file with an empty array if it does not exist.
func (r *Repository[T]) EnsureFile() error {
	if _, err := os.Stat(r.path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	return AtomicWrite(r.path, []byte("[]"))
}
