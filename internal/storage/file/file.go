// Package file persists collections as JSON files under a base directory,
// one file per collection key. Writes go through a temp file and rename so a
// crash mid-save never leaves a truncated document behind.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cashbook/internal/storage"
)

type Store struct {
	dir string
}

// New creates the base directory if needed and returns a file store.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *Store) Load(_ context.Context, key string) (storage.Document, error) {
	b, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return storage.Empty(), nil
	}
	if err != nil {
		return storage.Document{}, fmt.Errorf("read %s: %w", key, err)
	}
	var doc storage.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return storage.Document{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return storage.Migrate(key, doc)
}

func (s *Store) Save(_ context.Context, key string, doc storage.Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	tmp, err := os.CreateTemp(s.dir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}
