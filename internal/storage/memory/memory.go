// Package memory is an in-memory Store used by tests and the default dev
// backend. Contents vanish with the process.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"cashbook/internal/storage"
)

type Store struct {
	mu   sync.Mutex
	docs map[string]storage.Document
}

func New() *Store {
	return &Store{docs: make(map[string]storage.Document)}
}

func (s *Store) Load(_ context.Context, key string) (storage.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[key]
	if !ok {
		return storage.Empty(), nil
	}
	return doc, nil
}

func (s *Store) Save(_ context.Context, key string, doc storage.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Copy the record slice so later ledger mutations cannot reach in.
	cp := doc
	cp.Records = append([]json.RawMessage(nil), doc.Records...)
	s.docs[key] = cp
	return nil
}
