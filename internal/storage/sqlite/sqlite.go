// Package sqlite persists collections in a single SQLite database, one row
// per collection key holding the versioned JSON document.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cashbook/internal/storage"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Load(ctx context.Context, key string) (storage.Document, error) {
	var version int
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT version, payload FROM collections WHERE key = ?`, key,
	).Scan(&version, &payload)
	if err == sql.ErrNoRows {
		return storage.Empty(), nil
	}
	if err != nil {
		return storage.Document{}, fmt.Errorf("load collection %s: %w", key, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(payload, &records); err != nil {
		return storage.Document{}, fmt.Errorf("decode collection %s: %w", key, err)
	}
	return storage.Migrate(key, storage.Document{Version: version, Records: records})
}

func (s *Store) Save(ctx context.Context, key string, doc storage.Document) error {
	payload, err := json.Marshal(doc.Records)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO collections (key, version, payload, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET
		   version = excluded.version,
		   payload = excluded.payload,
		   updated_at = excluded.updated_at`,
		key, doc.Version, payload,
	)
	if err != nil {
		return fmt.Errorf("save collection %s: %w", key, err)
	}
	return nil
}
