// Package backend picks and opens the persistence backend named by the
// configuration. Both binaries go through it so they agree on how a
// backend is wired.
package backend

import (
	"fmt"

	"cashbook/internal/config"
	"cashbook/internal/log"
	"cashbook/internal/storage"
	"cashbook/internal/storage/file"
	"cashbook/internal/storage/memory"
	"cashbook/internal/storage/sqlite"
)

// CleanupFunc releases backend resources. May be nil.
type CleanupFunc func() error

// Open builds the store the config asks for. The sqlite backend runs its
// schema migrations before returning.
func Open(cfg *config.Config, logger *log.Logger) (storage.Store, CleanupFunc, error) {
	logger = logger.WithComponent(log.ComponentStorage)

	switch cfg.DataBackend {
	case "memory":
		logger.Info("Initialized memory backend", log.FieldBackend, cfg.DataBackend)
		return memory.New(), nil, nil

	case "file":
		store, err := file.New(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize file backend: %w", err)
		}
		logger.Info("Initialized file backend",
			log.FieldBackend, cfg.DataBackend,
			"data_dir", cfg.DataDir)
		return store, nil, nil

	case "sqlite":
		store, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized sqlite backend",
			log.FieldBackend, cfg.DataBackend,
			"db_path", cfg.SQLiteDBPath)
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}
