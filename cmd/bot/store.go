package main

import (
	"fmt"
	"log/slog"

	"github.com/edgard/odinbot/internal/activation"
	"github.com/edgard/odinbot/internal/config"
	"github.com/edgard/odinbot/internal/database"
)

// openStore builds the activation store selected by cfg.Backend.
// The returned close function releases the backend's resources.
func openStore(cfg config.StoreConfig, log *slog.Logger) (activation.KeySetStore, func(), error) {
	switch cfg.Backend {
	case config.BackendMemory:
		log.Warn("Using in-memory activation store, activations are lost on restart")
		return activation.NewMemoryStore(), func() {}, nil

	case config.BackendFile:
		return activation.NewFileStore(cfg.FilePath, log), func() {}, nil

	case config.BackendSQLite:
		db, err := database.NewDB(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return database.NewStore(db, log), func() { database.CloseDB(db) }, nil

	case config.BackendRedis:
		store, err := activation.NewRedisStore(cfg.RedisURL, cfg.RedisKey)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Error("Error closing redis client", "error", err)
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
