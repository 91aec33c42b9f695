// Package storage provides key/value blob storage behind a single System
// interface. Filesystem, SQLite, PostgreSQL, and Redis drivers are available
// and selected by configuration.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/Mark0025/peterental/pkg/database"
	"github.com/Mark0025/peterental/pkg/lifecycle"
)

// System defines the storage operations interface for blob storage.
type System interface {
	// Store saves data at the specified key, overwriting any existing value.
	// Returns ErrInvalidKey if the key is empty or contains path traversal.
	Store(ctx context.Context, key string, data []byte) error

	// Retrieve returns the data stored at the specified key.
	// Returns ErrNotFound if the key does not exist.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete deletes the data at the specified key.
	// Returns nil if the key does not exist (idempotent).
	Delete(ctx context.Context, key string) error

	// Validate reports whether a key exists and is accessible.
	Validate(ctx context.Context, key string) (bool, error)

	// Start registers lifecycle hooks with the coordinator.
	Start(lc *lifecycle.Coordinator) error
}

// New builds the System named by cfg.Driver. db is only consulted by the
// postgres driver and may be nil otherwise.
func New(cfg *Config, logger *slog.Logger, db database.System) (System, error) {
	logger = logger.With("system", "storage", "driver", cfg.Driver)

	var (
		sys System
		err error
	)

	switch cfg.Driver {
	case DriverFilesystem:
		sys, err = newFilesystem(cfg.BasePath, logger)
	case DriverSQLite:
		sys, err = newSQLite(cfg.SQLite.Path, logger)
	case DriverPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres driver requires a database connection")
		}
		sys, err = newPostgres(db.Connection(), logger)
	case DriverRedis:
		sys, err = newRedis(&cfg.Redis, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	return &limited{System: sys, max: cfg.MaxObjectSizeBytes()}, nil
}

type limited struct {
	System
	max int64
}

func (l *limited) Store(ctx context.Context, key string, data []byte) error {
	if l.max > 0 && int64(len(data)) > l.max {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(data), l.max)
	}
	return l.System.Store(ctx, key, data)
}

// validateKey rejects empty, absolute, and traversing keys for every driver
// so keys stay portable between them.
func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return ErrInvalidKey
	}
	return nil
}
