// Package infrastructure assembles the systems every entry point needs:
// lifecycle, logging, storage (with its optional database), and the VAPI
// and backend clients.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/Mark0025/peterental/internal/backend"
	"github.com/Mark0025/peterental/internal/config"
	"github.com/Mark0025/peterental/internal/vapi"
	"github.com/Mark0025/peterental/pkg/database"
	"github.com/Mark0025/peterental/pkg/lifecycle"
	"github.com/Mark0025/peterental/pkg/logging"
	"github.com/Mark0025/peterental/pkg/storage"
)

// Infrastructure holds the core systems shared by the server and the CLI.
// Database is nil unless the postgres storage driver is selected.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	VAPI      *vapi.Client
	Backend   *backend.Client
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogger(cfg, logging.New(&cfg.Logging))
}

// NewWithLogger is New with a caller-supplied logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	lc := lifecycle.New()

	var db database.System
	if cfg.Storage.Driver == storage.DriverPostgres {
		var err error
		db, err = database.New(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
	}

	store, err := storage.New(&cfg.Storage, logger, db)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	vapiClient := vapi.New(&cfg.VAPI, logger)
	if !vapiClient.Configured() {
		logger.Warn("vapi api key not configured; sync, import, and assistant endpoints will fail")
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		VAPI:      vapiClient,
		Backend:   backend.New(&cfg.Backend, logger),
	}, nil
}

// Start initializes all infrastructure systems and registers them with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
