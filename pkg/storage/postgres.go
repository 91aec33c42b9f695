package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/Mark0025/peterental/pkg/lifecycle"
)

//go:embed migrations/*.sql
var migrations embed.FS

type postgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func newPostgres(db *sql.DB, logger *slog.Logger) (System, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection required")
	}
	return &postgresStore{db: db, logger: logger}, nil
}

// Start applies pending migrations. It must run after the database system
// has verified connectivity.
func (p *postgresStore) Start(lc *lifecycle.Coordinator) error {
	p.logger.Info("starting storage system")

	if err := p.migrate(); err != nil {
		return err
	}

	p.logger.Info("storage migrations applied")
	return nil
}

func (p *postgresStore) migrate() error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := migratepgx.WithInstance(p.db, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (p *postgresStore) Store(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO blobs (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, data,
	)
	if err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func (p *postgresStore) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	var data []byte
	err := p.db.QueryRowContext(ctx, "SELECT value FROM blobs WHERE key = $1", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("retrieve %s: %w", key, err)
	}
	return data, nil
}

func (p *postgresStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if _, err := p.db.ExecContext(ctx, "DELETE FROM blobs WHERE key = $1", key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (p *postgresStore) Validate(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	var exists bool
	err := p.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM blobs WHERE key = $1)", key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("validate %s: %w", key, err)
	}
	return exists, nil
}
