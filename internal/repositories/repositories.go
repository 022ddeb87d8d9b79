// package repositories provides the SQLite snapshot store.
package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/muswitch/internal/models"
	"github.com/desertthunder/muswitch/internal/shared"
)

// SnapshotStore is the persistence contract the CLI depends on.
type SnapshotStore interface {
	Create(snapshot *models.Snapshot) error
	Get(id string) (*models.Snapshot, error)
	List(criteria map[string]any) ([]*models.Snapshot, error)
	Delete(id string) error
}

var _ SnapshotStore = (*SnapshotRepository)(nil)

// Open opens the database described by cfg, applies pool settings and runs pending migrations.
func Open(cfg shared.DatabaseConfig) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: database path", shared.ErrMissingConfig)
	}

	db, err := shared.NewDatabase(cfg.Path)
	if err != nil {
		return nil, err
	}

	shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Rollback reverts the newest migration of the database described by cfg and returns its version.
func Rollback(cfg shared.DatabaseConfig) (int, error) {
	if cfg.Path == "" {
		return 0, fmt.Errorf("%w: database path", shared.ErrMissingConfig)
	}

	db, err := shared.NewDatabase(cfg.Path)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)
	return shared.RollbackMigration(db)
}
