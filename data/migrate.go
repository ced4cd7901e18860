package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/ncobase/screener/data/migrations"
	"github.com/ncobase/screener/logging/logger"
)

// MigrateDirection selects the migration direction
type MigrateDirection string

const (
	MigrateUp   MigrateDirection = "up"
	MigrateDown MigrateDirection = "down"
)

// Migrate applies the embedded migrations of the database dialect.
// Down rolls back a single step.
func (d *Data) Migrate(ctx context.Context, direction MigrateDirection) error {
	if d.driver == nil {
		return fmt.Errorf("data: no migration driver for dialect %q", d.Dialect)
	}

	src, err := iofs.New(migrations.FS, d.Dialect)
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}
	defer src.Close()

	dbDriver, err := d.driver.Migrator(d.DB)
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, d.Dialect, dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	switch direction {
	case MigrateUp:
		err = m.Up()
	case MigrateDown:
		err = m.Steps(-1)
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Debugf(ctx, "migrations %s: no change", direction)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations %s: %w", direction, err)
	}

	version, dirty, _ := m.Version()
	logger.Infof(ctx, "migrations %s applied, version %d, dirty %v", direction, version, dirty)
	return nil
}
