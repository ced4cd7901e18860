// Package sqlite registers the SQLite database driver, backed by the pure
// Go modernc.org/sqlite.
//
//	import _ "github.com/ncobase/screener/data/sqlite"
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4/database"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/ncobase/screener/data"
	"github.com/ncobase/screener/data/config"

	_ "modernc.org/sqlite" // SQLite driver
)

type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() string {
	return "sqlite"
}

// Connect opens a database file, e.g. file:screener.db?_pragma=foreign_keys(1).
// SQLite allows a single writer, so the pool is capped at one connection.
func (d *driver) Connect(ctx context.Context, cfg *config.Database) (*sql.DB, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("sqlite: connection source is empty")
	}

	db, err := sql.Open("sqlite", cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open connection: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: failed to ping database: %w", err)
	}
	return db, nil
}

// Migrator wraps the database for golang-migrate
func (d *driver) Migrator(db *sql.DB) (database.Driver, error) {
	return migratesqlite.WithInstance(db, &migratesqlite.Config{})
}

func init() {
	data.RegisterDatabaseDriver(&driver{})
}
