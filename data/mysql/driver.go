// Package mysql registers the MySQL database driver.
//
//	import _ "github.com/ncobase/screener/data/mysql"
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/ncobase/screener/data"
	"github.com/ncobase/screener/data/config"
)

type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() string {
	return "mysql"
}

// Connect opens a pool on a DSN such as user:pass@tcp(localhost:3306)/screener.
// multiStatements is not needed; each migration file holds one statement.
func (d *driver) Connect(ctx context.Context, cfg *config.Database) (*sql.DB, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("mysql: connection source is empty")
	}

	dsn, err := normalizeDSN(cfg.Source)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql: failed to open connection: %w", err)
	}
	data.ApplyPool(db, cfg)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql: failed to ping database: %w", err)
	}
	return db, nil
}

// normalizeDSN enables parseTime and utf8mb4 on the DSN
func normalizeDSN(source string) (string, error) {
	c, err := gomysql.ParseDSN(source)
	if err != nil {
		return "", fmt.Errorf("mysql: invalid dsn: %w", err)
	}
	c.ParseTime = true
	if c.Params == nil {
		c.Params = map[string]string{}
	}
	if _, ok := c.Params["charset"]; !ok {
		c.Params["charset"] = "utf8mb4"
	}
	return c.FormatDSN(), nil
}

// Migrator wraps the pool for golang-migrate
func (d *driver) Migrator(db *sql.DB) (database.Driver, error) {
	return migratemysql.WithInstance(db, &migratemysql.Config{})
}

func init() {
	data.RegisterDatabaseDriver(&driver{})
}
