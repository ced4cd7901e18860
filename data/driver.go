package data

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/golang-migrate/migrate/v4/database"
	"github.com/ncobase/screener/data/config"
)

// DatabaseDriver opens relational databases of one dialect.
// Drivers register themselves from init, following database/sql:
//
//	import _ "github.com/ncobase/screener/data/postgres"
type DatabaseDriver interface {
	// Name returns the driver identifier used in configuration files
	Name() string

	// Connect opens and pings a connection pool
	Connect(ctx context.Context, cfg *config.Database) (*sql.DB, error)

	// Migrator wraps an open pool for golang-migrate
	Migrator(db *sql.DB) (database.Driver, error)
}

var (
	databaseDrivers   = make(map[string]DatabaseDriver)
	databaseDriversMu sync.RWMutex
)

// RegisterDatabaseDriver makes a database driver available by the provided name.
// It panics if called twice with the same name or with a nil driver.
func RegisterDatabaseDriver(driver DatabaseDriver) {
	databaseDriversMu.Lock()
	defer databaseDriversMu.Unlock()

	if driver == nil {
		panic("data: RegisterDatabaseDriver driver is nil")
	}

	name := driver.Name()
	if name == "" {
		panic("data: RegisterDatabaseDriver driver name is empty")
	}
	if _, exists := databaseDrivers[name]; exists {
		panic(fmt.Sprintf("data: RegisterDatabaseDriver called twice for driver %s", name))
	}

	databaseDrivers[name] = driver
}

// GetDatabaseDriver returns the driver registered under name
func GetDatabaseDriver(name string) (DatabaseDriver, error) {
	databaseDriversMu.RLock()
	defer databaseDriversMu.RUnlock()

	driver, ok := databaseDrivers[name]
	if !ok {
		return nil, fmt.Errorf("data: unknown database driver %q (registered: %v)", name, registeredNames())
	}
	return driver, nil
}

func registeredNames() []string {
	names := make([]string, 0, len(databaseDrivers))
	for name := range databaseDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPool applies the pool limits of cfg to db
func ApplyPool(db *sql.DB, cfg *config.Database) {
	if cfg.MaxIdleConn > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConn)
	}
	if cfg.MaxOpenConn > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConn)
	}
	if cfg.ConnMaxLifeTime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifeTime)
	}
}
