// Package data owns the connections of the persistence layer: the
// relational database with its migrations and the optional Redis client.
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/ncobase/screener/data/config"
	"github.com/ncobase/screener/logging/logger"
	"github.com/redis/go-redis/v9"
)

type contextKey string

const contextKeyTransaction contextKey = "tx"

// Querier is satisfied by *sql.DB and *sql.Tx
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Data represents the data layer implementation
type Data struct {
	DB      *sql.DB
	Dialect string
	Redis   *redis.Client

	driver DatabaseDriver
	mu     sync.RWMutex
	closed bool
}

// New opens the configured database, applies migrations when enabled and
// connects to Redis when an address is configured. The returned cleanup
// closes every connection.
func New(ctx context.Context, cfg *config.Config) (*Data, func(), error) {
	if cfg == nil || cfg.Database == nil {
		return nil, nil, errors.New("data: database configuration is missing")
	}

	driver, err := GetDatabaseDriver(cfg.Database.Driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := driver.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	d := &Data{DB: db, Dialect: driver.Name(), driver: driver}

	if cfg.Database.Migrate {
		if err := d.Migrate(ctx, MigrateUp); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}

	if cfg.Redis != nil && cfg.Redis.Addr != "" {
		d.Redis, err = newRedisClient(ctx, cfg.Redis)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}

	cleanup := func() {
		if errs := d.Close(); len(errs) > 0 {
			logger.Errorf(context.Background(), "data cleanup errors: %v", errs)
		}
	}
	return d, cleanup, nil
}

// NewWithDB wraps an already open database, used by tests and tools
func NewWithDB(db *sql.DB, dialect string) *Data {
	d := &Data{DB: db, Dialect: dialect}
	if driver, err := GetDatabaseDriver(dialect); err == nil {
		d.driver = driver
	}
	return d
}

// Conn returns the transaction bound to ctx, or the database
func (d *Data) Conn(ctx context.Context) Querier {
	if tx, ok := ctx.Value(contextKeyTransaction).(*sql.Tx); ok {
		return tx
	}
	return d.DB
}

// WithTx runs fn inside a transaction. Repositories called with the
// context passed to fn share the transaction.
func (d *Data) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	d.mu.RLock()
	closed := d.closed
	d.mu.RUnlock()
	if closed {
		return errors.New("data layer is closed")
	}

	if _, ok := ctx.Value(contextKeyTransaction).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(context.WithValue(ctx, contextKeyTransaction, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %v, rollback err: %v", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

// Health pings every open connection
func (d *Data) Health(ctx context.Context) error {
	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	if d.Redis != nil {
		if err := d.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis health check failed: %w", err)
		}
	}
	return nil
}

// Close closes all connections; it is safe to call more than once
func (d *Data) Close() []error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if err := d.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("database close: %w", err))
	}
	return errs
}
