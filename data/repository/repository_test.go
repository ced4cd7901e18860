package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/ncobase/screener/data"
	"github.com/ncobase/screener/data/migrations"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// newTestData opens an in-memory sqlite database with the schema applied
func newTestData(t *testing.T) *data.Data {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	stmts, err := migrations.UpStatements("sqlite")
	require.NoError(t, err)
	for _, stmt := range stmts {
		_, err = db.Exec(stmt)
		require.NoError(t, err, stmt)
	}

	return data.NewWithDB(db, "sqlite")
}

func at(sec int64) time.Time {
	return time.Unix(1700000000+sec, 0).UTC()
}

func TestBuilderPlaceholders(t *testing.T) {
	query, _, err := builder("postgres").Select("id").From("formulas").Where("id = ?", "x").ToSql()
	require.NoError(t, err)
	require.Contains(t, query, "$1")

	query, _, err = builder("mysql").Select("id").From("formulas").Where("id = ?", "x").ToSql()
	require.NoError(t, err)
	require.Contains(t, query, "id = ?")
}

func TestWithTxRollback(t *testing.T) {
	ctx := context.Background()
	d := newTestData(t)
	repo := NewFormulaRepository(d)

	err := d.WithTx(ctx, func(ctx context.Context) error {
		if err := repo.Create(ctx, &Formula{ID: "f1", Name: "a", Expression: "price < 100", CreatedAt: at(0), UpdatedAt: at(0)}); err != nil {
			return err
		}
		return sql.ErrTxDone
	})
	require.ErrorIs(t, err, sql.ErrTxDone)

	_, err = repo.Get(ctx, "f1")
	require.ErrorIs(t, err, ErrNotFound)
}
