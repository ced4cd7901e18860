package sqlite

import (
	"context"
	"testing"

	"github.com/ncobase/screener/data"
	"github.com/ncobase/screener/data/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, d *data.Data, name string) bool {
	t.Helper()
	var n int
	err := d.DB.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestNewMigratesSchema(t *testing.T) {
	ctx := context.Background()
	d, cleanup, err := data.New(ctx, &config.Config{
		Database: &config.Database{Driver: "sqlite", Source: ":memory:", Migrate: true},
	})
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, "sqlite", d.Dialect)
	for _, table := range []string{"formulas", "screening_results", "bond_cache"} {
		assert.True(t, tableExists(t, d, table), table)
	}

	// Up again is a no-op
	require.NoError(t, d.Migrate(ctx, data.MigrateUp))

	require.NoError(t, d.Migrate(ctx, data.MigrateDown))
	assert.False(t, tableExists(t, d, "bond_cache"))
	assert.True(t, tableExists(t, d, "formulas"))

	require.NoError(t, d.Health(ctx))
}

func TestConnectRequiresSource(t *testing.T) {
	_, err := (&driver{}).Connect(context.Background(), &config.Database{Driver: "sqlite"})
	assert.Error(t, err)
}

func TestRegistered(t *testing.T) {
	drv, err := data.GetDatabaseDriver("sqlite")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", drv.Name())

	_, err = data.GetDatabaseDriver("oracle")
	assert.Error(t, err)
}
