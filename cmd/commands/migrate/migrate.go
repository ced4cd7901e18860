// Package migrate implements the database migration commands.
package migrate

import (
	"context"
	"fmt"

	"github.com/ncobase/screener/config"
	"github.com/ncobase/screener/data"
	"github.com/spf13/cobra"

	_ "github.com/ncobase/screener/data/mysql"
	_ "github.com/ncobase/screener/data/postgres"
	_ "github.com/ncobase/screener/data/sqlite"
)

// NewCommand creates a new migrate command
func NewCommand(load func() (*config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "migrate",
		Args:    cobra.NoArgs,
		Aliases: []string{"m"},
		Short:   "Database migration commands",
		Long:    `Apply or roll back the embedded schema migrations.`,
	}

	cmd.AddCommand(
		newUpCommand(load),
		newDownCommand(load),
	)

	return cmd
}

// run opens the configured database without auto migration and applies direction
func run(ctx context.Context, load func() (*config.Config, error), direction data.MigrateDirection) error {
	cfg, err := load()
	if err != nil {
		return err
	}
	if cfg.Data == nil || cfg.Data.Database == nil {
		return fmt.Errorf("database configuration is missing")
	}

	dataCfg := *cfg.Data
	db := *cfg.Data.Database
	db.Migrate = false
	dataCfg.Database = &db
	dataCfg.Redis = nil

	d, cleanup, err := data.New(ctx, &dataCfg)
	if err != nil {
		return err
	}
	defer cleanup()

	return d.Migrate(ctx, direction)
}
