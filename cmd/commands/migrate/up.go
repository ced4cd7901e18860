package migrate

import (
	"fmt"

	"github.com/ncobase/screener/config"
	"github.com/ncobase/screener/data"
	"github.com/spf13/cobra"
)

func newUpCommand(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(cmd.Context(), load, data.MigrateUp); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
