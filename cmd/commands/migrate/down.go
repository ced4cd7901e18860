package migrate

import (
	"fmt"

	"github.com/ncobase/screener/config"
	"github.com/ncobase/screener/data"
	"github.com/spf13/cobra"
)

func newDownCommand(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Rollback the last migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(cmd.Context(), load, data.MigrateDown); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "rolled back one migration")
			return nil
		},
	}
}
