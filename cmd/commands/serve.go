package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ncobase/screener/config"
	"github.com/ncobase/screener/logging/logger"
	"github.com/ncobase/screener/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command
func NewServeCommand(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			cleanupLogging, err := setupLogging(cfg)
			if err != nil {
				return err
			}
			defer cleanupLogging()

			shutdownTracer, err := setupTracing(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := shutdownTracer(context.Background()); err != nil {
					logger.Warnf(context.Background(), "failed to shut down tracer: %v", err)
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, cleanup, err := server.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			config.Watch(func(c *config.Config) {
				if c.Logger != nil && c.Logger.Level > 0 {
					logger.StdLogger().SetLevel(logrus.Level(c.Logger.Level))
				}
				logger.Infof(context.Background(), "configuration reloaded")
			}, func(err error) {
				logger.Errorf(context.Background(), "failed to reload configuration: %v", err)
			})

			return srv.Run(ctx)
		},
	}
}
