// Package commands implements the screener command line.
package commands

import (
	"context"
	"fmt"

	"github.com/ncobase/screener/cmd/commands/migrate"
	"github.com/ncobase/screener/config"
	"github.com/ncobase/screener/logging/logger"
	"github.com/ncobase/screener/logging/observes"
	"github.com/ncobase/screener/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "screener",
		Short:         "Convertible bond screening with boolean formulas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "conf", "c", "", "config file path (default searches ./config.yaml, ./configs/config.yaml)")

	load := func() (*config.Config, error) {
		return config.Init(configFile)
	}

	rootCmd.AddCommand(
		NewServeCommand(load),
		NewValidateCommand(),
		NewNormalizeCommand(),
		NewFieldsCommand(),
		NewScreenCommand(load),
		migrate.NewCommand(load),
		NewVersionCommand(),
	)

	return rootCmd
}

// setupLogging configures the standard logger and error reporting. The
// returned function flushes them.
func setupLogging(cfg *config.Config) (func(), error) {
	logger.StdLogger().SetVersion(version.GetVersionInfo().Version)
	cleanupLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	var sentryOpt *observes.SentryOptions
	if s := cfg.Observes.Sentry; s != nil {
		sentryOpt = &observes.SentryOptions{
			Dsn:         s.Endpoint,
			Name:        cfg.AppName,
			Release:     releaseOr(s.Release),
			Environment: envOr(s.Environment, cfg.RunMode),
			SampleRate:  s.SampleRate,
		}
	}
	flushSentry, err := observes.NewSentry(sentryOpt)
	if err != nil {
		cleanupLogger()
		return nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	return func() {
		flushSentry()
		cleanupLogger()
	}, nil
}

// setupTracing installs the OTLP tracer provider when an endpoint is set
func setupTracing(cfg *config.Config) (func(context.Context) error, error) {
	t := cfg.Observes.Tracer
	if t == nil {
		return func(context.Context) error { return nil }, nil
	}
	name := t.ServiceName
	if name == "" {
		name = cfg.AppName
	}
	return observes.NewTracer(&observes.TracerOption{
		URL:                t.Endpoint,
		Name:               name,
		Version:            version.GetVersionInfo().Version,
		Environment:        envOr(t.Environment, cfg.RunMode),
		SamplingRate:       t.SamplingRate,
		BatchTimeout:       t.BatchTimeout,
		ExportTimeout:      t.ExportTimeout,
		MaxExportBatchSize: t.MaxExportBatchSize,
	})
}

func envOr(env, fallback string) string {
	if env != "" {
		return env
	}
	return fallback
}

func releaseOr(release string) string {
	if release != "" {
		return release
	}
	return version.GetVersionInfo().Version
}
