package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/mrops-br/stock-manager-api/internal/infrastructure/config"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/repository"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/telemetry"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace/noop"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the Postgres document tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			logger := telemetry.NewLogger(os.Stdout, cfg.Log.Level, &cfg.OTLP)
			return runMigrate(cmd.Context(), cfg, logger)
		},
	}
}

func runMigrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.Store.Driver != "postgres" {
		return errors.New("migrate: store driver is not postgres")
	}

	store, err := repository.OpenPostgres(ctx, cfg.Store, noop.NewTracerProvider().Tracer(""), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Migrations applied")
	return nil
}
