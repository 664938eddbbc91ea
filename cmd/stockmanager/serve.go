package main

import (
	"context"
	"log/slog"

	"github.com/mrops-br/stock-manager-api/internal/app/repository"
	"github.com/mrops-br/stock-manager-api/internal/app/service"
	"github.com/mrops-br/stock-manager-api/internal/domain"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/auth"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/config"
	httpserver "github.com/mrops-br/stock-manager-api/internal/infrastructure/http"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/http/middleware"
	storefactory "github.com/mrops-br/stock-manager-api/internal/infrastructure/repository"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/telemetry"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply Postgres migrations before serving")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, autoMigrate bool) error {
	var (
		telem *telemetry.Telemetry
		err   error
	)
	if cfg.OTLP.Enabled {
		telem, err = telemetry.NewTelemetry(ctx, cfg)
	} else {
		telem, err = telemetry.NewNoOpTelemetry(ctx, cfg)
	}
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = telem.Shutdown(shutdownCtx)
	}()

	tracer := telem.TracerProvider.Tracer(telemetry.InstrumentationName)
	meter := telem.MeterProvider.Meter(telemetry.InstrumentationName)
	logger := telem.Logger

	logger.Info("Starting Stock Manager API",
		slog.String("store", cfg.Store.Driver),
		slog.String("cache", cfg.Cache.Driver),
	)

	if autoMigrate && cfg.Store.Driver == "postgres" {
		if err := runMigrate(ctx, cfg, logger); err != nil {
			return err
		}
	}

	store, err := storefactory.NewDocumentStore(ctx, cfg, tracer, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	handlers, err := buildHandlers(cfg, store, tracer, meter, logger)
	if err != nil {
		return err
	}

	server := httpserver.NewServer(&cfg.Server, handlers, telem.MeterProvider, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// buildHandlers wires repositories, services and handlers over one store.
func buildHandlers(cfg *config.Config, store domain.DocumentStore, tracer trace.Tracer, meter metric.Meter, logger *slog.Logger) (httpserver.Handlers, error) {
	metrics, err := service.NewMetrics(meter)
	if err != nil {
		return httpserver.Handlers{}, err
	}
	timeout := cfg.Store.Timeout

	products := service.NewEntityService[domain.Product](repository.NewProductRepository(store, timeout, tracer, logger), tracer, metrics, logger)
	branches := service.NewEntityService[domain.Branch](repository.NewBranchRepository(store, timeout, tracer, logger), tracer, metrics, logger)
	inventories := service.NewEntityService[domain.Inventory](repository.NewInventoryRepository(store, timeout, tracer, logger), tracer, metrics, logger)
	purchases := service.NewEntityService[domain.Purchase](repository.NewPurchaseRepository(store, timeout, tracer, logger), tracer, metrics, logger)

	users := repository.NewUserRepository(store, timeout, tracer, logger)
	hasher := auth.NewPasswordHasher(auth.DefaultParams)
	tokens := auth.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(users, auth.NewAuthenticator(users, hasher, logger), tokens, hasher, tracer, metrics, logger)

	return httpserver.Handlers{
		Resources: []httpserver.Resource{
			handler.NewProductHandler(products, logger),
			handler.NewBranchHandler(branches, logger),
			handler.NewInventoryHandler(inventories, logger),
			handler.NewPurchaseHandler(purchases, logger),
		},
		Auth:      handler.NewAuthHandler(authService, logger),
		Protected: middleware.BearerAuth(tokens, logger),
		Health:    store.Ping,
	}, nil
}
