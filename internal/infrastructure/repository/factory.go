// Package repository selects the document store backend from configuration.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mrops-br/stock-manager-api/internal/domain"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/cache"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/config"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/repository/cached"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/repository/postgres"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/repository/redis"
	"go.opentelemetry.io/otel/trace"
)

// NewDocumentStore opens the backend named by cfg.Store.Driver and, unless
// cfg.Cache.Driver is "none", wraps it with a read-through cache.
func NewDocumentStore(ctx context.Context, cfg *config.Config, tracer trace.Tracer, logger *slog.Logger) (domain.DocumentStore, error) {
	store, err := openStore(ctx, cfg.Store, tracer, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Cache.Driver == "" || cfg.Cache.Driver == "none" {
		return store, nil
	}

	c, err := cache.New(ctx, cache.Config{
		Driver:     cfg.Cache.Driver,
		Addr:       cfg.Cache.Addr,
		Password:   cfg.Cache.Password,
		DB:         cfg.Cache.DB,
		Prefix:     cfg.Store.Prefix,
		DefaultTTL: cfg.Cache.TTL,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("open cache: %w", err)
	}

	logger.InfoContext(ctx, "Document cache enabled",
		slog.String("driver", cfg.Cache.Driver),
		slog.Duration("ttl", cfg.Cache.TTL),
	)
	return cached.NewDocumentStore(store, c, cfg.Cache.TTL, logger), nil
}

// OpenPostgres connects to Postgres without wrapping; migrate uses it directly.
func OpenPostgres(ctx context.Context, cfg config.StoreConfig, tracer trace.Tracer, logger *slog.Logger) (*postgres.DocumentStore, error) {
	return postgres.Connect(ctx, cfg.DSN, cfg.MaxConns, tracer, logger)
}

func openStore(ctx context.Context, cfg config.StoreConfig, tracer trace.Tracer, logger *slog.Logger) (domain.DocumentStore, error) {
	logger.InfoContext(ctx, "Opening document store", slog.String("driver", cfg.Driver))

	switch cfg.Driver {
	case "", "memory":
		return memory.NewDocumentStore(tracer, logger), nil
	case "postgres":
		store, err := OpenPostgres(ctx, cfg, tracer, logger)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return store, nil
	case "redis":
		store, err := redis.Connect(ctx, redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			Prefix:   cfg.Prefix,
		}, tracer, logger)
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
