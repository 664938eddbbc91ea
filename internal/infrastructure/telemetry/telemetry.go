package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mrops-br/stock-manager-api/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	ServiceVersion = "1.0.0"
	// InstrumentationName names the tracer and meter of the service.
	InstrumentationName = "github.com/mrops-br/stock-manager-api"
)

// Telemetry holds all OpenTelemetry components
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Logger         *slog.Logger
	conn           *grpc.ClientConn
}

// NewTelemetry initializes tracing and metrics export over OTLP gRPC.
func NewTelemetry(ctx context.Context, cfg *config.Config) (*Telemetry, error) {
	logger := NewLogger(os.Stdout, cfg.Log.Level, &cfg.OTLP)

	logger.Info("Initializing OpenTelemetry",
		slog.String("endpoint", cfg.OTLP.Endpoint),
		slog.String("service_name", cfg.OTLP.ServiceName),
	)

	res, err := newResource(ctx, &cfg.OTLP)
	if err != nil {
		return nil, err
	}

	conn, err := grpc.NewClient(cfg.OTLP.Endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	tp, err := initTracerProvider(ctx, conn, res)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	logger.Info("Tracer provider initialized successfully")

	mp, err := initMeterProvider(ctx, conn, res)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}
	otel.SetMeterProvider(mp)
	logger.Info("Meter provider initialized successfully (OTLP + Prometheus exporters)")

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Logger:         logger,
		conn:           conn,
	}, nil
}

// NewNoOpTelemetry keeps spans in process and metrics on /metrics only.
func NewNoOpTelemetry(ctx context.Context, cfg *config.Config) (*Telemetry, error) {
	logger := NewLogger(os.Stdout, cfg.Log.Level, &cfg.OTLP)

	res, err := newResource(ctx, &cfg.OTLP)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithResource(res))

	mp, err := initPrometheusMeterProvider(res)
	if err != nil {
		return nil, err
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	logger.Info("Telemetry initialized in no-op mode (export disabled)")

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Logger:         logger,
	}, nil
}

// Shutdown flushes and stops every provider, reporting all failures.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	t.Logger.InfoContext(ctx, "Shutting down OpenTelemetry")

	var errs []error
	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		t.Logger.ErrorContext(ctx, "Failed to shutdown tracer provider", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	if err := t.MeterProvider.Shutdown(ctx); err != nil {
		t.Logger.ErrorContext(ctx, "Failed to shutdown meter provider", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	if t.conn != nil {
		if err := t.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	t.Logger.InfoContext(ctx, "OpenTelemetry shutdown successfully")
	return nil
}
