package service_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/mrops-br/stock-manager-api/internal/app/repository"
	"github.com/mrops-br/stock-manager-api/internal/app/service"
	"github.com/mrops-br/stock-manager-api/internal/domain"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	tracer = noop.NewTracerProvider().Tracer("test")
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func newMetrics(t *testing.T) *service.Metrics {
	t.Helper()
	m, err := service.NewMetrics(metricnoop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	return m
}

func newStore() *memory.DocumentStore {
	return memory.NewDocumentStore(tracer, logger)
}

func newBranchService(t *testing.T) (*service.EntityService[domain.Branch], *memory.DocumentStore) {
	t.Helper()
	store := newStore()
	repo := repository.NewBranchRepository(store, 0, tracer, logger)
	return service.NewEntityService[domain.Branch](repo, tracer, newMetrics(t), logger), store
}
