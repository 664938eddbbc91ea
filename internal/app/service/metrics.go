package service

import (
	"context"

	"github.com/mrops-br/stock-manager-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the counters shared by every service.
type Metrics struct {
	created    metric.Int64Counter
	operations metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	created, err := meter.Int64Counter(
		"records.created.total",
		metric.WithDescription("Total number of records created"),
	)
	if err != nil {
		return nil, err
	}

	operations, err := meter.Int64Counter(
		"records.operations",
		metric.WithDescription("Total number of record operations"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{created: created, operations: operations}, nil
}

func (m *Metrics) recordCreated(ctx context.Context, entity string) {
	m.created.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", entity)))
}

func (m *Metrics) recordOperation(ctx context.Context, entity, operation string, errs domain.Errors) {
	m.operations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("entity", entity),
			attribute.String("operation", operation),
			attribute.String("result", resultLabel(errs)),
		),
	)
}

func resultLabel(errs domain.Errors) string {
	if len(errs) == 0 {
		return "success"
	}
	switch errs[0].Kind {
	case domain.KindValidation, domain.KindInvalidQuery:
		return "invalid"
	case domain.KindNotFound:
		return "not_found"
	case domain.KindConflict:
		return "conflict"
	case domain.KindUnauthorized:
		return "unauthorized"
	default:
		return "failure"
	}
}
