package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mrops-br/stock-manager-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// EntityRepository is the persistence contract the service drives.
type EntityRepository[T domain.Entity] interface {
	Name() string
	Create(ctx context.Context, entity T) domain.Result[domain.Created]
	GetByID(ctx context.Context, id uuid.UUID) domain.Result[T]
	Search(ctx context.Context, params []domain.SearchParameter) domain.Result[[]T]
	Upsert(ctx context.Context, entity T) domain.Result[domain.Upserted]
	Delete(ctx context.Context, id uuid.UUID) domain.Result[domain.Deleted]
}

// EntityService handles the create/read/search/upsert/delete use cases of one
// entity kind.
type EntityService[T domain.Entity] struct {
	repo    EntityRepository[T]
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics *Metrics
}

func NewEntityService[T domain.Entity](repo EntityRepository[T], tracer trace.Tracer, metrics *Metrics, logger *slog.Logger) *EntityService[T] {
	return &EntityService[T]{
		repo:    repo,
		tracer:  tracer,
		logger:  logger.With(slog.String("entity", repo.Name())),
		metrics: metrics,
	}
}

// Create persists an entity that went through its validator. A failed
// validation result is returned unchanged without touching the store.
func (s *EntityService[T]) Create(ctx context.Context, validated domain.Result[T]) domain.Result[T] {
	ctx, span := s.start(ctx, "Create")
	defer span.End()

	if validated.IsError() {
		return fail[T](ctx, s, span, "create", validated.Errors())
	}

	entity := validated.Value()
	span.SetAttributes(attribute.String("entity.id", entity.EntityID().String()))

	s.logger.InfoContext(ctx, "Creating entity", slog.String("id", entity.EntityID().String()))

	if created := s.repo.Create(ctx, entity); created.IsError() {
		return fail[T](ctx, s, span, "create", created.Errors())
	}

	s.metrics.recordCreated(ctx, s.repo.Name())
	s.metrics.recordOperation(ctx, s.repo.Name(), "create", nil)
	s.logger.InfoContext(ctx, "Entity created successfully", slog.String("id", entity.EntityID().String()))
	span.SetStatus(codes.Ok, "created")
	return domain.Ok(entity)
}

func (s *EntityService[T]) GetByID(ctx context.Context, id uuid.UUID) domain.Result[T] {
	ctx, span := s.start(ctx, "GetByID")
	defer span.End()
	span.SetAttributes(attribute.String("entity.id", id.String()))

	found := s.repo.GetByID(ctx, id)
	if found.IsError() {
		return fail[T](ctx, s, span, "read", found.Errors())
	}

	s.metrics.recordOperation(ctx, s.repo.Name(), "read", nil)
	span.SetStatus(codes.Ok, "found")
	return found
}

func (s *EntityService[T]) Search(ctx context.Context, params []domain.SearchParameter) domain.Result[[]T] {
	ctx, span := s.start(ctx, "Search")
	defer span.End()
	span.SetAttributes(attribute.Int("search.parameters", len(params)))

	found := s.repo.Search(ctx, params)
	if found.IsError() {
		return fail[[]T](ctx, s, span, "search", found.Errors())
	}

	span.SetAttributes(attribute.Int("result.count", len(found.Value())))
	s.metrics.recordOperation(ctx, s.repo.Name(), "search", nil)
	s.logger.InfoContext(ctx, "Search completed", slog.Int("count", len(found.Value())))
	span.SetStatus(codes.Ok, "searched")
	return found
}

// Upsert replaces an existing entity; an unknown identifier yields NotFound.
func (s *EntityService[T]) Upsert(ctx context.Context, validated domain.Result[T]) domain.Result[domain.Upserted] {
	ctx, span := s.start(ctx, "Upsert")
	defer span.End()

	if validated.IsError() {
		return fail[domain.Upserted](ctx, s, span, "upsert", validated.Errors())
	}

	entity := validated.Value()
	span.SetAttributes(attribute.String("entity.id", entity.EntityID().String()))

	upserted := s.repo.Upsert(ctx, entity)
	if upserted.IsError() {
		return fail[domain.Upserted](ctx, s, span, "upsert", upserted.Errors())
	}

	s.metrics.recordOperation(ctx, s.repo.Name(), "upsert", nil)
	s.logger.InfoContext(ctx, "Entity upserted successfully",
		slog.String("id", entity.EntityID().String()),
		slog.Bool("created", upserted.Value().IsNewlyCreated),
	)
	span.SetStatus(codes.Ok, "upserted")
	return upserted
}

func (s *EntityService[T]) Delete(ctx context.Context, id uuid.UUID) domain.Result[domain.Deleted] {
	ctx, span := s.start(ctx, "Delete")
	defer span.End()
	span.SetAttributes(attribute.String("entity.id", id.String()))

	deleted := s.repo.Delete(ctx, id)
	if deleted.IsError() {
		return fail[domain.Deleted](ctx, s, span, "delete", deleted.Errors())
	}

	s.metrics.recordOperation(ctx, s.repo.Name(), "delete", nil)
	s.logger.InfoContext(ctx, "Entity deleted successfully", slog.String("id", id.String()))
	span.SetStatus(codes.Ok, "deleted")
	return deleted
}

func (s *EntityService[T]) start(ctx context.Context, op string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "EntityService."+op)
	span.SetAttributes(attribute.String("entity", s.repo.Name()))
	return ctx, span
}

func fail[R any, T domain.Entity](ctx context.Context, s *EntityService[T], span trace.Span, operation string, errs domain.Errors) domain.Result[R] {
	first := errs[0]
	span.SetStatus(codes.Error, first.Code)
	span.SetAttributes(attribute.String("error.code", first.Code))

	level := slog.LevelWarn
	if first.Kind == domain.KindUnexpected {
		level = slog.LevelError
	}
	s.logger.Log(ctx, level, "Operation failed",
		slog.String("operation", operation),
		slog.String("code", first.Code),
		slog.Int("errors", len(errs)),
	)
	s.metrics.recordOperation(ctx, s.repo.Name(), operation, errs)
	return domain.Fail[R](errs...)
}
