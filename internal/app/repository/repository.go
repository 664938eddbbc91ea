// Package repository implements the create, read, search, upsert and delete
// engine shared by every entity kind.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/stock-manager-api/internal/app/query"
	"github.com/mrops-br/stock-manager-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTimeout bounds every store call when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Options describe one entity kind to the engine.
type Options struct {
	Name       string
	Collection string
	Schema     query.Schema
	NotFound   domain.Error
	// Conflict is reported when the store rejects a duplicate document.
	// Without it such a rejection is unexpected.
	Conflict domain.Error
	Timeout  time.Duration
}

// Repository executes entity operations against a document store. It never
// retries; store failures surface as General.Unexpected.
type Repository[T domain.Entity] struct {
	store  domain.DocumentStore
	opts   Options
	tracer trace.Tracer
	logger *slog.Logger
}

// New creates a repository for one entity kind.
func New[T domain.Entity](store domain.DocumentStore, opts Options, tracer trace.Tracer, logger *slog.Logger) *Repository[T] {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Repository[T]{
		store:  store,
		opts:   opts,
		tracer: tracer,
		logger: logger.With(slog.String("entity", opts.Name)),
	}
}

func NewProductRepository(store domain.DocumentStore, timeout time.Duration, tracer trace.Tracer, logger *slog.Logger) *Repository[domain.Product] {
	return New[domain.Product](store, Options{
		Name:       "product",
		Collection: domain.CollectionProducts,
		Schema:     query.ProductSchema,
		NotFound:   domain.ErrProductNotFound,
		Timeout:    timeout,
	}, tracer, logger)
}

func NewBranchRepository(store domain.DocumentStore, timeout time.Duration, tracer trace.Tracer, logger *slog.Logger) *Repository[domain.Branch] {
	return New[domain.Branch](store, Options{
		Name:       "branch",
		Collection: domain.CollectionBranches,
		Schema:     query.BranchSchema,
		NotFound:   domain.ErrBranchNotFound,
		Timeout:    timeout,
	}, tracer, logger)
}

func NewInventoryRepository(store domain.DocumentStore, timeout time.Duration, tracer trace.Tracer, logger *slog.Logger) *Repository[domain.Inventory] {
	return New[domain.Inventory](store, Options{
		Name:       "inventory",
		Collection: domain.CollectionInventories,
		Schema:     query.InventorySchema,
		NotFound:   domain.ErrInventoryNotFound,
		Timeout:    timeout,
	}, tracer, logger)
}

func NewPurchaseRepository(store domain.DocumentStore, timeout time.Duration, tracer trace.Tracer, logger *slog.Logger) *Repository[domain.Purchase] {
	return New[domain.Purchase](store, Options{
		Name:       "purchase",
		Collection: domain.CollectionPurchases,
		Schema:     query.PurchaseSchema,
		NotFound:   domain.ErrPurchaseNotFound,
		Timeout:    timeout,
	}, tracer, logger)
}

func NewUserRepository(store domain.DocumentStore, timeout time.Duration, tracer trace.Tracer, logger *slog.Logger) *Repository[domain.User] {
	return New[domain.User](store, Options{
		Name:       "user",
		Collection: domain.CollectionUsers,
		Schema:     query.UserSchema,
		NotFound:   domain.ErrUserNotFound,
		Conflict:   domain.ErrUserDuplicateEmail,
		Timeout:    timeout,
	}, tracer, logger)
}

// Name returns the entity kind served by the repository.
func (r *Repository[T]) Name() string { return r.opts.Name }

// Create stores a new entity
func (r *Repository[T]) Create(ctx context.Context, entity T) domain.Result[domain.Created] {
	ctx, span := r.start(ctx, "Create", entity.EntityID())
	defer span.End()

	body, err := json.Marshal(entity)
	if err != nil {
		return unexpected[domain.Created](ctx, r.logger, span, "encode entity", err)
	}

	sctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()
	if err := r.store.Insert(sctx, r.opts.Collection, entity.EntityID(), body); err != nil {
		if conflict, ok := r.conflict(ctx, span, err); ok {
			return domain.Fail[domain.Created](conflict)
		}
		return unexpected[domain.Created](ctx, r.logger, span, "insert document", err)
	}

	r.logger.InfoContext(ctx, "Entity created in repository",
		slog.String("id", entity.EntityID().String()),
	)
	span.SetStatus(codes.Ok, "created")
	return domain.Ok(domain.Created{})
}

// GetByID retrieves a live entity by identifier
func (r *Repository[T]) GetByID(ctx context.Context, id uuid.UUID) domain.Result[T] {
	ctx, span := r.start(ctx, "GetByID", id)
	defer span.End()

	sctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()
	body, err := r.store.FindByID(sctx, r.opts.Collection, id)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		span.SetStatus(codes.Error, "not found")
		r.logger.WarnContext(ctx, "Entity not found", slog.String("id", id.String()))
		return domain.Fail[T](r.opts.NotFound)
	}
	if err != nil {
		return unexpected[T](ctx, r.logger, span, "find document", err)
	}

	var entity T
	if err := json.Unmarshal(body, &entity); err != nil {
		return unexpected[T](ctx, r.logger, span, "decode document", err)
	}

	span.SetStatus(codes.Ok, "found")
	return domain.Ok(entity)
}

// Search translates params and returns every live entity matching all of them.
// An empty match is a success.
func (r *Repository[T]) Search(ctx context.Context, params []domain.SearchParameter) domain.Result[[]T] {
	filter := query.Translate(r.opts.Schema, params)
	if filter.IsError() {
		r.logger.WarnContext(ctx, "Rejected search parameters",
			slog.String("code", filter.FirstError().Code),
			slog.Int("parameters", len(params)),
		)
		return domain.FailWith[[]T](filter)
	}
	return r.Find(ctx, filter.Value())
}

// Find executes an already translated filter.
func (r *Repository[T]) Find(ctx context.Context, filter domain.Filter) domain.Result[[]T] {
	ctx, span := r.tracer.Start(ctx, r.spanName("Find"))
	defer span.End()
	span.SetAttributes(
		attribute.String("entity", r.opts.Name),
		attribute.Int("filter.clauses", len(filter.Equals)),
	)

	sctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()
	bodies, err := r.store.Find(sctx, r.opts.Collection, filter)
	if err != nil {
		return unexpected[[]T](ctx, r.logger, span, "find documents", err)
	}

	out := make([]T, 0, len(bodies))
	for _, body := range bodies {
		var entity T
		if err := json.Unmarshal(body, &entity); err != nil {
			return unexpected[[]T](ctx, r.logger, span, "decode document", err)
		}
		out = append(out, entity)
	}

	span.SetAttributes(attribute.Int("result.count", len(out)))
	r.logger.DebugContext(ctx, "Entities retrieved from repository", slog.Int("count", len(out)))
	span.SetStatus(codes.Ok, "found")
	return domain.Ok(out)
}

// Upsert replaces an existing entity. It never creates: an absent identifier
// yields the entity's NotFound error and leaves the store unchanged. The
// existence check and the write are one conditional store call.
func (r *Repository[T]) Upsert(ctx context.Context, entity T) domain.Result[domain.Upserted] {
	ctx, span := r.start(ctx, "Upsert", entity.EntityID())
	defer span.End()

	body, err := json.Marshal(entity)
	if err != nil {
		return unexpected[domain.Upserted](ctx, r.logger, span, "encode entity", err)
	}

	sctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()
	replaced, err := r.store.ReplaceIfExists(sctx, r.opts.Collection, entity.EntityID(), body)
	if err != nil {
		if conflict, ok := r.conflict(ctx, span, err); ok {
			return domain.Fail[domain.Upserted](conflict)
		}
		return unexpected[domain.Upserted](ctx, r.logger, span, "replace document", err)
	}
	if !replaced {
		span.SetStatus(codes.Error, "not found")
		r.logger.WarnContext(ctx, "Upsert target not found", slog.String("id", entity.EntityID().String()))
		return domain.Fail[domain.Upserted](r.opts.NotFound)
	}

	r.logger.InfoContext(ctx, "Entity replaced in repository", slog.String("id", entity.EntityID().String()))
	span.SetStatus(codes.Ok, "replaced")
	return domain.Ok(domain.Upserted{IsNewlyCreated: false})
}

// Delete soft-deletes an entity. Deleting an absent identifier succeeds.
func (r *Repository[T]) Delete(ctx context.Context, id uuid.UUID) domain.Result[domain.Deleted] {
	ctx, span := r.start(ctx, "Delete", id)
	defer span.End()

	sctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()
	if err := r.store.SoftDelete(sctx, r.opts.Collection, id); err != nil {
		return unexpected[domain.Deleted](ctx, r.logger, span, "delete document", err)
	}

	r.logger.InfoContext(ctx, "Entity deleted in repository", slog.String("id", id.String()))
	span.SetStatus(codes.Ok, "deleted")
	return domain.Ok(domain.Deleted{})
}

func (r *Repository[T]) start(ctx context.Context, op string, id uuid.UUID) (context.Context, trace.Span) {
	ctx, span := r.tracer.Start(ctx, r.spanName(op))
	span.SetAttributes(
		attribute.String("entity", r.opts.Name),
		attribute.String("entity.id", id.String()),
	)
	return ctx, span
}

// conflict maps a store uniqueness rejection onto the entity's Conflict error.
func (r *Repository[T]) conflict(ctx context.Context, span trace.Span, err error) (domain.Error, bool) {
	if r.opts.Conflict.Code == "" || !errors.Is(err, domain.ErrDuplicateDocument) {
		return domain.Error{}, false
	}
	span.SetStatus(codes.Error, "conflict")
	r.logger.WarnContext(ctx, "Store rejected duplicate document", slog.String("code", r.opts.Conflict.Code))
	return r.opts.Conflict, true
}

func (r *Repository[T]) spanName(op string) string {
	return "Repository." + op
}

func unexpected[R any](ctx context.Context, logger *slog.Logger, span trace.Span, msg string, err error) domain.Result[R] {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	logger.ErrorContext(ctx, "Store operation failed",
		slog.String("operation", msg),
		slog.String("error", err.Error()),
	)
	return domain.Fail[R](domain.ErrUnexpected)
}
