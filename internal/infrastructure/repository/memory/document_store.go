package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/mrops-br/stock-manager-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type record struct {
	body    []byte
	deleted bool
	seq     uint64
}

// DocumentStore is an in-memory implementation of domain.DocumentStore
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[uuid.UUID]*record
	seq         uint64
	tracer      trace.Tracer
	logger      *slog.Logger
}

var _ domain.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates a new in-memory document store
func NewDocumentStore(tracer trace.Tracer, logger *slog.Logger) *DocumentStore {
	return &DocumentStore{
		collections: make(map[string]map[uuid.UUID]*record),
		tracer:      tracer,
		logger:      logger,
	}
}

// Insert stores a new document
func (s *DocumentStore) Insert(ctx context.Context, collection string, id uuid.UUID, body []byte) error {
	ctx, span := s.start(ctx, "Insert", collection, id)
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collection(collection)
	if _, exists := docs[id]; exists {
		err := fmt.Errorf("memory: duplicate id %s in %s", id, collection)
		span.RecordError(err)
		span.SetStatus(codes.Error, "duplicate id")
		return err
	}
	s.seq++
	docs[id] = &record{body: clone(body), seq: s.seq}

	s.logger.DebugContext(ctx, "Document inserted in memory store",
		slog.String("collection", collection),
		slog.String("id", id.String()),
	)
	span.SetStatus(codes.Ok, "inserted")
	return nil
}

// FindByID retrieves a live document by ID
func (s *DocumentStore) FindByID(ctx context.Context, collection string, id uuid.UUID) ([]byte, error) {
	ctx, span := s.start(ctx, "FindByID", collection, id)
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.collections[collection][id]
	if !exists || rec.deleted {
		span.SetStatus(codes.Error, "document not found")
		return nil, domain.ErrDocumentNotFound
	}

	span.SetStatus(codes.Ok, "document found")
	return clone(rec.body), nil
}

// Find returns matching documents in insertion order
func (s *DocumentStore) Find(ctx context.Context, collection string, filter domain.Filter) ([][]byte, error) {
	ctx, span := s.tracer.Start(ctx, "MemoryStore.Find")
	defer span.End()
	span.SetAttributes(attribute.String("db.collection", collection))

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*record, 0)
	for _, rec := range s.collections[collection] {
		if filter.ExcludeDeleted && rec.deleted {
			continue
		}
		ok, err := filter.Matches(rec.body)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "match failed")
			return nil, err
		}
		if ok {
			matched = append(matched, rec)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })

	out := make([][]byte, len(matched))
	for i, rec := range matched {
		out[i] = clone(rec.body)
	}

	span.SetAttributes(attribute.Int("db.result_count", len(out)))
	s.logger.DebugContext(ctx, "Documents retrieved from memory store",
		slog.String("collection", collection),
		slog.Int("count", len(out)),
	)
	span.SetStatus(codes.Ok, "documents retrieved")
	return out, nil
}

// ReplaceIfExists swaps the body of a live document under the write lock
func (s *DocumentStore) ReplaceIfExists(ctx context.Context, collection string, id uuid.UUID, body []byte) (bool, error) {
	ctx, span := s.start(ctx, "ReplaceIfExists", collection, id)
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.collections[collection][id]
	if !exists || rec.deleted {
		span.SetStatus(codes.Ok, "nothing to replace")
		return false, nil
	}
	rec.body = clone(body)

	s.logger.DebugContext(ctx, "Document replaced in memory store",
		slog.String("collection", collection),
		slog.String("id", id.String()),
	)
	span.SetStatus(codes.Ok, "replaced")
	return true, nil
}

// SoftDelete flags a document as deleted
func (s *DocumentStore) SoftDelete(ctx context.Context, collection string, id uuid.UUID) error {
	ctx, span := s.start(ctx, "SoftDelete", collection, id)
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, exists := s.collections[collection][id]; exists {
		rec.deleted = true
	}

	span.SetStatus(codes.Ok, "deleted")
	return nil
}

func (s *DocumentStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *DocumentStore) Close() error { return nil }

// Len counts the documents of a collection, soft-deleted ones included.
func (s *DocumentStore) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

func (s *DocumentStore) collection(name string) map[uuid.UUID]*record {
	docs, ok := s.collections[name]
	if !ok {
		docs = make(map[uuid.UUID]*record)
		s.collections[name] = docs
	}
	return docs
}

func (s *DocumentStore) start(ctx context.Context, op, collection string, id uuid.UUID) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "MemoryStore."+op)
	span.SetAttributes(
		attribute.String("db.collection", collection),
		attribute.String("document.id", id.String()),
	)
	return ctx, span
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
