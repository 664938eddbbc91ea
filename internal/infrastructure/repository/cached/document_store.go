// Package cached adds read-through caching of FindByID to any document store.
package cached

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/stock-manager-api/internal/domain"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/cache"
)

// DocumentStore decorates a domain.DocumentStore. Cache failures are logged
// and never fail an operation; writes invalidate the cached entry.
type DocumentStore struct {
	next   domain.DocumentStore
	cache  cache.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ domain.DocumentStore = (*DocumentStore)(nil)

func NewDocumentStore(next domain.DocumentStore, c cache.Client, ttl time.Duration, logger *slog.Logger) *DocumentStore {
	return &DocumentStore{next: next, cache: c, ttl: ttl, logger: logger}
}

func (s *DocumentStore) Insert(ctx context.Context, collection string, id uuid.UUID, body []byte) error {
	return s.next.Insert(ctx, collection, id, body)
}

func (s *DocumentStore) FindByID(ctx context.Context, collection string, id uuid.UUID) ([]byte, error) {
	key := cacheKey(collection, id)

	body, err := s.cache.Get(ctx, key)
	if err == nil {
		return body, nil
	}
	if !cache.IsNotFound(err) {
		s.logger.WarnContext(ctx, "Cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	body, err = s.next.FindByID(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, body, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "Cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return body, nil
}

func (s *DocumentStore) Find(ctx context.Context, collection string, filter domain.Filter) ([][]byte, error) {
	return s.next.Find(ctx, collection, filter)
}

func (s *DocumentStore) ReplaceIfExists(ctx context.Context, collection string, id uuid.UUID, body []byte) (bool, error) {
	replaced, err := s.next.ReplaceIfExists(ctx, collection, id, body)
	if err == nil && replaced {
		s.invalidate(ctx, collection, id)
	}
	return replaced, err
}

func (s *DocumentStore) SoftDelete(ctx context.Context, collection string, id uuid.UUID) error {
	err := s.next.SoftDelete(ctx, collection, id)
	if err == nil {
		s.invalidate(ctx, collection, id)
	}
	return err
}

func (s *DocumentStore) Ping(ctx context.Context) error {
	if err := s.cache.Ping(ctx); err != nil {
		return err
	}
	return s.next.Ping(ctx)
}

func (s *DocumentStore) Close() error {
	cacheErr := s.cache.Close()
	if err := s.next.Close(); err != nil {
		return err
	}
	return cacheErr
}

func (s *DocumentStore) invalidate(ctx context.Context, collection string, id uuid.UUID) {
	key := cacheKey(collection, id)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "Cache invalidation failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func cacheKey(collection string, id uuid.UUID) string {
	return "doc:" + collection + ":" + id.String()
}
