// Package redis keeps entity documents in Redis hashes.
//
// Per collection the store keeps a hash of id -> JSON body, a sorted set
// recording insertion order, its sequence counter and a set of soft-deleted ids.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/stock-manager-api/internal/domain"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// KEYS: docs, order, seq. ARGV: id, body.
var insertScript = goredis.NewScript(`
if redis.call('HSETNX', KEYS[1], ARGV[1], ARGV[2]) == 0 then
	return 0
end
redis.call('ZADD', KEYS[2], redis.call('INCR', KEYS[3]), ARGV[1])
return 1
`)

// KEYS: docs, deleted. ARGV: id, body.
var replaceScript = goredis.NewScript(`
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 0 then
	return 0
end
if redis.call('SISMEMBER', KEYS[2], ARGV[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
return 1
`)

// KEYS: docs, deleted. ARGV: id.
var softDeleteScript = goredis.NewScript(`
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 1 then
	redis.call('SADD', KEYS[2], ARGV[1])
end
return 1
`)

// Options configure the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// DocumentStore implements domain.DocumentStore on Redis.
type DocumentStore struct {
	client *goredis.Client
	prefix string
	tracer trace.Tracer
	logger *slog.Logger
}

var _ domain.DocumentStore = (*DocumentStore)(nil)

// Connect creates the client and pings the server.
func Connect(ctx context.Context, opts Options, tracer trace.Tracer, logger *slog.Logger) (*DocumentStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping failed: %w", err)
	}

	return NewDocumentStore(client, opts.Prefix, tracer, logger), nil
}

// NewDocumentStore wraps an existing client.
func NewDocumentStore(client *goredis.Client, prefix string, tracer trace.Tracer, logger *slog.Logger) *DocumentStore {
	if prefix == "" {
		prefix = "stockmanager"
	}
	return &DocumentStore{client: client, prefix: prefix, tracer: tracer, logger: logger}
}

func (s *DocumentStore) Insert(ctx context.Context, collection string, id uuid.UUID, body []byte) error {
	ctx, span := s.start(ctx, "Insert", collection)
	defer span.End()

	k := s.keys(collection)
	n, err := insertScript.Run(ctx, s.client,
		[]string{k.docs, k.order, k.seq},
		id.String(), string(body),
	).Int()
	if err != nil {
		return s.fail(span, fmt.Errorf("redis: insert %s/%s: %w", collection, id, err))
	}
	if n == 0 {
		return s.fail(span, fmt.Errorf("redis: duplicate id %s in %s", id, collection))
	}
	span.SetStatus(codes.Ok, "inserted")
	return nil
}

func (s *DocumentStore) FindByID(ctx context.Context, collection string, id uuid.UUID) ([]byte, error) {
	ctx, span := s.start(ctx, "FindByID", collection)
	defer span.End()

	k := s.keys(collection)
	pipe := s.client.Pipeline()
	bodyCmd := pipe.HGet(ctx, k.docs, id.String())
	deletedCmd := pipe.SIsMember(ctx, k.deleted, id.String())
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, goredis.Nil) {
		return nil, s.fail(span, fmt.Errorf("redis: find %s/%s: %w", collection, id, err))
	}

	body, err := bodyCmd.Bytes()
	if errors.Is(err, goredis.Nil) || deletedCmd.Val() {
		span.SetStatus(codes.Error, "document not found")
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("redis: find %s/%s: %w", collection, id, err))
	}
	span.SetStatus(codes.Ok, "found")
	return body, nil
}

func (s *DocumentStore) Find(ctx context.Context, collection string, filter domain.Filter) ([][]byte, error) {
	ctx, span := s.start(ctx, "Find", collection)
	defer span.End()

	k := s.keys(collection)
	ids, err := s.client.ZRange(ctx, k.order, 0, -1).Result()
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("redis: order %s: %w", collection, err))
	}
	if len(ids) == 0 {
		span.SetStatus(codes.Ok, "empty collection")
		return [][]byte{}, nil
	}

	var deleted map[string]struct{}
	if filter.ExcludeDeleted {
		deleted, err = s.client.SMembersMap(ctx, k.deleted).Result()
		if err != nil {
			return nil, s.fail(span, fmt.Errorf("redis: deleted set %s: %w", collection, err))
		}
	}

	bodies, err := s.client.HMGet(ctx, k.docs, ids...).Result()
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("redis: load %s: %w", collection, err))
	}

	out := make([][]byte, 0, len(ids))
	for i, raw := range bodies {
		if _, gone := deleted[ids[i]]; gone {
			continue
		}
		str, ok := raw.(string)
		if !ok {
			continue
		}
		body := []byte(str)
		match, err := filter.Matches(body)
		if err != nil {
			return nil, s.fail(span, err)
		}
		if match {
			out = append(out, body)
		}
	}

	span.SetAttributes(attribute.Int("db.result_count", len(out)))
	s.logger.DebugContext(ctx, "Documents retrieved from redis store",
		slog.String("collection", collection),
		slog.Int("scanned", len(ids)),
		slog.Int("count", len(out)),
	)
	span.SetStatus(codes.Ok, "documents retrieved")
	return out, nil
}

func (s *DocumentStore) ReplaceIfExists(ctx context.Context, collection string, id uuid.UUID, body []byte) (bool, error) {
	ctx, span := s.start(ctx, "ReplaceIfExists", collection)
	defer span.End()

	k := s.keys(collection)
	n, err := replaceScript.Run(ctx, s.client, []string{k.docs, k.deleted}, id.String(), string(body)).Int()
	if err != nil {
		return false, s.fail(span, fmt.Errorf("redis: replace %s/%s: %w", collection, id, err))
	}
	span.SetStatus(codes.Ok, "replace attempted")
	return n == 1, nil
}

func (s *DocumentStore) SoftDelete(ctx context.Context, collection string, id uuid.UUID) error {
	ctx, span := s.start(ctx, "SoftDelete", collection)
	defer span.End()

	k := s.keys(collection)
	if err := softDeleteScript.Run(ctx, s.client, []string{k.docs, k.deleted}, id.String()).Err(); err != nil {
		return s.fail(span, fmt.Errorf("redis: delete %s/%s: %w", collection, id, err))
	}
	span.SetStatus(codes.Ok, "deleted")
	return nil
}

func (s *DocumentStore) Ping(ctx context.Context) error { return s.client.Ping(ctx).Err() }

func (s *DocumentStore) Close() error { return s.client.Close() }

type collectionKeys struct {
	docs    string
	order   string
	seq     string
	deleted string
}

func (s *DocumentStore) keys(collection string) collectionKeys {
	base := s.prefix + ":" + collection
	return collectionKeys{
		docs:    base + ":docs",
		order:   base + ":order",
		seq:     base + ":seq",
		deleted: base + ":deleted",
	}
}

func (s *DocumentStore) start(ctx context.Context, op, collection string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "RedisStore."+op)
	span.SetAttributes(
		attribute.String("db.system", "redis"),
		attribute.String("db.collection", collection),
	)
	return ctx, span
}

func (s *DocumentStore) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
