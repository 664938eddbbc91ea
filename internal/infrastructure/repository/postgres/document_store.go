// Package postgres keeps entity documents in a single JSONB table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mrops-br/stock-manager-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT        NOT NULL,
	id         UUID        NOT NULL,
	body       JSONB       NOT NULL,
	deleted    BOOLEAN     NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS documents_body_gin ON documents USING GIN (body jsonb_path_ops);
CREATE UNIQUE INDEX IF NOT EXISTS ` + userEmailIndex + ` ON documents ((body->>'email'))
	WHERE collection = '` + domain.CollectionUsers + `' AND NOT deleted;
`

const (
	userEmailIndex  = "documents_users_email_key"
	uniqueViolation = "23505"
)

// DocumentStore implements domain.DocumentStore on PostgreSQL.
type DocumentStore struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *slog.Logger
}

var _ domain.DocumentStore = (*DocumentStore)(nil)

// Connect opens a pool and verifies connectivity.
func Connect(ctx context.Context, dsn string, maxConns int32, tracer trace.Tracer, logger *slog.Logger) (*DocumentStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return &DocumentStore{pool: pool, tracer: tracer, logger: logger}, nil
}

// Migrate creates the documents table when missing.
func (s *DocumentStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	s.logger.InfoContext(ctx, "Documents table ready")
	return nil
}

func (s *DocumentStore) Insert(ctx context.Context, collection string, id uuid.UUID, body []byte) error {
	ctx, span := s.start(ctx, "Insert", collection)
	defer span.End()

	const q = `INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3::jsonb)`
	if _, err := s.pool.Exec(ctx, q, collection, id, string(body)); err != nil {
		return s.fail(span, fmt.Errorf("postgres: insert %s/%s: %w", collection, id, translateError(err)))
	}
	span.SetStatus(codes.Ok, "inserted")
	return nil
}

func (s *DocumentStore) FindByID(ctx context.Context, collection string, id uuid.UUID) ([]byte, error) {
	ctx, span := s.start(ctx, "FindByID", collection)
	defer span.End()

	const q = `SELECT body FROM documents WHERE collection = $1 AND id = $2 AND NOT deleted`
	var body []byte
	err := s.pool.QueryRow(ctx, q, collection, id).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		span.SetStatus(codes.Error, "document not found")
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("postgres: find %s/%s: %w", collection, id, err))
	}
	span.SetStatus(codes.Ok, "found")
	return body, nil
}

func (s *DocumentStore) Find(ctx context.Context, collection string, filter domain.Filter) ([][]byte, error) {
	ctx, span := s.start(ctx, "Find", collection)
	defer span.End()

	q, args := buildFindQuery(collection, filter)
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("postgres: query %s: %w", collection, err))
	}
	defer rows.Close()

	out := make([][]byte, 0)
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, s.fail(span, fmt.Errorf("postgres: scan %s: %w", collection, err))
		}
		out = append(out, body)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(span, fmt.Errorf("postgres: rows %s: %w", collection, err))
	}

	span.SetAttributes(attribute.Int("db.result_count", len(out)))
	span.SetStatus(codes.Ok, "documents retrieved")
	return out, nil
}

// ReplaceIfExists is a single conditional UPDATE, so concurrent callers never
// observe a check and a write as separate steps.
func (s *DocumentStore) ReplaceIfExists(ctx context.Context, collection string, id uuid.UUID, body []byte) (bool, error) {
	ctx, span := s.start(ctx, "ReplaceIfExists", collection)
	defer span.End()

	const q = `UPDATE documents SET body = $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id = $2 AND NOT deleted`
	tag, err := s.pool.Exec(ctx, q, collection, id, string(body))
	if err != nil {
		return false, s.fail(span, fmt.Errorf("postgres: replace %s/%s: %w", collection, id, translateError(err)))
	}
	span.SetStatus(codes.Ok, "replace attempted")
	return tag.RowsAffected() == 1, nil
}

func (s *DocumentStore) SoftDelete(ctx context.Context, collection string, id uuid.UUID) error {
	ctx, span := s.start(ctx, "SoftDelete", collection)
	defer span.End()

	const q = `UPDATE documents SET deleted = TRUE, updated_at = NOW() WHERE collection = $1 AND id = $2`
	if _, err := s.pool.Exec(ctx, q, collection, id); err != nil {
		return s.fail(span, fmt.Errorf("postgres: delete %s/%s: %w", collection, id, err))
	}
	span.SetStatus(codes.Ok, "deleted")
	return nil
}

func (s *DocumentStore) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *DocumentStore) Close() error {
	s.pool.Close()
	return nil
}

// buildFindQuery renders a filter as SQL. Field paths are passed as text[]
// parameters to the #>> operator, never interpolated.
func buildFindQuery(collection string, filter domain.Filter) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT body FROM documents WHERE collection = $1")
	args := []any{collection}

	if filter.ExcludeDeleted {
		sb.WriteString(" AND NOT deleted")
	}
	for _, eq := range filter.Equals {
		args = append(args, strings.Split(eq.Field, "."))
		pathArg := len(args)
		args = append(args, eq.Value)
		valueArg := len(args)
		sb.WriteString(" AND body #>> $" + strconv.Itoa(pathArg) + "::text[] = $" + strconv.Itoa(valueArg))
	}
	sb.WriteString(" ORDER BY created_at, id")
	return sb.String(), args
}

// translateError reports a violation of a body uniqueness index as
// domain.ErrDuplicateDocument. Primary key violations stay as they are.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == userEmailIndex {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateDocument, pgErr.Message)
	}
	return err
}

func (s *DocumentStore) start(ctx context.Context, op, collection string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "PostgresStore."+op)
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.collection", collection),
	)
	return ctx, span
}

func (s *DocumentStore) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
