package memory

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/mrops-br/stock-manager-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newStore() *DocumentStore {
	return NewDocumentStore(noop.NewTracerProvider().Tracer("test"), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestInsertRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	id := uuid.New()

	require.NoError(t, s.Insert(ctx, "c", id, []byte(`{"n":1}`)))
	assert.Error(t, s.Insert(ctx, "c", id, []byte(`{"n":2}`)))
}

func TestFindByIDReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	id := uuid.New()
	body := []byte(`{"n":1}`)
	require.NoError(t, s.Insert(ctx, "c", id, body))
	body[0] = 'X'

	got, err := s.FindByID(ctx, "c", id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(got))

	got[0] = 'Y'
	again, _ := s.FindByID(ctx, "c", id)
	assert.JSONEq(t, `{"n":1}`, string(again))
}

func TestCollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	id := uuid.New()
	require.NoError(t, s.Insert(ctx, "a", id, []byte(`{}`)))

	_, err := s.FindByID(ctx, "b", id)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestFindKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	for i := 0; i < 20; i++ {
		require.NoError(t, s.Insert(ctx, "c", uuid.New(), []byte(`{"i":`+strconv.Itoa(i)+`}`)))
	}

	docs, err := s.Find(ctx, "c", domain.NotDeleted())
	require.NoError(t, err)
	require.Len(t, docs, 20)
	for i, d := range docs {
		assert.JSONEq(t, `{"i":`+strconv.Itoa(i)+`}`, string(d))
	}
}

func TestSoftDeleteVisibility(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	id := uuid.New()
	require.NoError(t, s.Insert(ctx, "c", id, []byte(`{"name":"x"}`)))
	require.NoError(t, s.SoftDelete(ctx, "c", id))
	require.NoError(t, s.SoftDelete(ctx, "c", uuid.New()))

	_, err := s.FindByID(ctx, "c", id)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	replaced, err := s.ReplaceIfExists(ctx, "c", id, []byte(`{"name":"y"}`))
	require.NoError(t, err)
	assert.False(t, replaced)

	live, err := s.Find(ctx, "c", domain.NotDeleted())
	require.NoError(t, err)
	assert.Empty(t, live)

	all, err := s.Find(ctx, "c", domain.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 1, s.Len("c"))
}

func TestReplaceIfExistsConcurrent(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	id := uuid.New()
	require.NoError(t, s.Insert(ctx, "c", id, []byte(`{"v":0}`)))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.ReplaceIfExists(ctx, "c", id, []byte(`{"v":1}`))
			assert.NoError(t, err)
			assert.True(t, ok)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, s.Len("c"))
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newStore()
	assert.ErrorIs(t, s.Insert(ctx, "c", uuid.New(), []byte(`{}`)), context.Canceled)
	assert.ErrorIs(t, s.Ping(ctx), context.Canceled)
}
