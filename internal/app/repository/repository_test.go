package repository_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mrops-br/stock-manager-api/internal/app/repository"
	"github.com/mrops-br/stock-manager-api/internal/domain"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	tracer = noop.NewTracerProvider().Tracer("test")
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func newBranches(t *testing.T) (*repository.Repository[domain.Branch], *memory.DocumentStore) {
	t.Helper()
	store := memory.NewDocumentStore(tracer, logger)
	return repository.NewBranchRepository(store, 0, tracer, logger), store
}

func mustBranch(t *testing.T, name string) domain.Branch {
	t.Helper()
	r := domain.NewBranch(name, "Springfield", "0123456789", "1 Main St", nil)
	require.False(t, r.IsError())
	return r.Value()
}

func TestCreateThenGetByID(t *testing.T) {
	ctx := context.Background()
	repo, _ := newBranches(t)
	b := mustBranch(t, "Central")

	require.False(t, repo.Create(ctx, b).IsError())

	got := repo.GetByID(ctx, b.ID)
	require.False(t, got.IsError())
	assert.Equal(t, b, got.Value())
}

func TestGetByIDUnknown(t *testing.T) {
	repo, _ := newBranches(t)

	got := repo.GetByID(context.Background(), uuid.New())
	require.True(t, got.IsError())
	assert.Equal(t, domain.ErrBranchNotFound, got.FirstError())
}

func TestUpsertAbsentDoesNotCreate(t *testing.T) {
	ctx := context.Background()
	repo, store := newBranches(t)
	b := mustBranch(t, "Central")

	r := repo.Upsert(ctx, b)
	require.True(t, r.IsError())
	assert.Equal(t, domain.ErrBranchNotFound, r.FirstError())
	assert.Equal(t, 0, store.Len(domain.CollectionBranches))
	assert.True(t, repo.GetByID(ctx, b.ID).IsError())
}

func TestUpsertExistingReplaces(t *testing.T) {
	ctx := context.Background()
	repo, _ := newBranches(t)
	b := mustBranch(t, "Central")
	require.False(t, repo.Create(ctx, b).IsError())

	b.Name = "Central Plaza"
	r := repo.Upsert(ctx, b)
	require.False(t, r.IsError())
	assert.False(t, r.Value().IsNewlyCreated)
	assert.Equal(t, "Central Plaza", repo.GetByID(ctx, b.ID).Value().Name)
}

func TestDeleteIsIdempotentAndHides(t *testing.T) {
	ctx := context.Background()
	repo, store := newBranches(t)
	b := mustBranch(t, "Central")
	require.False(t, repo.Create(ctx, b).IsError())

	require.False(t, repo.Delete(ctx, b.ID).IsError())
	require.False(t, repo.Delete(ctx, b.ID).IsError())
	require.False(t, repo.Delete(ctx, uuid.New()).IsError())

	assert.Equal(t, domain.ErrBranchNotFound, repo.GetByID(ctx, b.ID).FirstError())
	assert.Equal(t, domain.ErrBranchNotFound, repo.Upsert(ctx, b).FirstError())

	found := repo.Search(ctx, []domain.SearchParameter{{Name: "NAME", Value: "Central"}})
	require.False(t, found.IsError())
	assert.Empty(t, found.Value())

	// soft delete keeps the document
	assert.Equal(t, 1, store.Len(domain.CollectionBranches))
}

func TestSearchScenario(t *testing.T) {
	ctx := context.Background()
	repo, _ := newBranches(t)
	central := mustBranch(t, "Central")
	north := mustBranch(t, "North")
	require.False(t, repo.Create(ctx, central).IsError())
	require.False(t, repo.Create(ctx, north).IsError())

	found := repo.Search(ctx, []domain.SearchParameter{{Name: "NAME", Value: "Central"}})
	require.False(t, found.IsError())
	assert.Equal(t, []domain.Branch{central}, found.Value())

	none := repo.Search(ctx, []domain.SearchParameter{{Name: "NAME", Value: "South"}})
	require.False(t, none.IsError())
	assert.Empty(t, none.Value())

	invalid := repo.Search(ctx, []domain.SearchParameter{{Name: "TOWN", Value: "Springfield"}})
	require.True(t, invalid.IsError())
	assert.Equal(t, domain.ErrInvalidSearchParameters, invalid.FirstError())
}

func TestSearchConjunctionIsSubsetOfEachClause(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore(tracer, logger)
	repo := repository.NewProductRepository(store, 0, tracer, logger)
	desc := strings.Repeat("d", domain.ProductMinDescriptionLength)

	for _, p := range []struct{ name, brand string }{
		{"Milk", "Acme"}, {"Milk", "Other"}, {"Bread", "Acme"},
	} {
		r := domain.NewProduct(p.name, desc, "", "Food", "", p.brand, "", nil)
		require.False(t, repo.Create(ctx, r.Value()).IsError())
	}

	byName := repo.Search(ctx, []domain.SearchParameter{{Name: "NAME", Value: "Milk"}}).Value()
	byBrand := repo.Search(ctx, []domain.SearchParameter{{Name: "BRAND", Value: "Acme"}}).Value()
	both := repo.Search(ctx, []domain.SearchParameter{
		{Name: "NAME", Value: "Milk"},
		{Name: "BRAND", Value: "Acme"},
	}).Value()

	require.Len(t, both, 1)
	assert.Contains(t, byName, both[0])
	assert.Contains(t, byBrand, both[0])
}

func TestSearchByIdentifier(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore(tracer, logger)
	repo := repository.NewInventoryRepository(store, 0, tracer, logger)
	branchID := uuid.New()

	inv := domain.NewInventory(branchID, uuid.New(), testTime, testPrice, 3, nil).Value()
	other := domain.NewInventory(uuid.New(), uuid.New(), testTime, testPrice, 1, nil).Value()
	require.False(t, repo.Create(ctx, inv).IsError())
	require.False(t, repo.Create(ctx, other).IsError())

	found := repo.Search(ctx, []domain.SearchParameter{{Name: "BRANCHID", Value: branchID.String()}})
	require.False(t, found.IsError())
	require.Len(t, found.Value(), 1)
	assert.Equal(t, inv.ID, found.Value()[0].ID)
	assert.True(t, testPrice.Equal(found.Value()[0].OrderPrice))
}

type failingStore struct{ domain.DocumentStore }

var errBoom = errors.New("boom")

func (failingStore) Insert(context.Context, string, uuid.UUID, []byte) error { return errBoom }
func (failingStore) FindByID(context.Context, string, uuid.UUID) ([]byte, error) {
	return nil, errBoom
}
func (failingStore) Find(context.Context, string, domain.Filter) ([][]byte, error) {
	return nil, errBoom
}
func (failingStore) ReplaceIfExists(context.Context, string, uuid.UUID, []byte) (bool, error) {
	return false, errBoom
}
func (failingStore) SoftDelete(context.Context, string, uuid.UUID) error { return errBoom }

func TestStoreFailuresBecomeUnexpected(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewBranchRepository(failingStore{}, 0, tracer, logger)
	b := mustBranch(t, "Central")

	assert.Equal(t, domain.ErrUnexpected, repo.Create(ctx, b).FirstError())
	assert.Equal(t, domain.ErrUnexpected, repo.GetByID(ctx, b.ID).FirstError())
	assert.Equal(t, domain.ErrUnexpected, repo.Upsert(ctx, b).FirstError())
	assert.Equal(t, domain.ErrUnexpected, repo.Delete(ctx, b.ID).FirstError())
	assert.Equal(t, domain.ErrUnexpected,
		repo.Search(ctx, []domain.SearchParameter{{Name: "NAME", Value: "x"}}).FirstError())
}

type duplicateStore struct{ domain.DocumentStore }

func (duplicateStore) Insert(context.Context, string, uuid.UUID, []byte) error {
	return fmt.Errorf("insert: %w", domain.ErrDuplicateDocument)
}

func (duplicateStore) ReplaceIfExists(context.Context, string, uuid.UUID, []byte) (bool, error) {
	return false, fmt.Errorf("replace: %w", domain.ErrDuplicateDocument)
}

func TestDuplicateDocumentMapsToConflict(t *testing.T) {
	ctx := context.Background()
	user := domain.NewUser("jane@example.com", "hash", "", domain.Profile{}, nil).Value()

	users := repository.NewUserRepository(duplicateStore{}, 0, tracer, logger)
	assert.Equal(t, domain.Errors{domain.ErrUserDuplicateEmail}, users.Create(ctx, user).Errors())
	assert.Equal(t, domain.Errors{domain.ErrUserDuplicateEmail}, users.Upsert(ctx, user).Errors())

	branches := repository.NewBranchRepository(duplicateStore{}, 0, tracer, logger)
	assert.Equal(t, domain.ErrUnexpected, branches.Create(ctx, mustBranch(t, "Central")).FirstError())
}
