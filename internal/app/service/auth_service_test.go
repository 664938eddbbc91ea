package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mrops-br/stock-manager-api/internal/app/dto"
	"github.com/mrops-br/stock-manager-api/internal/app/repository"
	"github.com/mrops-br/stock-manager-api/internal/app/service"
	"github.com/mrops-br/stock-manager-api/internal/domain"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	svc    *service.AuthService
	tokens *auth.TokenIssuer
	hasher *auth.PasswordHasher
}

func newAuthService(t *testing.T) authFixture {
	t.Helper()
	users := repository.NewUserRepository(newStore(), 0, tracer, logger)
	hasher := auth.NewPasswordHasher(auth.Params{Memory: 1024, Time: 1, Parallelism: 1, KeyLen: 16})
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	authn := auth.NewAuthenticator(users, hasher, logger)
	return authFixture{
		svc:    service.NewAuthService(users, authn, tokens, hasher, tracer, newMetrics(t), logger),
		tokens: tokens,
		hasher: hasher,
	}
}

func register(t *testing.T, svc *service.AuthService, email, password string) domain.User {
	t.Helper()
	r := svc.Register(context.Background(), dto.RegisterRequest{Email: email, Password: password, FirstName: "Jane"})
	require.False(t, r.IsError(), r.Errors())
	return r.Value()
}

func TestRegister(t *testing.T) {
	f := newAuthService(t)

	user := register(t, f.svc, "Jane@Example.com", "secret1")
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, domain.DefaultUserRole, user.Role)
	assert.Equal(t, "Jane", user.Profile.FirstName)
	assert.NotZero(t, user.Profile.UserID)
	assert.True(t, f.hasher.Verify("secret1", user.PasswordHash))
}

func TestRegisterRejects(t *testing.T) {
	ctx := context.Background()
	f := newAuthService(t)
	register(t, f.svc, "jane@example.com", "secret1")

	tests := []struct {
		name string
		req  dto.RegisterRequest
		want domain.Errors
	}{
		{
			name: "duplicate email",
			req:  dto.RegisterRequest{Email: "JANE@example.com", Password: "another1"},
			want: domain.Errors{domain.ErrUserDuplicateEmail},
		},
		{
			name: "invalid email and short password",
			req:  dto.RegisterRequest{Email: "nope", Password: "123"},
			want: domain.Errors{domain.ErrUserInvalidEmail, domain.ErrUserInvalidPassword},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := f.svc.Register(ctx, tt.req)
			require.True(t, r.IsError())
			assert.Equal(t, tt.want, r.Errors())
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newAuthService(t)
	user := register(t, f.svc, "jane@example.com", "secret1")

	token := f.svc.Login(ctx, dto.LoginRequest{Email: "jane@example.com", Password: "secret1"})
	require.False(t, token.IsError())

	id, err := f.tokens.ParseToken(token.Value())
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.ID)
	assert.Equal(t, user.Profile.UserID, id.UserID)

	wrong := f.svc.Login(ctx, dto.LoginRequest{Email: "jane@example.com", Password: "secret2"})
	assert.Equal(t, domain.ErrUserWrongCredentials, wrong.FirstError())

	unknown := f.svc.Login(ctx, dto.LoginRequest{Email: "john@example.com", Password: "secret1"})
	assert.Equal(t, domain.ErrUserNotFound, unknown.FirstError())
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newAuthService(t)
	user := register(t, f.svc, "jane@example.com", "secret1")
	caller := auth.Identity{ID: user.ID, UserID: user.Profile.UserID, Email: user.Email, Role: user.Role}

	short := f.svc.ChangePassword(ctx, caller, dto.ChangePasswordRequest{Password: "123"})
	assert.Equal(t, domain.ErrUserInvalidPassword, short.FirstError())

	changed := f.svc.ChangePassword(ctx, caller, dto.ChangePasswordRequest{Password: "secret2"})
	require.False(t, changed.IsError())

	assert.True(t, f.svc.Login(ctx, dto.LoginRequest{Email: "jane@example.com", Password: "secret1"}).IsError())
	assert.False(t, f.svc.Login(ctx, dto.LoginRequest{Email: "jane@example.com", Password: "secret2"}).IsError())

	ghost := auth.Identity{ID: domain.NewUser("g@example.com", "h", "", domain.Profile{}, nil).Value().ID}
	assert.Equal(t, domain.ErrUserNotFound, f.svc.ChangePassword(ctx, ghost, dto.ChangePasswordRequest{Password: "secret3"}).FirstError())
}

func TestSearchUsers(t *testing.T) {
	ctx := context.Background()
	f := newAuthService(t)
	user := register(t, f.svc, "jane@example.com", "secret1")
	register(t, f.svc, "john@example.com", "secret1")

	found := f.svc.SearchUsers(ctx, []domain.SearchParameter{{Name: "EMAIL", Value: "jane@example.com"}})
	require.False(t, found.IsError())
	require.Len(t, found.Value(), 1)
	assert.Equal(t, user.ID, found.Value()[0].ID)
}

func TestConcurrentRegisterKeepsEmailUnique(t *testing.T) {
	f := newAuthService(t)
	const callers = 8

	results := make(chan domain.Result[domain.User], callers)
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- f.svc.Register(context.Background(), dto.RegisterRequest{Email: "jane@example.com", Password: "secret1"})
		}()
	}
	wg.Wait()
	close(results)

	created := 0
	for r := range results {
		if r.IsError() {
			assert.Equal(t, domain.ErrUserDuplicateEmail, r.FirstError())
			continue
		}
		created++
	}
	assert.Equal(t, 1, created)

	found := f.svc.SearchUsers(context.Background(), []domain.SearchParameter{{Name: "EMAIL", Value: "jane@example.com"}})
	require.False(t, found.IsError())
	assert.Len(t, found.Value(), 1)
}
