// Package auth hashes passwords, issues bearer tokens and verifies credentials.
package auth

import (
	"context"
	"log/slog"

	"github.com/mrops-br/stock-manager-api/internal/domain"
)

// UserFinder looks users up by search parameters.
type UserFinder interface {
	Search(ctx context.Context, params []domain.SearchParameter) domain.Result[[]domain.User]
}

// Authenticator checks an email/password pair against stored users.
type Authenticator struct {
	users  UserFinder
	hasher *PasswordHasher
	logger *slog.Logger
}

func NewAuthenticator(users UserFinder, hasher *PasswordHasher, logger *slog.Logger) *Authenticator {
	return &Authenticator{users: users, hasher: hasher, logger: logger}
}

// VerifyCredentials fails with User.NotFound for an unknown email and
// User.WrongCredentials for a bad password.
func (a *Authenticator) VerifyCredentials(ctx context.Context, email, password string) domain.Result[domain.User] {
	email = domain.NormalizeEmail(email)

	found := a.users.Search(ctx, []domain.SearchParameter{{Name: domain.SearchEmail.String(), Value: email}})
	if found.IsError() {
		return domain.FailWith[domain.User](found)
	}

	users := found.Value()
	if len(users) == 0 {
		a.logger.InfoContext(ctx, "Login for unknown email")
		return domain.Fail[domain.User](domain.ErrUserNotFound)
	}

	user := users[0]
	if !a.hasher.Verify(password, user.PasswordHash) {
		a.logger.WarnContext(ctx, "Wrong credentials", slog.String("user_id", user.ID.String()))
		return domain.Fail[domain.User](domain.ErrUserWrongCredentials)
	}
	return domain.Ok(user)
}
