package auth

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the authenticated caller extracted from a bearer token.
type Identity struct {
	ID     uuid.UUID
	UserID int64
	Email  string
	Role   string
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
