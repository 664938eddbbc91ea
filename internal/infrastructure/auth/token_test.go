package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mrops-br/stock-manager-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser(t *testing.T) domain.User {
	t.Helper()
	r := domain.NewUser("jane@example.com", "hash", "Admin", domain.Profile{FirstName: "Jane"}, nil)
	require.False(t, r.IsError())
	return r.Value()
}

func TestIssueAndParseToken(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	user := testUser(t)

	token, err := issuer.IssueToken(user)
	require.NoError(t, err)

	id, err := issuer.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{
		ID:     user.ID,
		UserID: user.Profile.UserID,
		Email:  "jane@example.com",
		Role:   "Admin",
	}, id)
}

func TestTokenUsesHS512(t *testing.T) {
	token, err := NewTokenIssuer("secret", 0).IssueToken(testUser(t))
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, &Claims{})
	require.NoError(t, err)
	assert.Equal(t, "HS512", parsed.Method.Alg())

	claims := parsed.Claims.(*Claims)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestParseTokenRejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	user := testUser(t)

	wrongSecret, err := NewTokenIssuer("other", time.Hour).IssueToken(user)
	require.NoError(t, err)

	expiredIssuer := NewTokenIssuer("secret", time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredIssuer.IssueToken(user)
	require.NoError(t, err)

	hs256, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "nope",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not.a.token",
		"wrong secret": wrongSecret,
		"expired":      expired,
		"wrong alg":    hs256,
		"bad subject":  badSubject,
		"no expiry":    noExpiry,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.ParseToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFromContext(t.Context())
	assert.False(t, ok)

	want := Identity{ID: uuid.New(), Email: "a@b.io"}
	got, ok := IdentityFromContext(WithIdentity(t.Context(), want))
	require.True(t, ok)
	assert.Equal(t, want, got)
}
