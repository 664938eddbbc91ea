package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastParams = Params{Memory: 1024, Time: 1, Parallelism: 1, KeyLen: 16}

func TestHashAndVerify(t *testing.T) {
	h := NewPasswordHasher(fastParams)

	phc, err := h.Hash("s3cret!")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(phc, "$argon2id$v=19$m=1024,t=1,p=1$"))

	assert.True(t, h.Verify("s3cret!", phc))
	assert.False(t, h.Verify("s3cret?", phc))
}

func TestHashIsSalted(t *testing.T) {
	h := NewPasswordHasher(fastParams)
	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyUsesParamsFromHash(t *testing.T) {
	phc, err := NewPasswordHasher(fastParams).Hash("pw1234")
	require.NoError(t, err)

	other := NewPasswordHasher(Params{Memory: 2048, Time: 2, Parallelism: 1, KeyLen: 32})
	assert.True(t, other.Verify("pw1234", phc))
}

func TestVerifyRejectsMalformed(t *testing.T) {
	h := NewPasswordHasher(fastParams)
	for _, phc := range []string{
		"",
		"plain",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$!!$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$",
	} {
		assert.False(t, h.Verify("pw", phc), phc)
	}
}

func TestHashRejectsEmpty(t *testing.T) {
	_, err := NewPasswordHasher(fastParams).Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}
