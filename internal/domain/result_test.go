package domain_test

import (
	"errors"
	"testing"

	"github.com/mrops-br/stock-manager-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultOk(t *testing.T) {
	r := domain.Ok(42)
	assert.False(t, r.IsError())
	assert.Equal(t, 42, r.Value())
	assert.Empty(t, r.Errors())
	assert.Equal(t, domain.Error{}, r.FirstError())

	v, err := r.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestResultFailIsNeverEmpty(t *testing.T) {
	r := domain.Fail[int]()
	require.True(t, r.IsError())
	assert.Equal(t, domain.ErrUnexpected, r.FirstError())
}

func TestResultFailKeepsOrder(t *testing.T) {
	r := domain.Fail[string](domain.ErrProductInvalidName, domain.ErrProductInvalidDescription)
	assert.Equal(t, domain.ErrProductInvalidName, r.FirstError())
	assert.Len(t, r.Errors(), 2)

	_, err := r.Unwrap()
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	assert.False(t, domain.IsKind(err, domain.KindNotFound))

	var list domain.Errors
	require.True(t, errors.As(err, &list))
	assert.Equal(t, domain.ErrProductInvalidDescription, list[1])
}

func TestResultErrorsIsACopy(t *testing.T) {
	r := domain.Fail[int](domain.ErrBranchNotFound)
	errs := r.Errors()
	errs[0] = domain.ErrUnexpected
	assert.Equal(t, domain.ErrBranchNotFound, r.FirstError())
}

func TestFailWithRetypes(t *testing.T) {
	src := domain.Fail[int](domain.ErrInvalidSearchParameters)
	dst := domain.FailWith[[]string](src)
	assert.Equal(t, src.Errors(), dst.Errors())
}

func TestMatch(t *testing.T) {
	onValue := func(v int) string { return "value" }
	onErrors := func(es domain.Errors) string { return es[0].Code }

	assert.Equal(t, "value", domain.Match(domain.Ok(1), onValue, onErrors))
	assert.Equal(t, "Branch.NotFound", domain.Match(domain.Fail[int](domain.ErrBranchNotFound), onValue, onErrors))
}

func TestErrorsKinds(t *testing.T) {
	mixed := domain.Errors{domain.ErrProductInvalidName, domain.ErrUnexpected}
	assert.False(t, mixed.AllOfKind(domain.KindValidation))
	assert.True(t, mixed.AnyOfKind(domain.KindUnexpected))
	assert.False(t, domain.Errors{}.AllOfKind(domain.KindValidation))
	assert.Equal(t, "not_found", domain.KindNotFound.String())
	assert.True(t, domain.IsKind(domain.ErrUserDuplicateEmail, domain.KindConflict))
}
