package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mrops-br/stock-manager-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	emailTaken := &pgconn.PgError{Code: "23505", ConstraintName: userEmailIndex, Message: "duplicate key value"}
	duplicateID := &pgconn.PgError{Code: "23505", ConstraintName: "documents_pkey"}
	other := errors.New("connection reset")

	assert.ErrorIs(t, translateError(emailTaken), domain.ErrDuplicateDocument)
	assert.ErrorIs(t, translateError(fmt.Errorf("exec: %w", emailTaken)), domain.ErrDuplicateDocument)
	assert.NotErrorIs(t, translateError(duplicateID), domain.ErrDuplicateDocument)
	assert.Same(t, other, translateError(other))
}

func TestSchemaDeclaresUserEmailIndex(t *testing.T) {
	assert.Contains(t, schemaDDL, "CREATE UNIQUE INDEX IF NOT EXISTS "+userEmailIndex)
	assert.Contains(t, schemaDDL, "WHERE collection = '"+domain.CollectionUsers+"' AND NOT deleted")
}
