package postgres

import (
	"testing"

	"github.com/mrops-br/stock-manager-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuildFindQuery(t *testing.T) {
	tests := []struct {
		name      string
		filter    domain.Filter
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "all documents",
			filter:    domain.Filter{},
			wantQuery: "SELECT body FROM documents WHERE collection = $1 ORDER BY created_at, id",
			wantArgs:  []any{"branches"},
		},
		{
			name:      "live documents",
			filter:    domain.NotDeleted(),
			wantQuery: "SELECT body FROM documents WHERE collection = $1 AND NOT deleted ORDER BY created_at, id",
			wantArgs:  []any{"branches"},
		},
		{
			name:   "conjunction with nested path",
			filter: domain.NotDeleted().And("name", "Central").And("profile.firstName", "Jane"),
			wantQuery: "SELECT body FROM documents WHERE collection = $1 AND NOT deleted" +
				" AND body #>> $2::text[] = $3 AND body #>> $4::text[] = $5 ORDER BY created_at, id",
			wantArgs: []any{"branches", []string{"name"}, "Central", []string{"profile", "firstName"}, "Jane"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, args := buildFindQuery("branches", tt.filter)
			assert.Equal(t, tt.wantQuery, q)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildFindQueryNeverInterpolatesValues(t *testing.T) {
	q, _ := buildFindQuery("users", domain.NotDeleted().And("email", "x' OR '1'='1"))
	assert.NotContains(t, q, "'1'='1")
}
