package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mrops-br/stock-manager-api/internal/domain"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/auth"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/http/response"
)

var (
	ErrMissingToken = domain.UnauthorizedError("Auth.MissingToken", "Missing authorization token.")
	ErrInvalidToken = domain.UnauthorizedError("Auth.InvalidToken", "Invalid or expired token.")
)

// TokenParser validates a bearer token and returns its caller.
type TokenParser interface {
	ParseToken(token string) (auth.Identity, error)
}

// BearerAuth rejects requests without a valid "Authorization: Bearer" token
// and stores the caller's identity in the request context.
func BearerAuth(parser TokenParser, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				logger.WarnContext(r.Context(), "Missing Authorization header")
				response.Problem(w, r, domain.Errors{ErrMissingToken})
				return
			}

			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
				logger.WarnContext(r.Context(), "Invalid Authorization header format")
				response.Problem(w, r, domain.Errors{ErrInvalidToken})
				return
			}

			identity, err := parser.ParseToken(strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(r.Context(), "Invalid bearer token", slog.String("error", err.Error()))
				response.Problem(w, r, domain.Errors{ErrInvalidToken})
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}
