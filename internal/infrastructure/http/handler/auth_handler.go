package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/stock-manager-api/internal/app/dto"
	"github.com/mrops-br/stock-manager-api/internal/app/service"
	"github.com/mrops-br/stock-manager-api/internal/domain"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/auth"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/http/response"
)

var ErrMissingIdentity = domain.UnauthorizedError("Auth.MissingIdentity", "Authentication is required.")

// AuthHandler handles account routes.
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// Routes mounts the public routes; protected wraps routes that need a caller.
func (h *AuthHandler) Routes(r chi.Router, protected func(http.Handler) http.Handler) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Get("/search", h.Search)
	r.With(protected).Post("/change-password", h.ChangePassword)
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.String("error", err.Error()))
		response.Problem(w, r, domain.Errors{ErrInvalidBody})
		return
	}

	registered := h.service.Register(r.Context(), req)
	if registered.IsError() {
		response.Problem(w, r, registered.Errors())
		return
	}

	response.JSON(w, http.StatusCreated, dto.ToUserResponse(registered.Value()))
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.String("error", err.Error()))
		response.Problem(w, r, domain.Errors{ErrInvalidBody})
		return
	}

	token := h.service.Login(r.Context(), req)
	if token.IsError() {
		response.Problem(w, r, token.Errors())
		return
	}

	response.JSON(w, http.StatusOK, dto.TokenResponse{Token: token.Value()})
}

// ChangePassword handles POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		response.Problem(w, r, domain.Errors{ErrMissingIdentity})
		return
	}

	var req dto.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.String("error", err.Error()))
		response.Problem(w, r, domain.Errors{ErrInvalidBody})
		return
	}

	changed := h.service.ChangePassword(r.Context(), caller, req)
	if changed.IsError() {
		response.Problem(w, r, changed.Errors())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/auth/search
func (h *AuthHandler) Search(w http.ResponseWriter, r *http.Request) {
	found := h.service.SearchUsers(r.Context(), SearchParameters(r))
	if found.IsError() {
		response.Problem(w, r, found.Errors())
		return
	}
	response.JSON(w, http.StatusOK, dto.ToUserResponseList(found.Value()))
}
