package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mrops-br/stock-manager-api/internal/app/dto"
	"github.com/mrops-br/stock-manager-api/internal/domain"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/auth"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const userEntity = "user"

// Authenticator verifies an email/password pair.
type Authenticator interface {
	VerifyCredentials(ctx context.Context, email, password string) domain.Result[domain.User]
}

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	IssueToken(user domain.User) (string, error)
}

// PasswordHasher turns plain passwords into storable hashes.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// AuthService handles registration, login and password changes.
type AuthService struct {
	users   EntityRepository[domain.User]
	authn   Authenticator
	tokens  TokenIssuer
	hasher  PasswordHasher
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics *Metrics

	// registerMu serializes the email check and the insert of Register
	// within the process.
	registerMu sync.Mutex
}

func NewAuthService(
	users EntityRepository[domain.User],
	authn Authenticator,
	tokens TokenIssuer,
	hasher PasswordHasher,
	tracer trace.Tracer,
	metrics *Metrics,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		authn:   authn,
		tokens:  tokens,
		hasher:  hasher,
		tracer:  tracer,
		logger:  logger,
		metrics: metrics,
	}
}

// Register creates a user account. An email already in use yields
// User.DuplicateEmail.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) domain.Result[domain.User] {
	ctx, span := s.tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	if errs := domain.ValidateCredentials(req.Email, req.Password); len(errs) > 0 {
		return s.fail(ctx, span, "register", errs)
	}

	email := domain.NormalizeEmail(req.Email)

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		span.RecordError(err)
		s.logger.ErrorContext(ctx, "Failed to hash password", slog.String("error", err.Error()))
		return s.fail(ctx, span, "register", domain.Errors{domain.ErrUnexpected})
	}

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	existing := s.users.Search(ctx, []domain.SearchParameter{{Name: domain.SearchEmail.String(), Value: email}})
	if existing.IsError() {
		return s.fail(ctx, span, "register", existing.Errors())
	}
	if len(existing.Value()) > 0 {
		return s.fail(ctx, span, "register", domain.Errors{domain.ErrUserDuplicateEmail})
	}

	built := domain.NewUser(email, hash, domain.DefaultUserRole,
		domain.Profile{FirstName: req.FirstName, LastName: req.LastName}, nil)
	if built.IsError() {
		return s.fail(ctx, span, "register", built.Errors())
	}

	user := built.Value()
	if created := s.users.Create(ctx, user); created.IsError() {
		return s.fail(ctx, span, "register", created.Errors())
	}

	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	s.metrics.recordCreated(ctx, userEntity)
	s.metrics.recordOperation(ctx, userEntity, "register", nil)
	s.logger.InfoContext(ctx, "User registered", slog.String("user_id", user.ID.String()))
	span.SetStatus(codes.Ok, "registered")
	return domain.Ok(user)
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) domain.Result[string] {
	ctx, span := s.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	verified := s.authn.VerifyCredentials(ctx, req.Email, req.Password)
	if verified.IsError() {
		return domain.FailWith[string](s.fail(ctx, span, "login", verified.Errors()))
	}

	user := verified.Value()
	token, err := s.tokens.IssueToken(user)
	if err != nil {
		span.RecordError(err)
		s.logger.ErrorContext(ctx, "Failed to issue token", slog.String("error", err.Error()))
		return domain.FailWith[string](s.fail(ctx, span, "login", domain.Errors{domain.ErrUnexpected}))
	}

	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	s.metrics.recordOperation(ctx, userEntity, "login", nil)
	s.logger.InfoContext(ctx, "User logged in", slog.String("user_id", user.ID.String()))
	span.SetStatus(codes.Ok, "logged in")
	return domain.Ok(token)
}

// ChangePassword replaces the password of the calling user.
func (s *AuthService) ChangePassword(ctx context.Context, caller auth.Identity, req dto.ChangePasswordRequest) domain.Result[domain.Upserted] {
	ctx, span := s.tracer.Start(ctx, "AuthService.ChangePassword")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", caller.ID.String()))

	found := s.users.GetByID(ctx, caller.ID)
	if found.IsError() {
		return domain.FailWith[domain.Upserted](s.fail(ctx, span, "change_password", found.Errors()))
	}
	user := found.Value()

	if errs := domain.ValidateCredentials(user.Email, req.Password); len(errs) > 0 {
		return domain.FailWith[domain.Upserted](s.fail(ctx, span, "change_password", errs))
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		span.RecordError(err)
		s.logger.ErrorContext(ctx, "Failed to hash password", slog.String("error", err.Error()))
		return domain.FailWith[domain.Upserted](s.fail(ctx, span, "change_password", domain.Errors{domain.ErrUnexpected}))
	}

	user.PasswordHash = hash
	upserted := s.users.Upsert(ctx, user)
	if upserted.IsError() {
		return domain.FailWith[domain.Upserted](s.fail(ctx, span, "change_password", upserted.Errors()))
	}

	s.metrics.recordOperation(ctx, userEntity, "change_password", nil)
	s.logger.InfoContext(ctx, "Password changed", slog.String("user_id", user.ID.String()))
	span.SetStatus(codes.Ok, "password changed")
	return upserted
}

// SearchUsers looks users up by ID, NAME or EMAIL.
func (s *AuthService) SearchUsers(ctx context.Context, params []domain.SearchParameter) domain.Result[[]domain.User] {
	ctx, span := s.tracer.Start(ctx, "AuthService.SearchUsers")
	defer span.End()

	found := s.users.Search(ctx, params)
	if found.IsError() {
		return domain.FailWith[[]domain.User](s.fail(ctx, span, "search", found.Errors()))
	}

	s.metrics.recordOperation(ctx, userEntity, "search", nil)
	span.SetStatus(codes.Ok, "searched")
	return found
}

func (s *AuthService) fail(ctx context.Context, span trace.Span, operation string, errs domain.Errors) domain.Result[domain.User] {
	first := errs[0]
	span.SetStatus(codes.Error, first.Code)
	span.SetAttributes(attribute.String("error.code", first.Code))
	s.logger.WarnContext(ctx, "Auth operation failed",
		slog.String("operation", operation),
		slog.String("code", first.Code),
	)
	s.metrics.recordOperation(ctx, userEntity, operation, errs)
	return domain.Fail[domain.User](errs...)
}
