package domain

import (
	"encoding/binary"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	UserMinPasswordLength = 6
	UserMaxPasswordLength = 100

	DefaultUserRole = "User"
)

var (
	ErrUserInvalidEmail = ValidationError("User.InvalidEmail", "Email must be a valid email address.")

	ErrUserInvalidPassword = ValidationError(
		"User.InvalidPassword",
		fmt.Sprintf("Password must be at least %d characters long and at most %d characters long.",
			UserMinPasswordLength, UserMaxPasswordLength))

	ErrUserNotFound         = NotFoundError("User.NotFound", "User not found")
	ErrUserDuplicateEmail   = ConflictError("User.DuplicateEmail", "User already exists.")
	ErrUserWrongCredentials = UnauthorizedError("User.WrongCredentials", "Wrong password.")
)

// Profile holds the user's personal data.
type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	// UserID is the numeric identifier carried in token claims.
	UserID int64 `json:"userId"`
}

// User is an account able to authenticate against the API. PasswordHash is an
// argon2id PHC string and embeds its salt.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Role         string    `json:"role"`
	Profile      Profile   `json:"profile"`
}

func (u User) EntityID() uuid.UUID { return u.ID }

// ValidateCredentials checks a raw email/password pair before hashing.
func ValidateCredentials(email, password string) []Error {
	var errs []Error
	if !validEmail(email) {
		errs = append(errs, ErrUserInvalidEmail)
	}
	if n := utf8.RuneCountInString(password); n < UserMinPasswordLength || n > UserMaxPasswordLength {
		errs = append(errs, ErrUserInvalidPassword)
	}
	return errs
}

// NewUser builds a user from an already hashed password. The numeric profile
// id is derived from the identifier when not supplied.
func NewUser(email, passwordHash, role string, profile Profile, id *uuid.UUID) Result[User] {
	var errs []Error
	if !validEmail(email) {
		errs = append(errs, ErrUserInvalidEmail)
	}
	if passwordHash == "" {
		errs = append(errs, ErrUserInvalidPassword)
	}
	if len(errs) > 0 {
		return Fail[User](errs...)
	}

	if role == "" {
		role = DefaultUserRole
	}
	uid := idOrNew(id)
	if profile.UserID == 0 {
		profile.UserID = NumericUserID(uid)
	}

	return Ok(User{
		ID:           uid,
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         role,
		Profile:      profile,
	})
}

// NormalizeEmail is the stored form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NumericUserID maps a uuid onto a positive int64.
func NumericUserID(id uuid.UUID) int64 {
	return int64(binary.BigEndian.Uint64(id[:8]) >> 1)
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
