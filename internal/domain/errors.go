package domain

import (
	"errors"
	"strings"
)

// ErrorKind classifies an Error for the boundary layer.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindConflict
	KindUnexpected
	// KindInvalidQuery marks caller usage errors such as a search without
	// any recognized parameter.
	KindInvalidQuery
	KindUnauthorized
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnexpected:
		return "unexpected"
	case KindInvalidQuery:
		return "invalid_query"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Error is a typed, coded failure carried by a Result.
type Error struct {
	Kind        ErrorKind
	Code        string
	Description string
}

func (e Error) Error() string {
	return e.Code + ": " + e.Description
}

func ValidationError(code, description string) Error {
	return Error{Kind: KindValidation, Code: code, Description: description}
}

func NotFoundError(code, description string) Error {
	return Error{Kind: KindNotFound, Code: code, Description: description}
}

func ConflictError(code, description string) Error {
	return Error{Kind: KindConflict, Code: code, Description: description}
}

func UnexpectedError(code, description string) Error {
	return Error{Kind: KindUnexpected, Code: code, Description: description}
}

func InvalidQueryError(code, description string) Error {
	return Error{Kind: KindInvalidQuery, Code: code, Description: description}
}

func UnauthorizedError(code, description string) Error {
	return Error{Kind: KindUnauthorized, Code: code, Description: description}
}

// Errors is an ordered list of Error values that also satisfies error.
type Errors []Error

func (es Errors) Error() string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// AllOfKind reports whether every error has kind k. It is false for an empty list.
func (es Errors) AllOfKind(k ErrorKind) bool {
	if len(es) == 0 {
		return false
	}
	for _, e := range es {
		if e.Kind != k {
			return false
		}
	}
	return true
}

// AnyOfKind reports whether at least one error has kind k.
func (es Errors) AnyOfKind(k ErrorKind) bool {
	for _, e := range es {
		if e.Kind == k {
			return true
		}
	}
	return false
}

// IsKind reports whether err carries a domain Error of kind k.
func IsKind(err error, k ErrorKind) bool {
	var list Errors
	if errors.As(err, &list) {
		return list.AnyOfKind(k)
	}
	var single Error
	if errors.As(err, &single) {
		return single.Kind == k
	}
	return false
}

// ErrDocumentNotFound is returned by document stores when no live document matches an id.
var ErrDocumentNotFound = errors.New("document not found")

// ErrDuplicateDocument is returned by document stores when a write breaks a
// uniqueness constraint on the document body.
var ErrDuplicateDocument = errors.New("duplicate document")

// General errors shared by every entity kind.
var (
	ErrUnexpected = UnexpectedError("General.Unexpected", "An unexpected error occurred")

	ErrInvalidSearchParameters = InvalidQueryError(
		"Search.InvalidParameters",
		"Invalid search parameters specified")
)

// InvalidIdentifierError reports a search parameter whose value is not a valid identifier.
func InvalidIdentifierError(name, value string) Error {
	return InvalidQueryError(
		"Search.InvalidIdentifier",
		"Search parameter "+name+" has an invalid identifier value '"+value+"'")
}
