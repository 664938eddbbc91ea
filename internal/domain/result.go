package domain

// Result carries either a value or a non-empty list of errors.
type Result[T any] struct {
	value T
	errs  Errors
}

// Ok wraps a successful value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Fail builds a failed result. A call without errors yields ErrUnexpected so
// that a failed result is never empty.
func Fail[T any](errs ...Error) Result[T] {
	if len(errs) == 0 {
		errs = []Error{ErrUnexpected}
	}
	out := make(Errors, len(errs))
	copy(out, errs)
	return Result[T]{errs: out}
}

// FailWith re-types the errors of another failed result.
func FailWith[T any, U any](other Result[U]) Result[T] {
	return Fail[T](other.errs...)
}

func (r Result[T]) IsError() bool { return len(r.errs) > 0 }

// Value returns the wrapped value, or the zero value for a failed result.
func (r Result[T]) Value() T { return r.value }

func (r Result[T]) Errors() Errors {
	out := make(Errors, len(r.errs))
	copy(out, r.errs)
	return out
}

// FirstError returns the first error, or the zero Error for a successful result.
func (r Result[T]) FirstError() Error {
	if len(r.errs) == 0 {
		return Error{}
	}
	return r.errs[0]
}

// Unwrap converts the result to the (value, error) pair.
func (r Result[T]) Unwrap() (T, error) {
	if r.IsError() {
		var zero T
		return zero, r.Errors()
	}
	return r.value, nil
}

// Match dispatches to onValue or onErrors.
func Match[T any, R any](r Result[T], onValue func(T) R, onErrors func(Errors) R) R {
	if r.IsError() {
		return onErrors(r.Errors())
	}
	return onValue(r.value)
}

// Created, Deleted and Upserted are the success markers of mutating operations.
type Created struct{}

type Deleted struct{}

// Upserted reports whether an upsert created the record. The store contract
// never creates on upsert, so IsNewlyCreated is currently always false.
type Upserted struct {
	IsNewlyCreated bool
}
