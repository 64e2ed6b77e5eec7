package models

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated  = errors.New("not authenticated")
	ErrForbidden        = errors.New("not authorized")
	ErrValidation       = errors.New("validation failed")
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFound         = errors.New("not found")
)

// ValidationError carries a caller-facing message and matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError names the missing resource and matches ErrNotFound.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

// StoreError wraps a persistence failure. Its message is the underlying
// driver message, unmodified.
type StoreError struct {
	Op        string
	Err       error
	Duplicate bool
}

func (e *StoreError) Error() string { return e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError wraps err unless it already is a StoreError or a domain error.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) || IsDomainError(err) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// IsDuplicate reports whether err is a unique-constraint violation.
func IsDuplicate(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Duplicate
}

// IsDomainError reports whether err is one of the typed engine errors
// rather than an infrastructure failure.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrUnauthenticated, ErrForbidden, ErrValidation,
		ErrSelfFollow, ErrAlreadyFollowing, ErrNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ErrorKind classifies an error for callers that branch on it.
type ErrorKind string

const (
	KindNone             ErrorKind = "ok"
	KindUnauthenticated  ErrorKind = "unauthenticated"
	KindForbidden        ErrorKind = "forbidden"
	KindValidation       ErrorKind = "validation"
	KindSelfFollow       ErrorKind = "self_follow"
	KindAlreadyFollowing ErrorKind = "already_following"
	KindNotFound         ErrorKind = "not_found"
	KindStore            ErrorKind = "store"
	KindInternal         ErrorKind = "internal"
)

func KindOf(err error) ErrorKind {
	var se *StoreError
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrSelfFollow):
		return KindSelfFollow
	case errors.Is(err, ErrAlreadyFollowing):
		return KindAlreadyFollowing
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.As(err, &se):
		return KindStore
	}
	return KindInternal
}
