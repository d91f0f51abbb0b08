package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by services. Handlers map them to HTTP statuses.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrDuplicate    = errors.New("already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrProvider     = errors.New("provider failure")
)

// DetailError carries the client-facing message alongside a sentinel.
type DetailError struct {
	Kind   error
	Detail string
}

func (e *DetailError) Error() string { return e.Detail }

func (e *DetailError) Unwrap() error { return e.Kind }

func validationError(format string, args ...any) error {
	return &DetailError{Kind: ErrValidation, Detail: fmt.Sprintf(format, args...)}
}

func notFound(detail string) error {
	return &DetailError{Kind: ErrNotFound, Detail: detail}
}

func forbidden(detail string) error {
	return &DetailError{Kind: ErrForbidden, Detail: detail}
}

func duplicate(detail string) error {
	return &DetailError{Kind: ErrDuplicate, Detail: detail}
}

func unauthorized(detail string) error {
	return &DetailError{Kind: ErrUnauthorized, Detail: detail}
}
