package service

import (
	"errors"
	"fmt"
)

// Errors returned by the services. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrAuthorizationRequired = errors.New("authorization required")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrForbidden             = errors.New("forbidden")
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("not found")
	ErrUpstreamUnavailable   = errors.New("upstream unavailable")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func upstreamError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUpstreamUnavailable, err)
}
