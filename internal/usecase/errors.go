package usecase

import (
	"errors"
	"fmt"
)

// Sentinel categories; the HTTP layer maps them to status codes. Survivor rule
// violations live in domain/survivor.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s=%s", ErrNotFound, kind, id)
}

func adminOnly(action string) error {
	return fmt.Errorf("%w: only administrators can %s", ErrForbidden, action)
}
