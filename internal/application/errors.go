package application

import (
	"errors"
	"fmt"

	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/persistence"
)

var (
	// ErrUnauthorized is returned when credentials are missing or wrong.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested event, suggestion or template does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a suggestion was already accepted.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrInvalidCredentials is returned when a password does not match its hash.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
)

// fieldError builds a single-field validation error.
func fieldError(field, message string) error {
	verr := &calendar.ValidationError{}
	verr.Add(field, message)
	return verr
}

func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrAlreadyExists):
		return err
	case errors.Is(err, persistence.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, persistence.ErrDuplicate):
		return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
	case errors.Is(err, persistence.ErrConstraintViolation):
		return fieldError("event", "violates a storage constraint")
	}
	return err
}
