package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Principal is the authenticated account. Every event and suggestion call
// is scoped to Principal.UserID.
type Principal struct {
	UserID string
}

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// Authenticator checks the single configured credential.
type Authenticator struct {
	username       string
	passwordHash   string
	verifyPassword PasswordVerifier
	logger         *slog.Logger
}

// NewAuthenticator validates the configured hash up front so a typo fails at
// startup instead of on the first request.
func NewAuthenticator(username, passwordHash string, verify PasswordVerifier, logger *slog.Logger) (*Authenticator, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fieldError("username", "is required")
	}
	if err := ValidatePasswordHash(passwordHash); err != nil {
		return nil, fmt.Errorf("auth password hash: %w", err)
	}
	if verify == nil {
		verify = VerifyPassword
	}
	return &Authenticator{
		username:       username,
		passwordHash:   passwordHash,
		verifyPassword: verify,
		logger:         defaultLogger(logger),
	}, nil
}

// Authenticate returns the principal for matching credentials and
// ErrUnauthorized otherwise.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (principal Principal, err error) {
	if a == nil {
		return Principal{}, fmt.Errorf("Authenticator is nil")
	}

	logger := serviceLogger(ctx, a.logger, "Authenticator", "Authenticate", "username", username)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "authentication failed", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	if username == "" || password == "" {
		err = ErrUnauthorized
		return
	}

	userMatches := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	verifyErr := a.verifyPassword(a.passwordHash, password)
	if !userMatches || verifyErr != nil {
		if verifyErr != nil && !errors.Is(verifyErr, ErrInvalidCredentials) {
			err = fmt.Errorf("%w: %v", ErrUnauthorized, verifyErr)
			return
		}
		err = ErrUnauthorized
		return
	}

	principal = Principal{UserID: a.username}
	return
}
