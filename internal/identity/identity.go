// Package identity talks to the identity provider that owns user accounts.
package identity

import (
	"context"
	"errors"

	"github.com/musicbesties/api/internal/model"
)

var (
	// ErrInvalidCredentials is returned for a bad email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned when a bearer token cannot be verified.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUserExists is returned when signing up with a registered email.
	ErrUserExists = errors.New("user already registered")
)

// Verifier resolves bearer tokens to users.
type Verifier interface {
	Verify(ctx context.Context, token string) (*model.User, error)
}

// Provider manages accounts and sessions.
type Provider interface {
	Verifier

	// SignUp registers a user; username is stored as user metadata.
	SignUp(ctx context.Context, email, password, username string) (*model.Session, error)
	SignIn(ctx context.Context, email, password string) (*model.Session, error)
	SignOut(ctx context.Context, token string) error
}
