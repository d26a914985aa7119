package ports

import (
	"context"
	"errors"
)

// ErrCredentialNotFound is returned by CredentialStore implementations when
// no account exists for the lookup key.
var ErrCredentialNotFound = errors.New("credential not found")

// ErrEmailTaken is returned when the email already has an account.
var ErrEmailTaken = errors.New("email already registered")

// Credential is a stored account record with its password hash.
type Credential struct {
	UserID       string
	Email        string
	Name         string
	PasswordHash string
}

// CredentialStore persists account credentials for the password identity
// provider.
type CredentialStore interface {
	// FindByEmail returns the credential for the email, or
	// ErrCredentialNotFound.
	FindByEmail(ctx context.Context, email string) (Credential, error)

	// Create stores a new credential. Returns ErrEmailTaken when the email
	// already has an account.
	Create(ctx context.Context, cred Credential) error

	// UpdatePassword replaces the stored password hash for the user.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}
