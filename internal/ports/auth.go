package ports

// Package ports defines interfaces (hexagonal ports) for the external
// collaborators the site consumes: the identity provider, the role store,
// the session store, and supporting infrastructure. Implementations live in
// internal/adapters; orchestration in internal/service and internal/session.

import (
	"context"
	"errors"

	domainauth "github.com/bhotel/bhotel-ui-api/internal/domain/auth"
)

// AuthEvent is an identity-change notification. A nil Identity means the
// provider now has no signed-in identity.
type AuthEvent struct {
	Identity *domainauth.Identity
}

// IdentityProvider authenticates principals and emits identity-change
// notifications. Provider failures are returned as provider-defined errors;
// callers wrap them into the session error taxonomy.
type IdentityProvider interface {
	// AuthStateChanges subscribes to identity-change notifications.
	// Events are delivered in emission order. The returned cancel func
	// releases the subscription; after cancel the channel is closed.
	AuthStateChanges() (<-chan AuthEvent, func())

	// SignInWithPassword authenticates with email/password credentials.
	SignInWithPassword(ctx context.Context, email, password string) (domainauth.Identity, error)

	// CreateAccount registers a new identity with the given credentials
	// and display name.
	CreateAccount(ctx context.Context, email, password, name string) (domainauth.Identity, error)

	// SignInWithProvider performs an interactive federated sign-in and
	// returns the resulting identity. Providers without an interactive
	// flow return ErrFederatedUnsupported.
	SignInWithProvider(ctx context.Context) (domainauth.Identity, error)

	// SignOut ends the provider-side session. Safe to call when no
	// identity is signed in.
	SignOut(ctx context.Context) error

	// SendPasswordResetEmail triggers the provider's password-reset
	// email flow. Has no effect on any active session.
	SendPasswordResetEmail(ctx context.Context, email string) error
}

// ErrFederatedUnsupported is returned by providers that have no interactive
// federated flow.
var ErrFederatedUnsupported = errors.New("federated sign-in not supported by this provider")

// ErrResetTokenInvalid is returned by PasswordResetter when a reset token
// fails verification or has expired.
var ErrResetTokenInvalid = errors.New("password reset token invalid")

// ErrPasswordResetUnsupported is returned when the configured identity
// provider issues no redeemable reset tokens.
var ErrPasswordResetUnsupported = errors.New("password reset not supported by this provider")

// PasswordResetter redeems password-reset tokens. Providers whose
// SendPasswordResetEmail issues redeemable tokens implement it alongside
// IdentityProvider.
type PasswordResetter interface {
	// ResetPassword verifies the token and stores the new password.
	// Returns ErrResetTokenInvalid for bad or expired tokens.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// BeginInput carries inputs for initiating a redirect-based auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// FederatedProvider initiates and completes a redirect-based federated
// sign-in flow (the server-side shape of a provider popup).
type FederatedProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an
	// opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and
	// returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ErrRoleNotFound is returned by RoleStore.GetRole when no role record
// exists for the identity. Absence is distinct from lookup failure.
var ErrRoleNotFound = errors.New("no role record for identity")

// UserProfile is the role-store record for an identity.
type UserProfile struct {
	UserID string
	Email  string
	Name   string
	Role   domainauth.Role
}

// RoleStore persists per-identity roles separately from the identity
// provider.
type RoleStore interface {
	// GetRole resolves the stored role for an identity. Returns
	// ErrRoleNotFound when no record exists.
	GetRole(ctx context.Context, userID string) (domainauth.Role, error)

	// SetRole writes the role with merge semantics: only the role field
	// changes, other profile fields are preserved.
	SetRole(ctx context.Context, userID string, role domainauth.Role) error

	// EnsureProfile creates the profile record if it does not exist
	// (first sign-up or first federated login). An existing record is
	// left untouched.
	EnsureProfile(ctx context.Context, profile UserProfile) error
}

// SessionStore persists and retrieves server-side user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}
