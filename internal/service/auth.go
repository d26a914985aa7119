package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/bhotel/bhotel-ui-api/internal/domain/auth"
	"github.com/bhotel/bhotel-ui-api/internal/ports"
)

// ErrSessionExpired is returned by GetSession when the stored session has
// passed its expiry. The stale record is deleted before returning.
var ErrSessionExpired = errors.New("session expired")

const defaultSessionTTL = 24 * time.Hour

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider   ports.IdentityProvider  // Required: password identity provider
	Federated  ports.FederatedProvider // Optional: redirect-based provider
	Sessions   ports.SessionStore      // Required: server-side session store
	Roles      ports.RoleStore         // Required: per-identity role records
	Logger     *slog.Logger            // Optional: structured logger
	SessionTTL time.Duration           // Optional: defaults to 24h
}

// AuthService orchestrates sign-in flows: it authenticates against the
// identity provider, resolves the role from the role store, and persists a
// server-side session.
type AuthService struct {
	provider   ports.IdentityProvider
	federated  ports.FederatedProvider
	sessions   ports.SessionStore
	roles      ports.RoleStore
	logger     *slog.Logger
	sessionTTL time.Duration

	now func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Provider == nil {
		return nil, errors.New("IdentityProvider is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("SessionStore is required")
	}
	if opts.Roles == nil {
		return nil, errors.New("RoleStore is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	return &AuthService{
		provider:   opts.Provider,
		federated:  opts.Federated,
		sessions:   opts.Sessions,
		roles:      opts.Roles,
		logger:     logger.With("component", "auth_service"),
		sessionTTL: ttl,
		now:        time.Now,
	}, nil
}

// BeginLoginResult contains the result of beginning a federated login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates a federated authentication flow and returns the
// provider auth URL with state and nonce. Returns ErrFederatedUnsupported
// when no federated provider is configured.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.federated == nil {
		return nil, ports.ErrFederatedUnsupported
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.federated.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a federated login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLogin completes a federated authentication flow: it exchanges the
// code for an identity, resolves the role (writing a default-role profile on
// first login), and persists a session.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*domainauth.Session, error) {
	if s.federated == nil {
		return nil, ports.ErrFederatedUnsupported
	}
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.federated.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	role, err := s.resolveRole(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.createSession(ctx, identity, role)
}

// PasswordLogin authenticates with email/password credentials and persists a
// session on success.
func (s *AuthService) PasswordLogin(ctx context.Context, email, password string) (*domainauth.Session, error) {
	identity, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.logger.WarnContext(ctx, "password sign-in rejected", "email", email, "error", err)
		return nil, err
	}

	role, err := s.resolveRole(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.createSession(ctx, identity, role)
}

// Register creates a new account with the default role and signs it in.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*domainauth.Session, error) {
	identity, err := s.provider.CreateAccount(ctx, email, password, name)
	if err != nil {
		s.logger.WarnContext(ctx, "account creation rejected", "email", email, "error", err)
		return nil, err
	}

	profile := ports.UserProfile{
		UserID: identity.ID,
		Email:  identity.Email,
		Name:   identity.Name,
		Role:   domainauth.DefaultRole,
	}
	if err := s.roles.EnsureProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("write default role: %w", err)
	}
	return s.createSession(ctx, identity, domainauth.DefaultRole)
}

// GetSession retrieves a session by ID. An expired session is deleted from
// the store and reported as ErrSessionExpired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if s.now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(ErrSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// Logout removes a session and ends the provider-side session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if err := s.provider.SignOut(ctx); err != nil {
		s.logger.WarnContext(ctx, "provider sign-out failed", "error", err)
	}
	return nil
}

// RequestPasswordReset triggers the provider's password-reset email flow. It
// has no effect on any active session.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if err := s.provider.SendPasswordResetEmail(ctx, email); err != nil {
		return fmt.Errorf("send password reset email: %w", err)
	}
	return nil
}

// ConfirmPasswordReset redeems a reset token and stores the new password.
// Returns ports.ErrPasswordResetUnsupported when the configured provider
// issues no redeemable tokens, and ports.ErrResetTokenInvalid for bad or
// expired tokens.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	resetter, ok := s.provider.(ports.PasswordResetter)
	if !ok {
		return ports.ErrPasswordResetUnsupported
	}
	if err := resetter.ResetPassword(ctx, token, newPassword); err != nil {
		if errors.Is(err, ports.ErrResetTokenInvalid) {
			return err
		}
		return fmt.Errorf("reset password: %w", err)
	}
	s.logger.InfoContext(ctx, "password reset completed")
	return nil
}

// SetRole writes a new role for a user with merge semantics: only the role
// field changes.
func (s *AuthService) SetRole(ctx context.Context, userID string, role domainauth.Role) error {
	if userID == "" {
		return errors.New("user ID is required")
	}
	if !role.Known() {
		return fmt.Errorf("unknown role %q", string(role))
	}

	if err := s.roles.SetRole(ctx, userID, role); err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	s.logger.InfoContext(ctx, "role updated", "user_id", userID, "role", role)
	return nil
}

// resolveRole fetches the stored role for an identity. A first-time identity
// gets a default-role profile record before the session is created.
func (s *AuthService) resolveRole(ctx context.Context, identity domainauth.Identity) (domainauth.Role, error) {
	role, err := s.roles.GetRole(ctx, identity.ID)
	switch {
	case errors.Is(err, ports.ErrRoleNotFound):
		profile := ports.UserProfile{
			UserID: identity.ID,
			Email:  identity.Email,
			Name:   identity.Name,
			Role:   domainauth.DefaultRole,
		}
		if writeErr := s.roles.EnsureProfile(ctx, profile); writeErr != nil {
			return domainauth.RoleAbsent, fmt.Errorf("write default role on first login: %w", writeErr)
		}
		return domainauth.DefaultRole, nil
	case err != nil:
		return domainauth.RoleAbsent, fmt.Errorf("resolve role: %w", err)
	}
	return role, nil
}

// createSession persists a fresh session for the identity and role.
func (s *AuthService) createSession(ctx context.Context, identity domainauth.Identity, role domainauth.Role) (*domainauth.Session, error) {
	session := domainauth.Session{
		ID:        generateSessionID(),
		UserID:    identity.ID,
		Name:      identity.Name,
		Email:     identity.Email,
		Role:      role,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &session, nil
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	return uuid.NewString()
}
