package pgauth

// Package pgauth provides a password-based identity provider backed by the
// site's own users table. Federated sign-in is delegated to the OIDC adapter,
// so SignInWithProvider reports ErrFederatedUnsupported here.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/bhotel/bhotel-ui-api/internal/domain/auth"
	"github.com/bhotel/bhotel-ui-api/internal/ports"
)

// ErrInvalidCredentials is returned when email/password do not match a stored
// account.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrResetTokenInvalid is returned when a password-reset token fails
// verification or has expired.
var ErrResetTokenInvalid = ports.ErrResetTokenInvalid

var _ ports.PasswordResetter = (*Provider)(nil)

// ResetMailer delivers a password-reset token to the account's email. The
// default implementation only logs the token.
type ResetMailer func(ctx context.Context, email, token string) error

// Options configures the password provider.
type Options struct {
	Store       ports.CredentialStore
	Logger      *slog.Logger
	ResetSecret []byte        // HS256 signing key for reset tokens
	ResetTTL    time.Duration // default 1h when zero
	BcryptCost  int           // default bcrypt.DefaultCost when zero
	Mailer      ResetMailer   // optional
}

// Provider implements ports.IdentityProvider over a CredentialStore.
type Provider struct {
	store      ports.CredentialStore
	logger     *slog.Logger
	secret     []byte
	resetTTL   time.Duration
	bcryptCost int
	mailer     ResetMailer

	mu       sync.Mutex
	current  *domainauth.Identity
	feeds    map[uint64]chan ports.AuthEvent
	nextFeed uint64
}

// NewProvider constructs the password provider.
func NewProvider(opts Options) (*Provider, error) {
	if opts.Store == nil {
		return nil, errors.New("pgauth: Store is required")
	}
	if len(opts.ResetSecret) == 0 {
		return nil, errors.New("pgauth: ResetSecret is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := opts.ResetTTL
	if ttl == 0 {
		ttl = time.Hour
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Provider{
		store:      opts.Store,
		logger:     logger,
		secret:     opts.ResetSecret,
		resetTTL:   ttl,
		bcryptCost: cost,
		mailer:     opts.Mailer,
		feeds:      map[uint64]chan ports.AuthEvent{},
	}, nil
}

func (p *Provider) AuthStateChanges() (<-chan ports.AuthEvent, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextFeed
	p.nextFeed++
	ch := make(chan ports.AuthEvent, 16)
	p.feeds[id] = ch
	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if c, ok := p.feeds[id]; ok {
			delete(p.feeds, id)
			close(c)
		}
	}
	return ch, cancel
}

func (p *Provider) setCurrent(ident *domainauth.Identity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = ident
	var snapshot *domainauth.Identity
	if ident != nil {
		cp := *ident
		snapshot = &cp
	}
	for _, ch := range p.feeds {
		select {
		case ch <- ports.AuthEvent{Identity: snapshot}:
		default:
		}
	}
}

func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (domainauth.Identity, error) {
	cred, err := p.store.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ports.ErrCredentialNotFound) {
			return domainauth.Identity{}, ErrInvalidCredentials
		}
		return domainauth.Identity{}, fmt.Errorf("lookup credential: %w", err)
	}
	if cred.PasswordHash == "" {
		// Federated-only account; no password to compare.
		return domainauth.Identity{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return domainauth.Identity{}, ErrInvalidCredentials
	}

	ident := domainauth.Identity{ID: cred.UserID, Email: cred.Email, Name: cred.Name}
	p.setCurrent(&ident)
	return ident, nil
}

func (p *Provider) CreateAccount(ctx context.Context, email, password, name string) (domainauth.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.bcryptCost)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	cred := ports.Credential{
		UserID:       uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         name,
		PasswordHash: string(hash),
	}
	if createErr := p.store.Create(ctx, cred); createErr != nil {
		if errors.Is(createErr, ports.ErrEmailTaken) {
			return domainauth.Identity{}, ports.ErrEmailTaken
		}
		return domainauth.Identity{}, fmt.Errorf("create credential: %w", createErr)
	}

	ident := domainauth.Identity{ID: cred.UserID, Email: cred.Email, Name: cred.Name}
	p.setCurrent(&ident)
	return ident, nil
}

func (p *Provider) SignInWithProvider(_ context.Context) (domainauth.Identity, error) {
	return domainauth.Identity{}, ports.ErrFederatedUnsupported
}

func (p *Provider) SignOut(_ context.Context) error {
	p.mu.Lock()
	signedIn := p.current != nil
	p.mu.Unlock()
	if signedIn {
		p.setCurrent(nil)
	}
	return nil
}

// SendPasswordResetEmail issues a signed reset token and hands it to the
// mailer. Unknown emails are silently accepted so the endpoint does not leak
// which addresses have accounts.
func (p *Provider) SendPasswordResetEmail(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	cred, err := p.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrCredentialNotFound) {
			p.logger.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("lookup credential: %w", err)
	}

	token, err := p.issueResetToken(cred.UserID)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	if p.mailer != nil {
		return p.mailer(ctx, cred.Email, token)
	}
	p.logger.Info("password reset token issued", "user_id", cred.UserID)
	return nil
}

// ResetPassword redeems a reset token and stores the new password hash.
func (p *Provider) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := p.verifyResetToken(token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), p.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if updateErr := p.store.UpdatePassword(ctx, userID, string(hash)); updateErr != nil {
		return fmt.Errorf("update password: %w", updateErr)
	}
	return nil
}

type resetClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

const resetPurpose = "password-reset"

func (p *Provider) issueResetToken(userID string) (string, error) {
	now := time.Now()
	claims := resetClaims{
		Purpose: resetPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.resetTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

func (p *Provider) verifyResetToken(token string) (string, error) {
	var claims resetClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return p.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrResetTokenInvalid
	}
	if claims.Purpose != resetPurpose || claims.Subject == "" {
		return "", ErrResetTokenInvalid
	}
	return claims.Subject, nil
}
