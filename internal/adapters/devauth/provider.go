package devauth

// Package devauth provides a config-driven identity provider for local
// development. It keeps accounts in memory, accepts any password for the
// seeded dev account, and short-circuits the federated flow by redirecting
// straight back to the local callback.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	domainauth "github.com/bhotel/bhotel-ui-api/internal/domain/auth"
	"github.com/bhotel/bhotel-ui-api/internal/ports"
)

// ErrInvalidCredentials is returned when email/password do not match a known
// dev account.
var ErrInvalidCredentials = errors.New("dev auth: invalid credentials")

// ErrAccountExists is returned by CreateAccount when the email is taken.
var ErrAccountExists = errors.New("dev auth: account already exists")

// Config controls the dev auth provider behavior. UserID and Email seed the
// account returned by the federated flow; Name may be empty.
type Config struct {
	UserID string
	Email  string
	Name   string
}

type account struct {
	identity domainauth.Identity
	password string
}

// Provider implements ports.IdentityProvider and ports.FederatedProvider for
// local development.
type Provider struct {
	mu       sync.Mutex
	accounts map[string]*account // keyed by lowercase email
	current  *domainauth.Identity
	feeds    map[uint64]chan ports.AuthEvent
	nextFeed uint64

	devIdentity domainauth.Identity
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	dev := domainauth.Identity{ID: cfg.UserID, Email: cfg.Email, Name: cfg.Name}
	p := &Provider{
		accounts:    map[string]*account{},
		feeds:       map[uint64]chan ports.AuthEvent{},
		devIdentity: dev,
	}
	// The seeded dev account accepts any password.
	p.accounts[strings.ToLower(cfg.Email)] = &account{identity: dev}
	return p, nil
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

// broadcast delivers the current identity to every subscriber. Caller holds
// the mutex.
func (p *Provider) broadcast() {
	var snapshot *domainauth.Identity
	if p.current != nil {
		cp := *p.current
		snapshot = &cp
	}
	for _, ch := range p.feeds {
		select {
		case ch <- ports.AuthEvent{Identity: snapshot}:
		default:
		}
	}
}

func (p *Provider) SignInWithPassword(_ context.Context, email, password string) (domainauth.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	acct, ok := p.accounts[strings.ToLower(email)]
	if !ok {
		return domainauth.Identity{}, ErrInvalidCredentials
	}
	if acct.password != "" && acct.password != password {
		return domainauth.Identity{}, ErrInvalidCredentials
	}

	ident := acct.identity
	p.current = &ident
	p.broadcast()
	return ident, nil
}

func (p *Provider) CreateAccount(_ context.Context, email, password, name string) (domainauth.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := strings.ToLower(email)
	if _, exists := p.accounts[key]; exists {
		return domainauth.Identity{}, ErrAccountExists
	}

	ident := domainauth.Identity{ID: uuid.NewString(), Email: email, Name: name}
	p.accounts[key] = &account{identity: ident, password: password}
	p.current = &ident
	p.broadcast()
	return ident, nil
}

// SignInWithProvider returns the configured dev identity, standing in for the
// interactive federated popup.
func (p *Provider) SignInWithProvider(_ context.Context) (domainauth.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ident := p.devIdentity
	p.current = &ident
	p.broadcast()
	return ident, nil
}

func (p *Provider) SignOut(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return nil
	}
	p.current = nil
	p.broadcast()
	return nil
}

// SendPasswordResetEmail is a no-op for dev accounts.
func (p *Provider) SendPasswordResetEmail(_ context.Context, _ string) error {
	return nil
}

// Begin returns a local callback URL and cryptographically secure state and
// nonce.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	// The standard handler expects GET /auth/callback?code=...&state=...
	authURL := "/auth/callback?code=dev&state=" + state
	return authURL, state, nonce, nil
}

// Exchange ignores the provided code/state/nonce (validation handled by the
// HTTP handler) and returns the dev identity.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	return p.devIdentity, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	bLen := (n*3 + 3) / 4
	b := make([]byte, bLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) < n {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:n], nil
}
