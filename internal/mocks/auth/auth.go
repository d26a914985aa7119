package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/bhotel/bhotel-ui-api/internal/domain/auth"
	"github.com/bhotel/bhotel-ui-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider  = (*FakeIdentityProvider)(nil)
	_ ports.PasswordResetter  = (*FakeIdentityProvider)(nil)
	_ ports.FederatedProvider = (*MockFederatedProvider)(nil)
	_ ports.RoleStore         = (*MemoryRoleStore)(nil)
	_ ports.SessionStore      = (*MemorySessionStore)(nil)
)

// FakeIdentityProvider simulates an identity provider for tests. Tests drive
// the auth-state feed directly with Emit and can override any operation with
// a func field.
type FakeIdentityProvider struct {
	SignInFunc        func(ctx context.Context, email, password string) (domainauth.Identity, error)
	CreateAccountFunc func(ctx context.Context, email, password, name string) (domainauth.Identity, error)
	FederatedFunc     func(ctx context.Context) (domainauth.Identity, error)
	SignOutFunc       func(ctx context.Context) error
	ResetFunc         func(ctx context.Context, email string) error
	ResetPasswordFunc func(ctx context.Context, token, newPassword string) error

	mu       sync.Mutex
	feeds    map[int]chan ports.AuthEvent
	nextFeed int

	SignOutCalls       int
	ResetCalls         int
	ResetRedeemedCalls int
}

// NewFakeIdentityProvider constructs an empty fake provider.
func NewFakeIdentityProvider() *FakeIdentityProvider {
	return &FakeIdentityProvider{feeds: make(map[int]chan ports.AuthEvent)}
}

// Emit delivers an identity-change notification to all subscribers.
func (p *FakeIdentityProvider) Emit(identity *domainauth.Identity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range p.feeds {
		ch <- ports.AuthEvent{Identity: identity}
	}
}

func (p *FakeIdentityProvider) AuthStateChanges() (<-chan ports.AuthEvent, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextFeed
	p.nextFeed++
	ch := make(chan ports.AuthEvent, 16)
	p.feeds[id] = ch
	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if feed, ok := p.feeds[id]; ok {
			close(feed)
			delete(p.feeds, id)
		}
	}
	return ch, cancel
}

func (p *FakeIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (domainauth.Identity, error) {
	if p.SignInFunc != nil {
		return p.SignInFunc(ctx, email, password)
	}
	return domainauth.Identity{ID: "fake-" + email, Email: email, Name: "Fake User"}, nil
}

func (p *FakeIdentityProvider) CreateAccount(ctx context.Context, email, password, name string) (domainauth.Identity, error) {
	if p.CreateAccountFunc != nil {
		return p.CreateAccountFunc(ctx, email, password, name)
	}
	return domainauth.Identity{ID: "fake-" + email, Email: email, Name: name}, nil
}

func (p *FakeIdentityProvider) SignInWithProvider(ctx context.Context) (domainauth.Identity, error) {
	if p.FederatedFunc != nil {
		return p.FederatedFunc(ctx)
	}
	return domainauth.Identity{}, ports.ErrFederatedUnsupported
}

func (p *FakeIdentityProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.SignOutCalls++
	p.mu.Unlock()
	if p.SignOutFunc != nil {
		return p.SignOutFunc(ctx)
	}
	return nil
}

func (p *FakeIdentityProvider) SendPasswordResetEmail(ctx context.Context, email string) error {
	p.mu.Lock()
	p.ResetCalls++
	p.mu.Unlock()
	if p.ResetFunc != nil {
		return p.ResetFunc(ctx, email)
	}
	return nil
}

func (p *FakeIdentityProvider) ResetPassword(ctx context.Context, token, newPassword string) error {
	p.mu.Lock()
	p.ResetRedeemedCalls++
	p.mu.Unlock()
	if p.ResetPasswordFunc != nil {
		return p.ResetPasswordFunc(ctx, token, newPassword)
	}
	return nil
}

// MockFederatedProvider simulates a redirect-based federated provider with
// deterministic state/nonce values.
type MockFederatedProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (string, string, string, error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	AuthURL     string
	DefaultUser domainauth.Identity

	callCount int
}

// NewMockFederatedProvider creates a MockFederatedProvider with sensible defaults.
func NewMockFederatedProvider() *MockFederatedProvider {
	return &MockFederatedProvider{
		AuthURL: "https://mock-idp/auth",
		DefaultUser: domainauth.Identity{
			ID:    "mock-user-1",
			Email: "mock.user@example.com",
			Name:  "Mock User",
		},
	}
}

func (m *MockFederatedProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}
	m.callCount++
	return m.AuthURL, fmt.Sprintf("state-%d", m.callCount), fmt.Sprintf("nonce-%d", m.callCount), nil
}

func (m *MockFederatedProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	return m.DefaultUser, nil
}

// MemoryRoleStore is an in-memory RoleStore. Func fields override behavior
// per call when tests need to inject failures or latency.
type MemoryRoleStore struct {
	GetRoleFunc       func(ctx context.Context, userID string) (domainauth.Role, error)
	SetRoleFunc       func(ctx context.Context, userID string, role domainauth.Role) error
	EnsureProfileFunc func(ctx context.Context, profile ports.UserProfile) error

	mu       sync.Mutex
	profiles map[string]ports.UserProfile
}

// NewMemoryRoleStore constructs an empty role store.
func NewMemoryRoleStore() *MemoryRoleStore {
	return &MemoryRoleStore{profiles: make(map[string]ports.UserProfile)}
}

// Seed installs a profile directly, bypassing any Func overrides.
func (s *MemoryRoleStore) Seed(profile ports.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
}

func (s *MemoryRoleStore) GetRole(ctx context.Context, userID string) (domainauth.Role, error) {
	if s.GetRoleFunc != nil {
		return s.GetRoleFunc(ctx, userID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return domainauth.RoleAbsent, ports.ErrRoleNotFound
	}
	return p.Role, nil
}

func (s *MemoryRoleStore) SetRole(ctx context.Context, userID string, role domainauth.Role) error {
	if s.SetRoleFunc != nil {
		return s.SetRoleFunc(ctx, userID, role)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return ports.ErrRoleNotFound
	}
	p.Role = role
	s.profiles[userID] = p
	return nil
}

func (s *MemoryRoleStore) EnsureProfile(ctx context.Context, profile ports.UserProfile) error {
	if s.EnsureProfileFunc != nil {
		return s.EnsureProfileFunc(ctx, profile)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[profile.UserID]; ok {
		return nil
	}
	s.profiles[profile.UserID] = profile
	return nil
}

// MemorySessionStore is an in-memory SessionStore honoring expiry.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore constructs an empty session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

// ErrSessionNotFound is returned when a session does not exist.
var ErrSessionNotFound = fmt.Errorf("session not found")

func (s *MemorySessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrSessionNotFound
	}
	if !sess.ExpiresAt.IsZero() && time.Now().After(sess.ExpiresAt) {
		delete(s.sessions, id)
		return domainauth.Session{}, ErrSessionNotFound
	}
	return sess, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
