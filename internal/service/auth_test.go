package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/bhotel/bhotel-ui-api/internal/domain/auth"
	"github.com/bhotel/bhotel-ui-api/internal/ports"
)

type fakeIdentityProvider struct {
	identity    domainauth.Identity
	signInErr   error
	createErr   error
	resetEmails []string
	signedOut   bool
}

func (f *fakeIdentityProvider) AuthStateChanges() (<-chan ports.AuthEvent, func()) {
	ch := make(chan ports.AuthEvent)
	return ch, func() { close(ch) }
}

func (f *fakeIdentityProvider) SignInWithPassword(_ context.Context, _, _ string) (domainauth.Identity, error) {
	if f.signInErr != nil {
		return domainauth.Identity{}, f.signInErr
	}
	return f.identity, nil
}

func (f *fakeIdentityProvider) CreateAccount(_ context.Context, email, _, name string) (domainauth.Identity, error) {
	if f.createErr != nil {
		return domainauth.Identity{}, f.createErr
	}
	return domainauth.Identity{ID: "new-user", Email: email, Name: name}, nil
}

func (f *fakeIdentityProvider) SignInWithProvider(context.Context) (domainauth.Identity, error) {
	return domainauth.Identity{}, ports.ErrFederatedUnsupported
}

func (f *fakeIdentityProvider) SignOut(context.Context) error {
	f.signedOut = true
	return nil
}

func (f *fakeIdentityProvider) SendPasswordResetEmail(_ context.Context, email string) error {
	f.resetEmails = append(f.resetEmails, email)
	return nil
}

type fakeFederatedProvider struct {
	identity    domainauth.Identity
	exchangeErr error
}

func (f *fakeFederatedProvider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	return "https://idp.example.com/auth?redirect=" + in.RedirectURL, "state-1", "nonce-1", nil
}

func (f *fakeFederatedProvider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	if f.exchangeErr != nil {
		return domainauth.Identity{}, f.exchangeErr
	}
	return f.identity, nil
}

type memSessionStore struct {
	sessions map[string]domainauth.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *memSessionStore) Save(_ context.Context, sess domainauth.Session) error {
	m.sessions[sess.ID] = sess
	return nil
}

func (m *memSessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, errors.New("session not found")
	}
	return sess, nil
}

func (m *memSessionStore) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

type memRoleStore struct {
	roles    map[string]domainauth.Role
	profiles []ports.UserProfile
	getErr   error
	setErr   error
}

func newMemRoleStore() *memRoleStore {
	return &memRoleStore{roles: make(map[string]domainauth.Role)}
}

func (m *memRoleStore) GetRole(_ context.Context, userID string) (domainauth.Role, error) {
	if m.getErr != nil {
		return domainauth.RoleAbsent, m.getErr
	}
	role, ok := m.roles[userID]
	if !ok {
		return domainauth.RoleAbsent, ports.ErrRoleNotFound
	}
	return role, nil
}

func (m *memRoleStore) SetRole(_ context.Context, userID string, role domainauth.Role) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.roles[userID] = role
	return nil
}

func (m *memRoleStore) EnsureProfile(_ context.Context, profile ports.UserProfile) error {
	m.profiles = append(m.profiles, profile)
	if _, ok := m.roles[profile.UserID]; !ok {
		m.roles[profile.UserID] = profile.Role
	}
	return nil
}

func newTestAuthService(t *testing.T, opts AuthServiceOptions) *AuthService {
	t.Helper()
	if opts.Provider == nil {
		opts.Provider = &fakeIdentityProvider{}
	}
	if opts.Sessions == nil {
		opts.Sessions = newMemSessionStore()
	}
	if opts.Roles == nil {
		opts.Roles = newMemRoleStore()
	}
	svc, err := NewAuthService(opts)
	require.NoError(t, err)
	return svc
}

func TestNewAuthServiceValidation(t *testing.T) {
	_, err := NewAuthService(AuthServiceOptions{})
	require.Error(t, err)

	_, err = NewAuthService(AuthServiceOptions{Provider: &fakeIdentityProvider{}})
	require.Error(t, err)

	_, err = NewAuthService(AuthServiceOptions{
		Provider: &fakeIdentityProvider{},
		Sessions: newMemSessionStore(),
	})
	require.Error(t, err)
}

func TestBeginLogin(t *testing.T) {
	svc := newTestAuthService(t, AuthServiceOptions{Federated: &fakeFederatedProvider{}})

	result, err := svc.BeginLogin(context.Background(), "https://bhotel.example.com/auth/callback")
	require.NoError(t, err)
	assert.Contains(t, result.AuthURL, "idp.example.com")
	assert.Equal(t, "state-1", result.State)
	assert.Equal(t, "nonce-1", result.Nonce)
}

func TestBeginLoginWithoutFederatedProvider(t *testing.T) {
	svc := newTestAuthService(t, AuthServiceOptions{})

	_, err := svc.BeginLogin(context.Background(), "https://bhotel.example.com/auth/callback")
	require.ErrorIs(t, err, ports.ErrFederatedUnsupported)
}

func TestCompleteLoginFirstTimeGetsDefaultRole(t *testing.T) {
	roles := newMemRoleStore()
	sessions := newMemSessionStore()
	federated := &fakeFederatedProvider{
		identity: domainauth.Identity{ID: "google-123", Email: "ada@example.com", Name: "Ada"},
	}
	svc := newTestAuthService(t, AuthServiceOptions{Federated: federated, Sessions: sessions, Roles: roles})

	sess, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "code", State: "state-1", Nonce: "nonce-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "google-123", sess.UserID)
	assert.Equal(t, domainauth.DefaultRole, sess.Role)
	assert.NotEmpty(t, sess.ID)
	assert.True(t, sess.ExpiresAt.After(time.Now()))

	require.Len(t, roles.profiles, 1)
	assert.Equal(t, domainauth.DefaultRole, roles.profiles[0].Role)

	stored, err := sessions.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, stored.UserID)
}

func TestCompleteLoginExistingRolePreserved(t *testing.T) {
	roles := newMemRoleStore()
	roles.roles["google-123"] = domainauth.RoleAdmin
	federated := &fakeFederatedProvider{identity: domainauth.Identity{ID: "google-123"}}
	svc := newTestAuthService(t, AuthServiceOptions{Federated: federated, Roles: roles})

	sess, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "code", State: "s", Nonce: "n",
	})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, sess.Role)
	assert.Empty(t, roles.profiles)
}

func TestCompleteLoginValidation(t *testing.T) {
	svc := newTestAuthService(t, AuthServiceOptions{Federated: &fakeFederatedProvider{}})

	tests := []CompleteLoginInput{
		{State: "s", Nonce: "n"},
		{Code: "c", Nonce: "n"},
		{Code: "c", State: "s"},
	}
	for _, input := range tests {
		_, err := svc.CompleteLogin(context.Background(), input)
		require.Error(t, err)
	}
}

func TestPasswordLogin(t *testing.T) {
	roles := newMemRoleStore()
	roles.roles["user-1"] = domainauth.RoleUser
	provider := &fakeIdentityProvider{identity: domainauth.Identity{ID: "user-1", Email: "ada@example.com"}}
	svc := newTestAuthService(t, AuthServiceOptions{Provider: provider, Roles: roles})

	sess, err := svc.PasswordLogin(context.Background(), "ada@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleUser, sess.Role)
}

func TestPasswordLoginRejected(t *testing.T) {
	rejection := errors.New("invalid credentials")
	provider := &fakeIdentityProvider{signInErr: rejection}
	svc := newTestAuthService(t, AuthServiceOptions{Provider: provider})

	_, err := svc.PasswordLogin(context.Background(), "ada@example.com", "wrong")
	require.ErrorIs(t, err, rejection)
}

func TestRegisterAssignsDefaultRole(t *testing.T) {
	roles := newMemRoleStore()
	svc := newTestAuthService(t, AuthServiceOptions{Roles: roles})

	sess, err := svc.Register(context.Background(), "new@example.com", "hunter2", "New Guest")
	require.NoError(t, err)
	assert.Equal(t, domainauth.DefaultRole, sess.Role)
	require.Len(t, roles.profiles, 1)
	assert.Equal(t, "new-user", roles.profiles[0].UserID)
}

func TestGetSessionExpiredIsDeleted(t *testing.T) {
	sessions := newMemSessionStore()
	svc := newTestAuthService(t, AuthServiceOptions{Sessions: sessions})

	expired := domainauth.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, sessions.Save(context.Background(), expired))

	_, err := svc.GetSession(context.Background(), "sess-1")
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.Empty(t, sessions.sessions)
}

func TestGetSessionValid(t *testing.T) {
	sessions := newMemSessionStore()
	svc := newTestAuthService(t, AuthServiceOptions{Sessions: sessions})

	live := domainauth.Session{
		ID:        "sess-2",
		UserID:    "user-1",
		Role:      domainauth.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, sessions.Save(context.Background(), live))

	got, err := svc.GetSession(context.Background(), "sess-2")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, got.Role)
}

func TestLogout(t *testing.T) {
	provider := &fakeIdentityProvider{}
	sessions := newMemSessionStore()
	svc := newTestAuthService(t, AuthServiceOptions{Provider: provider, Sessions: sessions})

	require.NoError(t, sessions.Save(context.Background(), domainauth.Session{ID: "sess-3"}))
	require.NoError(t, svc.Logout(context.Background(), "sess-3"))
	assert.Empty(t, sessions.sessions)
	assert.True(t, provider.signedOut)

	// Empty session ID is a no-op.
	require.NoError(t, svc.Logout(context.Background(), ""))
}

func TestRequestPasswordReset(t *testing.T) {
	provider := &fakeIdentityProvider{}
	svc := newTestAuthService(t, AuthServiceOptions{Provider: provider})

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ada@example.com"))
	assert.Equal(t, []string{"ada@example.com"}, provider.resetEmails)
}

// fakeResettingProvider adds token redemption to the identity fake.
type fakeResettingProvider struct {
	fakeIdentityProvider
	resetErr   error
	resetToken string
}

func (f *fakeResettingProvider) ResetPassword(_ context.Context, token, _ string) error {
	if f.resetErr != nil {
		return f.resetErr
	}
	f.resetToken = token
	return nil
}

func TestConfirmPasswordReset(t *testing.T) {
	provider := &fakeResettingProvider{}
	svc := newTestAuthService(t, AuthServiceOptions{Provider: provider})

	require.NoError(t, svc.ConfirmPasswordReset(context.Background(), "signed-token", "new-secret"))
	assert.Equal(t, "signed-token", provider.resetToken)

	provider.resetErr = ports.ErrResetTokenInvalid
	err := svc.ConfirmPasswordReset(context.Background(), "garbage", "new-secret")
	require.ErrorIs(t, err, ports.ErrResetTokenInvalid)
}

func TestConfirmPasswordResetUnsupportedProvider(t *testing.T) {
	svc := newTestAuthService(t, AuthServiceOptions{Provider: &fakeIdentityProvider{}})

	err := svc.ConfirmPasswordReset(context.Background(), "signed-token", "new-secret")
	require.ErrorIs(t, err, ports.ErrPasswordResetUnsupported)
}

func TestSetRole(t *testing.T) {
	roles := newMemRoleStore()
	svc := newTestAuthService(t, AuthServiceOptions{Roles: roles})

	require.NoError(t, svc.SetRole(context.Background(), "user-1", domainauth.RoleStaff))
	assert.Equal(t, domainauth.RoleStaff, roles.roles["user-1"])

	require.Error(t, svc.SetRole(context.Background(), "", domainauth.RoleStaff))
	require.Error(t, svc.SetRole(context.Background(), "user-1", domainauth.Role("owner")))
}
