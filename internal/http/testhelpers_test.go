package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainauth "github.com/bhotel/bhotel-ui-api/internal/domain/auth"
	mocksauth "github.com/bhotel/bhotel-ui-api/internal/mocks/auth"
	"github.com/bhotel/bhotel-ui-api/internal/service"
	"github.com/stretchr/testify/require"
)

// testAuth bundles an AuthService with the fakes behind it so tests can seed
// sessions and inspect role records.
type testAuth struct {
	Svc      *service.AuthService
	Provider *mocksauth.FakeIdentityProvider
	Sessions *mocksauth.MemorySessionStore
	Roles    *mocksauth.MemoryRoleStore
}

func newTestAuth(t *testing.T) *testAuth {
	t.Helper()

	provider := mocksauth.NewFakeIdentityProvider()
	sessions := mocksauth.NewMemorySessionStore()
	roles := mocksauth.NewMemoryRoleStore()

	svc, err := service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: sessions,
		Roles:    roles,
	})
	require.NoError(t, err)

	return &testAuth{Svc: svc, Provider: provider, Sessions: sessions, Roles: roles}
}

// newTestAuthWithFederated adds a mock redirect-based provider to the bundle.
func newTestAuthWithFederated(t *testing.T) *testAuth {
	t.Helper()

	provider := mocksauth.NewFakeIdentityProvider()
	sessions := mocksauth.NewMemorySessionStore()
	roles := mocksauth.NewMemoryRoleStore()

	svc, err := service.NewAuthService(service.AuthServiceOptions{
		Provider:  provider,
		Federated: mocksauth.NewMockFederatedProvider(),
		Sessions:  sessions,
		Roles:     roles,
	})
	require.NoError(t, err)

	return &testAuth{Svc: svc, Provider: provider, Sessions: sessions, Roles: roles}
}

// seedSession saves a live session and returns its ID.
func (a *testAuth) seedSession(t *testing.T, role domainauth.Role) string {
	t.Helper()

	id := "sess-" + string(role)
	err := a.Sessions.Save(context.Background(), domainauth.Session{
		ID:        id,
		UserID:    "user-" + string(role),
		Name:      "Test User",
		Email:     string(role) + "@b-hotel.test",
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	return id
}

// withSession attaches the session cookie.
func withSession(req *http.Request, sessionID string) *http.Request {
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sessionID})
	return req
}

// withCSRF attaches a matching CSRF cookie/header pair.
func withCSRF(req *http.Request) *http.Request {
	const token = "test-csrf-token"
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
	req.Header.Set(DefaultCSRFHeaderName, token)
	return req
}

// newTestLogger discards log output.
func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// doRequest runs the request through the handler and returns the recorder.
func doRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// findCookie returns the named Set-Cookie from the response, or nil.
func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
