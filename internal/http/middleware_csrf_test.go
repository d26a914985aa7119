package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCSRFHandler(cfg CSRFConfig) http.Handler {
	return CSRFProtection(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestCSRFProtection_IssuesTokenOnGet(t *testing.T) {
	handler := newCSRFHandler(CSRFConfig{})

	rec := doRequest(handler, httptest.NewRequest(http.MethodGet, "/admin/bookings", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	cookie := findCookie(rec, DefaultCSRFCookieName)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.False(t, cookie.HttpOnly, "client scripts must read the token to echo it")
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
}

func TestCSRFProtection_ValidatesMutations(t *testing.T) {
	handler := newCSRFHandler(CSRFConfig{})
	const token = "known-token"

	t.Run("post without header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/rooms", nil)
		req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
		rec := doRequest(handler, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "csrf_validation_failed")
	})

	t.Run("post without cookie is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/rooms", nil)
		req.Header.Set(DefaultCSRFHeaderName, token)
		rec := doRequest(handler, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("mismatched token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/admin/rooms/1", nil)
		req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
		req.Header.Set(DefaultCSRFHeaderName, "other-token")
		rec := doRequest(handler, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("matching pair passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/admin/rooms/1", nil)
		req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
		req.Header.Set(DefaultCSRFHeaderName, token)
		rec := doRequest(handler, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestCSRFProtection_CustomNames(t *testing.T) {
	handler := newCSRFHandler(CSRFConfig{CookieName: "bh_csrf", HeaderName: "X-Bh-Csrf"})

	req := httptest.NewRequest(http.MethodPost, "/admin/rooms", nil)
	req.AddCookie(&http.Cookie{Name: "bh_csrf", Value: "tok"})
	req.Header.Set("X-Bh-Csrf", "tok")
	rec := doRequest(handler, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequestIsSecure(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, requestIsSecure(req))

	req.Header.Set("X-Forwarded-Proto", "https")
	assert.True(t, requestIsSecure(req))

	req.Header.Set("X-Forwarded-Proto", "http, https")
	assert.True(t, requestIsSecure(req))

	req.Header.Set("X-Forwarded-Proto", "http")
	assert.False(t, requestIsSecure(req))
}
