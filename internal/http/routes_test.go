package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bhotel/bhotel-ui-api/internal/data"
	domainauth "github.com/bhotel/bhotel-ui-api/internal/domain/auth"
	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
	"github.com/bhotel/bhotel-ui-api/internal/mocks"
	"github.com/bhotel/bhotel-ui-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRouter_Health(t *testing.T) {
	router := NewRouter(RouterServices{})

	rec := doRequest(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = doRequest(router, httptest.NewRequest(http.MethodHead, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRouter_AdminProtectedRoomCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRoomRepository(ctrl)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(&hotel.Room{ID: "room-1", Name: "Sea View"}, nil).
		AnyTimes()

	roomSvc, err := service.NewRoomService(service.RoomServiceOptions{Repo: repo})
	require.NoError(t, err)

	auth := newTestAuth(t)
	router := NewRouter(RouterServices{Auth: auth.Svc, Rooms: roomSvc})

	body := `{"name":"Sea View","type":"deluxe","price_cents":20000,"capacity":2}`

	t.Run("no session returns 401 JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader(body))
		rec := doRequest(router, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "authentication_required")
	})

	t.Run("guest session returns 403", func(t *testing.T) {
		sid := auth.seedSession(t, domainauth.RoleGuest)
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader(body)), sid)
		rec := doRequest(router, withCSRF(req))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "insufficient_permissions")
	})

	t.Run("staff session returns 403 on admin route", func(t *testing.T) {
		sid := auth.seedSession(t, domainauth.RoleStaff)
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader(body)), sid)
		rec := doRequest(router, withCSRF(req))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin session without CSRF token returns 403", func(t *testing.T) {
		sid := auth.seedSession(t, domainauth.RoleAdmin)
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader(body)), sid)
		rec := doRequest(router, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "csrf_validation_failed")
	})

	t.Run("admin session with CSRF token creates the room", func(t *testing.T) {
		sid := auth.seedSession(t, domainauth.RoleAdmin)
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader(body)), sid)
		rec := doRequest(router, withCSRF(req))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "Sea View")
	})
}

func TestRouter_StaffBookingsList(t *testing.T) {
	ctrl := gomock.NewController(t)
	bookings := mocks.NewMockBookingRepository(ctrl)
	bookings.EXPECT().List(gomock.Any(), gomock.Any()).
		Return([]*hotel.Booking{{ID: "bk-1", RoomName: "Sea View", Status: hotel.BookingPending}}, nil).
		AnyTimes()
	rooms := mocks.NewMockRoomRepository(ctrl)

	bookingSvc, err := service.NewBookingService(service.BookingServiceOptions{Bookings: bookings, Rooms: rooms})
	require.NoError(t, err)

	auth := newTestAuth(t)
	router := NewRouter(RouterServices{Auth: auth.Svc, Bookings: bookingSvc})

	t.Run("user role is rejected", func(t *testing.T) {
		sid := auth.seedSession(t, domainauth.RoleUser)
		req := withSession(httptest.NewRequest(http.MethodGet, "/api/bookings", nil), sid)
		rec := doRequest(router, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("staff role lists bookings", func(t *testing.T) {
		sid := auth.seedSession(t, domainauth.RoleStaff)
		req := withSession(httptest.NewRequest(http.MethodGet, "/api/bookings", nil), sid)
		rec := doRequest(router, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Bookings []hotel.Booking `json:"bookings"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Bookings, 1)
		assert.Equal(t, "bk-1", resp.Bookings[0].ID)
	})

	t.Run("admin role passes the staff gate", func(t *testing.T) {
		sid := auth.seedSession(t, domainauth.RoleAdmin)
		req := withSession(httptest.NewRequest(http.MethodGet, "/api/bookings", nil), sid)
		rec := doRequest(router, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouter_PublicRoutesNeedNoSession(t *testing.T) {
	ctrl := gomock.NewController(t)

	rooms := mocks.NewMockRoomRepository(ctrl)
	rooms.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*hotel.Room{}, nil)

	reviews := mocks.NewMockReviewRepository(ctrl)
	reviews.EXPECT().List(gomock.Any(), true).Return([]*hotel.Review{}, nil)

	settings := mocks.NewMockSettingsRepository(ctrl)
	settings.EXPECT().Get(gomock.Any()).Return(nil, data.ErrSettingsNotFound).AnyTimes()

	roomSvc, err := service.NewRoomService(service.RoomServiceOptions{Repo: rooms})
	require.NoError(t, err)
	reviewSvc, err := service.NewReviewService(service.ReviewServiceOptions{Repo: reviews})
	require.NoError(t, err)
	settingsSvc, err := service.NewSettingsService(service.SettingsServiceOptions{Repo: settings})
	require.NoError(t, err)

	auth := newTestAuth(t)
	router := NewRouter(RouterServices{
		Auth:     auth.Svc,
		Rooms:    roomSvc,
		Reviews:  reviewSvc,
		Settings: settingsSvc,
	})

	for _, path := range []string{"/api/rooms", "/api/reviews", "/api/settings"} {
		rec := doRequest(router, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, "GET %s", path)
	}

	// A never-written settings row serves the defaults.
	rec := doRequest(router, httptest.NewRequest(http.MethodGet, "/api/settings", nil))
	assert.Contains(t, rec.Body.String(), "B-Hotel")
}
