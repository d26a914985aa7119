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

func newReviewRouter(t *testing.T, repo *mocks.MockReviewRepository) (http.Handler, *testAuth) {
	t.Helper()

	svc, err := service.NewReviewService(service.ReviewServiceOptions{Repo: repo})
	require.NoError(t, err)

	auth := newTestAuth(t)
	return NewRouter(RouterServices{Auth: auth.Svc, Reviews: svc}), auth
}

func TestReviewSubmit_StripsMarkup(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockReviewRepository(ctrl)

	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req *hotel.CreateReviewRequest) (*hotel.Review, error) {
			assert.NotContains(t, req.Comment, "<script>")
			assert.Contains(t, req.Comment, "Lovely stay")
			return &hotel.Review{ID: "review-1", GuestName: req.GuestName, Rating: req.Rating, Comment: req.Comment}, nil
		})

	router, _ := newReviewRouter(t, repo)

	body := `{"guest_name":"Ada","rating":5,"comment":"Lovely stay<script>alert(1)</script>"}`
	rec := doRequest(router, httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created hotel.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.False(t, created.Approved, "new reviews wait for moderation")
}

func TestReviewSubmit_InvalidRating(t *testing.T) {
	ctrl := gomock.NewController(t)
	router, _ := newReviewRouter(t, mocks.NewMockReviewRepository(ctrl))

	body := `{"guest_name":"Ada","rating":6,"comment":"Too good"}`
	rec := doRequest(router, httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_failed")
}

func TestReviewListings(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockReviewRepository(ctrl)

	router, auth := newReviewRouter(t, repo)

	t.Run("public listing asks for approved only", func(t *testing.T) {
		repo.EXPECT().List(gomock.Any(), true).
			Return([]*hotel.Review{{ID: "review-1", Approved: true}}, nil)

		rec := doRequest(router, httptest.NewRequest(http.MethodGet, "/api/reviews", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "review-1")
	})

	t.Run("staff listing includes unmoderated", func(t *testing.T) {
		repo.EXPECT().List(gomock.Any(), false).
			Return([]*hotel.Review{{ID: "review-1", Approved: true}, {ID: "review-2"}}, nil)

		sid := auth.seedSession(t, domainauth.RoleStaff)
		req := withSession(httptest.NewRequest(http.MethodGet, "/api/admin/reviews", nil), sid)
		rec := doRequest(router, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "review-2")
	})
}

func TestReviewModerate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockReviewRepository(ctrl)

	router, auth := newReviewRouter(t, repo)
	sid := auth.seedSession(t, domainauth.RoleStaff)

	t.Run("approve", func(t *testing.T) {
		repo.EXPECT().SetApproved(gomock.Any(), "review-1", true).
			Return(&hotel.Review{ID: "review-1", Approved: true}, nil)

		req := withSession(httptest.NewRequest(http.MethodPost, "/api/reviews/review-1/moderate", strings.NewReader(`{"approved":true}`)), sid)
		rec := doRequest(router, withCSRF(req))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"approved":true`)
	})

	t.Run("unknown review", func(t *testing.T) {
		repo.EXPECT().SetApproved(gomock.Any(), "missing", false).
			Return(nil, data.ErrReviewNotFound)

		req := withSession(httptest.NewRequest(http.MethodPost, "/api/reviews/missing/moderate", strings.NewReader(`{"approved":false}`)), sid)
		rec := doRequest(router, withCSRF(req))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestReviewDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockReviewRepository(ctrl)
	repo.EXPECT().Delete(gomock.Any(), "review-1").Return(nil)

	router, auth := newReviewRouter(t, repo)
	sid := auth.seedSession(t, domainauth.RoleStaff)

	req := withSession(httptest.NewRequest(http.MethodDelete, "/api/reviews/review-1", nil), sid)
	rec := doRequest(router, withCSRF(req))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "deleted")
}
