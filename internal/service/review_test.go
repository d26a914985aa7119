package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhotel/bhotel-ui-api/internal/data"
	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
)

type memReviewRepo struct {
	reviews map[string]*hotel.Review
	seq     int
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{reviews: make(map[string]*hotel.Review)}
}

func (m *memReviewRepo) Create(_ context.Context, req *hotel.CreateReviewRequest) (*hotel.Review, error) {
	m.seq++
	review := &hotel.Review{
		ID:        "review-" + string(rune('0'+m.seq)),
		GuestName: req.GuestName,
		Rating:    req.Rating,
		Comment:   req.Comment,
		Approved:  false,
	}
	m.reviews[review.ID] = review
	cp := *review
	return &cp, nil
}

func (m *memReviewRepo) List(_ context.Context, approvedOnly bool) ([]*hotel.Review, error) {
	var out []*hotel.Review
	for _, r := range m.reviews {
		if approvedOnly && !r.Approved {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memReviewRepo) SetApproved(_ context.Context, id string, approved bool) (*hotel.Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, data.ErrReviewNotFound
	}
	r.Approved = approved
	cp := *r
	return &cp, nil
}

func (m *memReviewRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.reviews[id]; !ok {
		return data.ErrReviewNotFound
	}
	delete(m.reviews, id)
	return nil
}

func newTestReviewService(t *testing.T) (*ReviewService, *memReviewRepo) {
	t.Helper()
	repo := newMemReviewRepo()
	svc, err := NewReviewService(ReviewServiceOptions{Repo: repo})
	require.NoError(t, err)
	return svc, repo
}

func TestSubmitReviewStartsUnapproved(t *testing.T) {
	svc, _ := newTestReviewService(t)

	review, err := svc.Submit(context.Background(), &hotel.CreateReviewRequest{
		GuestName: "Ada",
		Rating:    5,
		Comment:   "Wonderful stay.",
	})
	require.NoError(t, err)
	assert.False(t, review.Approved)
}

func TestSubmitReviewStripsMarkup(t *testing.T) {
	svc, _ := newTestReviewService(t)

	review, err := svc.Submit(context.Background(), &hotel.CreateReviewRequest{
		GuestName: "<i>Ada</i>",
		Rating:    4,
		Comment:   "Great <script>alert(1)</script>view!",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", review.GuestName)
	assert.Equal(t, "Great view!", review.Comment)
}

func TestSubmitReviewValidation(t *testing.T) {
	svc, _ := newTestReviewService(t)

	_, err := svc.Submit(context.Background(), &hotel.CreateReviewRequest{GuestName: "Ada", Rating: 6})
	require.ErrorIs(t, err, hotel.ErrReviewRatingInvalid)

	_, err = svc.Submit(context.Background(), nil)
	require.Error(t, err)
}

func TestListPublicOnlyApproved(t *testing.T) {
	svc, repo := newTestReviewService(t)

	visible, err := svc.Submit(context.Background(), &hotel.CreateReviewRequest{GuestName: "Ada", Rating: 5})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), &hotel.CreateReviewRequest{GuestName: "Bob", Rating: 1})
	require.NoError(t, err)

	_, err = svc.Moderate(context.Background(), visible.ID, true)
	require.NoError(t, err)

	public, err := svc.ListPublic(context.Background())
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, visible.ID, public[0].ID)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, svc.Delete(context.Background(), visible.ID))
	assert.Len(t, repo.reviews, 1)
}
