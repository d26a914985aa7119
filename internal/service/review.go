package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
	"github.com/bhotel/bhotel-ui-api/internal/ports"
)

// ReviewServiceOptions groups dependencies for ReviewService.
type ReviewServiceOptions struct {
	Repo   ports.ReviewRepository // Required: review repository
	Logger *slog.Logger           // Optional: structured logger
}

// ReviewService provides business logic for guest reviews and moderation.
// Reviews are stored unapproved and only appear publicly after moderation.
type ReviewService struct {
	repo   ports.ReviewRepository
	logger *slog.Logger
}

// NewReviewService constructs a new ReviewService.
func NewReviewService(opts ReviewServiceOptions) (*ReviewService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ReviewRepository is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ReviewService{
		repo:   opts.Repo,
		logger: logger.With("component", "review_service"),
	}, nil
}

// Submit validates and stores a guest review. Markup in the guest name and
// comment is stripped before storage.
func (s *ReviewService) Submit(ctx context.Context, req *hotel.CreateReviewRequest) (*hotel.Review, error) {
	if req == nil {
		return nil, errors.New("create review request is required")
	}

	cleaned := hotel.CreateReviewRequest{
		GuestName: StripHTML(req.GuestName),
		Rating:    req.Rating,
		Comment:   StripHTML(req.Comment),
	}
	if err := cleaned.Validate(); err != nil {
		return nil, err
	}

	review, err := s.repo.Create(ctx, &cleaned)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	s.logger.InfoContext(ctx, "review submitted", "review_id", review.ID, "rating", review.Rating)
	return review, nil
}

// ListPublic retrieves approved reviews for the public site.
func (s *ReviewService) ListPublic(ctx context.Context) ([]*hotel.Review, error) {
	reviews, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list approved reviews: %w", err)
	}
	return reviews, nil
}

// ListAll retrieves every review for the moderation page.
func (s *ReviewService) ListAll(ctx context.Context) ([]*hotel.Review, error) {
	reviews, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// Moderate approves or rejects a review.
func (s *ReviewService) Moderate(ctx context.Context, id string, approved bool) (*hotel.Review, error) {
	if id == "" {
		return nil, errors.New("review ID is required")
	}

	review, err := s.repo.SetApproved(ctx, id, approved)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "review moderated", "review_id", id, "approved", approved)
	return review, nil
}

// Delete removes a review.
func (s *ReviewService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("review ID is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	s.logger.InfoContext(ctx, "review deleted", "review_id", id)
	return nil
}
