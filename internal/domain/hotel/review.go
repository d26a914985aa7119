package hotel

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxReviewCommentLen = 2000

// Review is a guest testimonial. Reviews are submitted unapproved and only
// appear on the public site after moderation.
type Review struct {
	ID        string    `json:"id"         db:"id"`
	GuestName string    `json:"guest_name" db:"guest_name"`
	Rating    int       `json:"rating"     db:"rating"`
	Comment   string    `json:"comment"    db:"comment"`
	Approved  bool      `json:"approved"   db:"approved"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateReviewRequest carries validated guest input.
type CreateReviewRequest struct {
	GuestName string
	Rating    int
	Comment   string
}

var (
	ErrReviewNameRequired  = errors.New("guest name is required")
	ErrReviewRatingInvalid = errors.New("rating must be between 1 and 5")
	ErrReviewCommentLong   = errors.New("review comment is too long")
)

// Validate checks the create request fields.
func (r *CreateReviewRequest) Validate() error {
	if strings.TrimSpace(r.GuestName) == "" {
		return ErrReviewNameRequired
	}
	if r.Rating < 1 || r.Rating > 5 {
		return ErrReviewRatingInvalid
	}
	if utf8.RuneCountInString(r.Comment) > maxReviewCommentLen {
		return ErrReviewCommentLong
	}
	return nil
}
