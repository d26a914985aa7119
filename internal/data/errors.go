package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomNameExists  = errors.New("room name already exists")
	ErrBookingNotFound = errors.New("booking not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrMessageNotFound = errors.New("contact message not found")

	// ErrSettingsNotFound is returned when the settings row has never been
	// written.
	ErrSettingsNotFound = errors.New("site settings not found")

	ErrUserNotFound    = errors.New("user not found")
	ErrUserEmailExists = errors.New("user email already exists")
)
