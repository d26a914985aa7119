// Package hotel contains domain types for the hotel site: rooms, bookings,
// reviews, contact messages, and site settings. It is pure and free of
// framework/adapter concerns.
package hotel

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxRoomNameLen    = 255
	maxDescriptionLen = 4000
)

// RoomType classifies a room for filtering on the public rooms page.
type RoomType string

const (
	RoomTypeStandard RoomType = "standard"
	RoomTypeDeluxe   RoomType = "deluxe"
	RoomTypeSuite    RoomType = "suite"
	RoomTypeFamily   RoomType = "family"
)

// Valid reports whether the room type is supported.
func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeStandard, RoomTypeDeluxe, RoomTypeSuite, RoomTypeFamily:
		return true
	default:
		return false
	}
}

// ParseRoomType normalizes a room type string and reports whether it is supported.
func ParseRoomType(value string) (RoomType, bool) {
	t := RoomType(strings.ToLower(strings.TrimSpace(value)))
	if t.Valid() {
		return t, true
	}
	return "", false
}

// KnownAmenities is the fixed amenity vocabulary offered on the room form.
var KnownAmenities = []string{
	"Free WiFi",
	"Air Conditioning",
	"TV",
	"Mini Bar",
	"Room Service",
	"Safe",
	"Balcony",
	"Ocean View",
	"Mountain View",
	"Bathtub",
	"Shower",
	"King Bed",
	"Queen Bed",
	"Twin Beds",
}

func amenityKnown(a string) bool {
	for _, k := range KnownAmenities {
		if a == k {
			return true
		}
	}
	return false
}

// Room represents a bookable room on the marketing site.
// PriceCents is the nightly rate in the hotel's currency minor unit.
type Room struct {
	ID          string    `json:"id"          db:"id"`
	Name        string    `json:"name"        db:"name"`
	Type        RoomType  `json:"type"        db:"type"`
	Description string    `json:"description" db:"description"`
	PriceCents  int64     `json:"price_cents" db:"price_cents"`
	Capacity    int       `json:"capacity"    db:"capacity"`
	SizeSqm     int       `json:"size_sqm"    db:"size_sqm"`
	Amenities   []string  `json:"amenities"   db:"amenities"`
	Images      []string  `json:"images"      db:"images"`
	Available   bool      `json:"available"   db:"available"`
	CreatedAt   time.Time `json:"created_at"  db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"  db:"updated_at"`
}

// CreateRoomRequest carries validated input for creating a room.
type CreateRoomRequest struct {
	Name        string
	Type        RoomType
	Description string
	PriceCents  int64
	Capacity    int
	SizeSqm     int
	Amenities   []string
	Images      []string
	Available   *bool // defaults to true when nil
}

var (
	ErrRoomNameRequired    = errors.New("room name is required")
	ErrRoomNameTooLong     = errors.New("room name is too long")
	ErrRoomTypeInvalid     = errors.New("room type is invalid")
	ErrRoomPriceInvalid    = errors.New("room price must be positive")
	ErrRoomCapacityInvalid = errors.New("room capacity must be positive")
	ErrRoomAmenityUnknown  = errors.New("unknown amenity")
	ErrDescriptionTooLong  = errors.New("room description is too long")
)

// Validate checks the create request fields.
func (r *CreateRoomRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return ErrRoomNameRequired
	}
	if utf8.RuneCountInString(name) > maxRoomNameLen {
		return ErrRoomNameTooLong
	}
	if !r.Type.Valid() {
		return ErrRoomTypeInvalid
	}
	if utf8.RuneCountInString(r.Description) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	if r.PriceCents <= 0 {
		return ErrRoomPriceInvalid
	}
	if r.Capacity <= 0 {
		return ErrRoomCapacityInvalid
	}
	for _, a := range r.Amenities {
		if !amenityKnown(a) {
			return ErrRoomAmenityUnknown
		}
	}
	return nil
}

// UpdateRoomRequest carries partial updates for a room. Nil fields are left
// unchanged by the repository.
type UpdateRoomRequest struct {
	Name        *string
	Type        *RoomType
	Description *string
	PriceCents  *int64
	Capacity    *int
	SizeSqm     *int
	Amenities   []string // nil = unchanged, empty = clear
	Images      []string // nil = unchanged, empty = clear
	Available   *bool
}

// Validate checks the fields that are present.
func (r *UpdateRoomRequest) Validate() error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return ErrRoomNameRequired
		}
		if utf8.RuneCountInString(name) > maxRoomNameLen {
			return ErrRoomNameTooLong
		}
	}
	if r.Type != nil && !r.Type.Valid() {
		return ErrRoomTypeInvalid
	}
	if r.Description != nil && utf8.RuneCountInString(*r.Description) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	if r.PriceCents != nil && *r.PriceCents <= 0 {
		return ErrRoomPriceInvalid
	}
	if r.Capacity != nil && *r.Capacity <= 0 {
		return ErrRoomCapacityInvalid
	}
	for _, a := range r.Amenities {
		if !amenityKnown(a) {
			return ErrRoomAmenityUnknown
		}
	}
	return nil
}

// RoomsListOptions controls filtering for the public rooms page.
// Type matches exactly; Available filters to bookable rooms when set.
type RoomsListOptions struct {
	Limit     int
	Offset    int
	Type      *RoomType
	Available *bool
}
