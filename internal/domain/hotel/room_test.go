package hotel

import (
	"errors"
	"strings"
	"testing"
)

func validCreateRoom() CreateRoomRequest {
	return CreateRoomRequest{
		Name:        "Ocean Suite",
		Type:        RoomTypeSuite,
		Description: "Top floor suite with a sea view.",
		PriceCents:  25000,
		Capacity:    2,
		SizeSqm:     45,
		Amenities:   []string{"Free WiFi", "Ocean View", "King Bed"},
	}
}

func TestCreateRoomRequest_Validate(t *testing.T) {
	req := validCreateRoom()
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*CreateRoomRequest)
		want   error
	}{
		{"empty name", func(r *CreateRoomRequest) { r.Name = "  " }, ErrRoomNameRequired},
		{"long name", func(r *CreateRoomRequest) { r.Name = strings.Repeat("x", 300) }, ErrRoomNameTooLong},
		{"bad type", func(r *CreateRoomRequest) { r.Type = "penthouse" }, ErrRoomTypeInvalid},
		{"zero price", func(r *CreateRoomRequest) { r.PriceCents = 0 }, ErrRoomPriceInvalid},
		{"zero capacity", func(r *CreateRoomRequest) { r.Capacity = 0 }, ErrRoomCapacityInvalid},
		{"unknown amenity", func(r *CreateRoomRequest) { r.Amenities = []string{"Helipad"} }, ErrRoomAmenityUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRoom()
			tc.mutate(&req)
			if err := req.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseRoomType(t *testing.T) {
	if tp, ok := ParseRoomType(" Deluxe "); !ok || tp != RoomTypeDeluxe {
		t.Fatalf("got %q, %v", tp, ok)
	}
	if _, ok := ParseRoomType("castle"); ok {
		t.Fatalf("expected unknown type to be rejected")
	}
}

func TestUpdateRoomRequest_Validate(t *testing.T) {
	empty := UpdateRoomRequest{}
	if err := empty.Validate(); err != nil {
		t.Fatalf("empty update should validate: %v", err)
	}

	badPrice := int64(-5)
	req := UpdateRoomRequest{PriceCents: &badPrice}
	if err := req.Validate(); !errors.Is(err, ErrRoomPriceInvalid) {
		t.Fatalf("got %v, want ErrRoomPriceInvalid", err)
	}
}
