package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhotel/bhotel-ui-api/internal/data"
	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
	"github.com/bhotel/bhotel-ui-api/internal/ports"
)

type memRoomRepo struct {
	rooms map[string]*hotel.Room
}

func newMemRoomRepo(rooms ...*hotel.Room) *memRoomRepo {
	repo := &memRoomRepo{rooms: make(map[string]*hotel.Room)}
	for _, r := range rooms {
		repo.rooms[r.ID] = r
	}
	return repo
}

func (m *memRoomRepo) Create(_ context.Context, req *hotel.CreateRoomRequest) (*hotel.Room, error) {
	room := &hotel.Room{
		ID:         "room-" + req.Name,
		Name:       req.Name,
		Type:       req.Type,
		PriceCents: req.PriceCents,
		Capacity:   req.Capacity,
		Available:  req.Available == nil || *req.Available,
	}
	m.rooms[room.ID] = room
	return room, nil
}

func (m *memRoomRepo) GetByID(_ context.Context, id string) (*hotel.Room, error) {
	room, ok := m.rooms[id]
	if !ok {
		return nil, data.ErrRoomNotFound
	}
	cp := *room
	return &cp, nil
}

func (m *memRoomRepo) List(_ context.Context, opts hotel.RoomsListOptions) ([]*hotel.Room, error) {
	var out []*hotel.Room
	for _, room := range m.rooms {
		if opts.Type != nil && room.Type != *opts.Type {
			continue
		}
		if opts.Available != nil && room.Available != *opts.Available {
			continue
		}
		out = append(out, room)
	}
	return out, nil
}

func (m *memRoomRepo) Update(_ context.Context, id string, req hotel.UpdateRoomRequest) (*hotel.Room, error) {
	room, ok := m.rooms[id]
	if !ok {
		return nil, data.ErrRoomNotFound
	}
	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Available != nil {
		room.Available = *req.Available
	}
	if req.Images != nil {
		room.Images = req.Images
	}
	cp := *room
	return &cp, nil
}

func (m *memRoomRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.rooms[id]; !ok {
		return data.ErrRoomNotFound
	}
	delete(m.rooms, id)
	return nil
}

type memBookingRepo struct {
	bookings  map[string]*hotel.Booking
	createErr error
	seq       int
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*hotel.Booking)}
}

func (m *memBookingRepo) Create(_ context.Context, b *hotel.Booking) (*hotel.Booking, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.seq++
	cp := *b
	cp.ID = "booking-" + string(rune('0'+m.seq))
	cp.CreatedAt = time.Now()
	m.bookings[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memBookingRepo) GetByID(_ context.Context, id string) (*hotel.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, data.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBookingRepo) List(_ context.Context, opts hotel.BookingsListOptions) ([]*hotel.Booking, error) {
	var out []*hotel.Booking
	for _, b := range m.bookings {
		if opts.Status != nil && b.Status != *opts.Status {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (m *memBookingRepo) UpdateStatus(_ context.Context, id string, next hotel.BookingStatus) (*hotel.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, data.ErrBookingNotFound
	}
	if err := b.Status.Transition(next); err != nil {
		return nil, err
	}
	b.Status = next
	cp := *b
	return &cp, nil
}

func (m *memBookingRepo) CancelStalePending(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, b := range m.bookings {
		if b.Status == hotel.BookingPending && b.CreatedAt.Before(cutoff) {
			b.Status = hotel.BookingCancelled
			n++
		}
	}
	return n, nil
}

func (m *memBookingRepo) CompleteDepartedStays(_ context.Context, asOf time.Time) (int64, error) {
	var n int64
	for _, b := range m.bookings {
		if b.Status == hotel.BookingConfirmed && b.CheckOut.Before(asOf) {
			b.Status = hotel.BookingCompleted
			n++
		}
	}
	return n, nil
}

type capturingNotifier struct {
	notifications []ports.Notification
	err           error
}

func (c *capturingNotifier) Notify(_ context.Context, n ports.Notification) error {
	c.notifications = append(c.notifications, n)
	return c.err
}

func seaViewRoom() *hotel.Room {
	return &hotel.Room{
		ID:         "room-1",
		Name:       "Sea View Suite",
		Type:       hotel.RoomTypeSuite,
		PriceCents: 25000,
		Capacity:   2,
		Available:  true,
	}
}

func validBookingRequest() *hotel.CreateBookingRequest {
	checkIn := time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)
	return &hotel.CreateBookingRequest{
		RoomID:     "room-1",
		GuestName:  "Ada Lovelace",
		GuestEmail: "ada@example.com",
		GuestPhone: "+1 555 0100",
		CheckIn:    checkIn,
		CheckOut:   checkIn.Add(72 * time.Hour),
	}
}

func newTestBookingService(t *testing.T, opts BookingServiceOptions) *BookingService {
	t.Helper()
	if opts.Bookings == nil {
		opts.Bookings = newMemBookingRepo()
	}
	if opts.Rooms == nil {
		opts.Rooms = newMemRoomRepo(seaViewRoom())
	}
	svc, err := NewBookingService(opts)
	require.NoError(t, err)
	return svc
}

func TestCreateBookingPricesAndDenormalizes(t *testing.T) {
	notifier := &capturingNotifier{}
	bookings := newMemBookingRepo()
	svc := newTestBookingService(t, BookingServiceOptions{Bookings: bookings, Notifier: notifier})

	booking, err := svc.Create(context.Background(), validBookingRequest())
	require.NoError(t, err)

	assert.Equal(t, "Sea View Suite", booking.RoomName)
	assert.Equal(t, 3, booking.Nights)
	assert.Equal(t, int64(75000), booking.TotalCents)
	assert.Equal(t, hotel.BookingPending, booking.Status)

	require.Len(t, notifier.notifications, 1)
	assert.Equal(t, "booking.created", notifier.notifications[0].Kind)
	assert.Equal(t, booking.ID, notifier.notifications[0].Payload["booking_id"])
}

func TestCreateBookingStripsMarkupFromGuestName(t *testing.T) {
	svc := newTestBookingService(t, BookingServiceOptions{})

	req := validBookingRequest()
	req.GuestName = "<b>Ada</b> <script>alert(1)</script>Lovelace"

	booking, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", booking.GuestName)
}

func TestCreateBookingUnavailableRoom(t *testing.T) {
	room := seaViewRoom()
	room.Available = false
	svc := newTestBookingService(t, BookingServiceOptions{Rooms: newMemRoomRepo(room)})

	_, err := svc.Create(context.Background(), validBookingRequest())
	require.ErrorIs(t, err, ErrRoomUnavailable)
}

func TestCreateBookingUnknownRoom(t *testing.T) {
	svc := newTestBookingService(t, BookingServiceOptions{Rooms: newMemRoomRepo()})

	_, err := svc.Create(context.Background(), validBookingRequest())
	require.ErrorIs(t, err, data.ErrRoomNotFound)
}

func TestCreateBookingValidation(t *testing.T) {
	svc := newTestBookingService(t, BookingServiceOptions{})

	req := validBookingRequest()
	req.CheckOut = req.CheckIn
	_, err := svc.Create(context.Background(), req)
	require.ErrorIs(t, err, hotel.ErrBookingDateOrder)
}

func TestCreateBookingNotifierFailureDoesNotBlock(t *testing.T) {
	notifier := &capturingNotifier{err: errors.New("slack down")}
	svc := newTestBookingService(t, BookingServiceOptions{Notifier: notifier})

	_, err := svc.Create(context.Background(), validBookingRequest())
	require.NoError(t, err)
}

func TestUpdateBookingStatus(t *testing.T) {
	bookings := newMemBookingRepo()
	notifier := &capturingNotifier{}
	svc := newTestBookingService(t, BookingServiceOptions{Bookings: bookings, Notifier: notifier})

	created, err := svc.Create(context.Background(), validBookingRequest())
	require.NoError(t, err)

	confirmed, err := svc.UpdateStatus(context.Background(), created.ID, hotel.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, hotel.BookingConfirmed, confirmed.Status)

	// pending -> completed is not a legal move.
	other, err := svc.Create(context.Background(), validBookingRequest())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), other.ID, hotel.BookingCompleted)
	require.ErrorIs(t, err, hotel.ErrInvalidTransition)

	_, err = svc.UpdateStatus(context.Background(), created.ID, hotel.BookingStatus("archived"))
	require.ErrorIs(t, err, hotel.ErrInvalidTransition)
}

func TestListBookingsByStatus(t *testing.T) {
	bookings := newMemBookingRepo()
	svc := newTestBookingService(t, BookingServiceOptions{Bookings: bookings})

	first, err := svc.Create(context.Background(), validBookingRequest())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), validBookingRequest())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), first.ID, hotel.BookingConfirmed)
	require.NoError(t, err)

	status := hotel.BookingConfirmed
	got, err := svc.List(context.Background(), hotel.BookingsListOptions{Status: &status})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, first.ID, got[0].ID)
}
