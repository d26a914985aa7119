package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
	"github.com/bhotel/bhotel-ui-api/internal/ports"
)

// ErrImageTypeUnsupported is returned by UploadImage for content types other
// than the accepted image formats.
var ErrImageTypeUnsupported = errors.New("unsupported image content type")

// RoomServiceOptions groups dependencies for RoomService.
type RoomServiceOptions struct {
	Repo    ports.RoomRepository // Required: room repository
	Objects ports.ObjectStore    // Optional: image uploads disabled when nil
	Logger  *slog.Logger         // Optional: structured logger
}

// RoomService provides business logic for room management and image uploads.
type RoomService struct {
	repo    ports.RoomRepository
	objects ports.ObjectStore
	logger  *slog.Logger
}

// NewRoomService constructs a new RoomService.
func NewRoomService(opts RoomServiceOptions) (*RoomService, error) {
	if opts.Repo == nil {
		return nil, errors.New("RoomRepository is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &RoomService{
		repo:    opts.Repo,
		objects: opts.Objects,
		logger:  logger.With("component", "room_service"),
	}, nil
}

// Create validates and creates a new room.
func (s *RoomService) Create(ctx context.Context, req *hotel.CreateRoomRequest) (*hotel.Room, error) {
	if req == nil {
		return nil, errors.New("create room request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	room, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	s.logger.InfoContext(ctx, "room created", "room_id", room.ID, "name", room.Name)
	return room, nil
}

// Get retrieves a room by ID.
func (s *RoomService) Get(ctx context.Context, id string) (*hotel.Room, error) {
	if id == "" {
		return nil, errors.New("room ID is required")
	}
	return s.repo.GetByID(ctx, id)
}

// List retrieves rooms with the given filters.
func (s *RoomService) List(ctx context.Context, opts hotel.RoomsListOptions) ([]*hotel.Room, error) {
	rooms, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// ListAvailable retrieves bookable rooms, optionally filtered by type.
func (s *RoomService) ListAvailable(ctx context.Context, roomType *hotel.RoomType) ([]*hotel.Room, error) {
	available := true
	return s.List(ctx, hotel.RoomsListOptions{Type: roomType, Available: &available})
}

// Update validates and applies a partial room update.
func (s *RoomService) Update(ctx context.Context, id string, req hotel.UpdateRoomRequest) (*hotel.Room, error) {
	if id == "" {
		return nil, errors.New("room ID is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	room, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update room: %w", err)
	}
	s.logger.InfoContext(ctx, "room updated", "room_id", id)
	return room, nil
}

// Delete removes a room.
func (s *RoomService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("room ID is required")
	}
	room, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	s.deleteRoomImages(ctx, room)
	s.logger.InfoContext(ctx, "room deleted", "room_id", id)
	return nil
}

// deleteRoomImages removes the deleted room's stored images. Cleanup is best
// effort: a failed object delete leaves an orphan in the bucket but never
// undoes the row delete.
func (s *RoomService) deleteRoomImages(ctx context.Context, room *hotel.Room) {
	if s.objects == nil || len(room.Images) == 0 {
		return
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, url := range room.Images {
		key, ok := imageKeyFromURL(url, room.ID)
		if !ok {
			continue
		}
		g.Go(func() error {
			if err := s.objects.Delete(ctx, key); err != nil {
				s.logger.WarnContext(ctx, "room image cleanup failed", "key", key, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// imageKeyFromURL recovers the object key from a stored public URL. URLs
// that were not produced by UploadImage for this room are skipped.
func imageKeyFromURL(url, roomID string) (string, bool) {
	marker := "rooms/" + roomID + "/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return "", false
	}
	return url[idx:], true
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadImage stores a room image in the object store and appends its public
// URL to the room's image list.
func (s *RoomService) UploadImage(ctx context.Context, roomID, contentType string, body io.Reader) (*hotel.Room, error) {
	if s.objects == nil {
		return nil, errors.New("image uploads are not configured")
	}
	if roomID == "" {
		return nil, errors.New("room ID is required")
	}

	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrImageTypeUnsupported, contentType)
	}

	room, err := s.repo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	key := path.Join("rooms", roomID, uuid.NewString()+ext)
	url, err := s.objects.Put(ctx, key, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("store room image: %w", err)
	}

	images := append(append([]string{}, room.Images...), url)
	updated, err := s.repo.Update(ctx, roomID, hotel.UpdateRoomRequest{Images: images})
	if err != nil {
		// The object is orphaned if the row update fails; best effort
		// removal keeps the bucket tidy.
		if delErr := s.objects.Delete(ctx, key); delErr != nil {
			s.logger.WarnContext(ctx, "orphaned image cleanup failed", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("attach room image: %w", err)
	}

	s.logger.InfoContext(ctx, "room image uploaded", "room_id", roomID, "key", key)
	return updated, nil
}
