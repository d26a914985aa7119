// Package mocks provides generated mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the repository and sink interfaces in internal/ports. The mocks are generated
// using go:generate directives and provide a fluent API for setting up test
// expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	repo := mocks.NewMockRoomRepository(ctrl)
//	repo.EXPECT().GetByID(gomock.Any(), "room-1").Return(room, nil)
package mocks

// Generate mock for RoomRepository interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=room_repository_mock.go github.com/bhotel/bhotel-ui-api/internal/ports RoomRepository

// Generate mock for BookingRepository interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=booking_repository_mock.go github.com/bhotel/bhotel-ui-api/internal/ports BookingRepository

// Generate mock for ReviewRepository interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=review_repository_mock.go github.com/bhotel/bhotel-ui-api/internal/ports ReviewRepository

// Generate mock for MessageRepository interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=message_repository_mock.go github.com/bhotel/bhotel-ui-api/internal/ports MessageRepository

// Generate mock for SettingsRepository interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=settings_repository_mock.go github.com/bhotel/bhotel-ui-api/internal/ports SettingsRepository

// Generate mock for Notifier interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=notifier_mock.go github.com/bhotel/bhotel-ui-api/internal/ports Notifier

// Generate mock for ObjectStore interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=object_store_mock.go github.com/bhotel/bhotel-ui-api/internal/ports ObjectStore
