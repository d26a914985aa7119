package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
	"github.com/bhotel/bhotel-ui-api/internal/ports"
)

// MessageServiceOptions groups dependencies for MessageService.
type MessageServiceOptions struct {
	Repo     ports.MessageRepository // Required: message repository
	Notifier ports.Notifier          // Optional: staff notifications
	Logger   *slog.Logger            // Optional: structured logger
}

// MessageService provides business logic for the public contact form and the
// admin inbox.
type MessageService struct {
	repo     ports.MessageRepository
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewMessageService constructs a new MessageService.
func NewMessageService(opts MessageServiceOptions) (*MessageService, error) {
	if opts.Repo == nil {
		return nil, errors.New("MessageRepository is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &MessageService{
		repo:     opts.Repo,
		notifier: opts.Notifier,
		logger:   logger.With("component", "message_service"),
	}, nil
}

// Submit validates and stores a contact message, stripping markup from the
// free-text fields, then notifies the staff.
func (s *MessageService) Submit(ctx context.Context, req *hotel.CreateMessageRequest) (*hotel.ContactMessage, error) {
	if req == nil {
		return nil, errors.New("create message request is required")
	}

	cleaned := hotel.CreateMessageRequest{
		Name:    StripHTML(req.Name),
		Email:   req.Email,
		Subject: StripHTML(req.Subject),
		Body:    StripHTML(req.Body),
	}
	if err := cleaned.Validate(); err != nil {
		return nil, err
	}

	msg, err := s.repo.Create(ctx, &cleaned)
	if err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}

	s.logger.InfoContext(ctx, "contact message received", "message_id", msg.ID)
	if s.notifier != nil {
		n := ports.Notification{
			Kind:  "message.received",
			Title: "New contact message from " + msg.Name,
			Payload: map[string]any{
				"message_id": msg.ID,
				"name":       msg.Name,
				"email":      msg.Email,
				"subject":    msg.Subject,
			},
		}
		if notifyErr := s.notifier.Notify(ctx, n); notifyErr != nil {
			s.logger.WarnContext(ctx, "contact notification failed", "error", notifyErr)
		}
	}
	return msg, nil
}

// List retrieves every contact message for the admin inbox, newest first.
func (s *MessageService) List(ctx context.Context) ([]*hotel.ContactMessage, error) {
	messages, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, nil
}

// MarkRead flips the read flag on a message.
func (s *MessageService) MarkRead(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("message ID is required")
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return nil
}
