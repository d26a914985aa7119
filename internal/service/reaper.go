package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bhotel/bhotel-ui-api/config"
	"github.com/bhotel/bhotel-ui-api/internal/observability/metrics"
	"github.com/bhotel/bhotel-ui-api/internal/observability/statsd"
	"github.com/bhotel/bhotel-ui-api/internal/ports"
)

// BookingReaperOptions groups dependencies for BookingReaperService.
type BookingReaperOptions struct {
	Repo    ports.BookingRepository    // Required: booking repository
	Config  config.BookingReaperConfig // Required: reaper configuration
	Logger  *slog.Logger               // Optional: structured logger
	Metrics statsd.Sink                // Optional: metrics sink
}

// BookingReaperService runs periodic booking maintenance:
// - Cancelling pending bookings that were never confirmed.
// - Completing confirmed bookings once the stay has ended.
type BookingReaperService struct {
	repo    ports.BookingRepository
	config  config.BookingReaperConfig
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewBookingReaperService constructs a new BookingReaperService.
func NewBookingReaperService(opts BookingReaperOptions) (*BookingReaperService, error) {
	if opts.Repo == nil {
		return nil, errors.New("BookingRepository is required")
	}
	if opts.Config.Interval <= 0 {
		return nil, errors.New("reaper interval must be positive")
	}
	if opts.Config.PendingMaxAge <= 0 {
		return nil, errors.New("reaper pending max age must be positive")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "booking_reaper")
	logger.Debug("BookingReaperService initialized",
		"interval", opts.Config.Interval,
		"pending_max_age", opts.Config.PendingMaxAge,
	)

	return &BookingReaperService{
		repo:    opts.Repo,
		config:  opts.Config,
		logger:  logger,
		metrics: opts.Metrics,
	}, nil
}

// Run starts the maintenance loop and runs until the context is cancelled.
// Returns nil on graceful shutdown.
func (s *BookingReaperService) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "starting booking reaper", "interval", s.config.Interval)

	// Jitter spreads the first pass when multiple instances start together.
	s.waitWithJitter(ctx)

	if err := s.runCleanup(ctx); err != nil {
		s.logCleanupError(ctx, err)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "booking reaper stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case <-ticker.C:
			if err := s.runCleanup(ctx); err != nil {
				s.logCleanupError(ctx, err)
			}
		}
	}
}

// waitWithJitter delays up to 10% of the interval.
func (s *BookingReaperService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		s.logger.WarnContext(ctx, "jitter generation failed, skipping", "error", err)
		return
	}
	jitter := time.Duration(int64(binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)))

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
	}
}

// runCleanup performs one maintenance pass and emits metrics for it.
func (s *BookingReaperService) runCleanup(ctx context.Context) error {
	start := time.Now()
	now := start.UTC()

	var errs []error

	expired, err := s.repo.CancelStalePending(ctx, now.Add(-s.config.PendingMaxAge))
	if err != nil {
		errs = append(errs, fmt.Errorf("cancel stale pending bookings: %w", err))
	} else if expired > 0 {
		s.logger.InfoContext(ctx, "cancelled stale pending bookings",
			"count", expired,
			"max_age", s.config.PendingMaxAge,
		)
	}

	completed, err := s.repo.CompleteDepartedStays(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("complete departed stays: %w", err))
	} else if completed > 0 {
		s.logger.InfoContext(ctx, "completed departed stays", "count", completed)
	}

	joined := errors.Join(errs...)
	metrics.EmitRun(s.metrics, suppressContextCancellation(joined), time.Since(start),
		expired, completed, map[string]string{"component": "booking_reaper"})

	if joined != nil {
		if isContextCancellation(joined) {
			return context.Canceled
		}
		return fmt.Errorf("booking cleanup failed: %w", joined)
	}
	return nil
}

func (s *BookingReaperService) logCleanupError(ctx context.Context, err error) {
	if isContextCancellation(err) {
		s.logger.DebugContext(ctx, "cleanup cancelled by context", "error", err)
		return
	}
	s.logger.ErrorContext(ctx, "cleanup failed", "error", err)
}

func isContextCancellation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func suppressContextCancellation(err error) error {
	if isContextCancellation(err) {
		return nil
	}
	return err
}
