// Package reaper provides the adapter for running the booking maintenance
// loop.
package reaper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bhotel/bhotel-ui-api/config"
	"github.com/bhotel/bhotel-ui-api/internal/data"
	"github.com/bhotel/bhotel-ui-api/internal/observability/statsd"
	"github.com/bhotel/bhotel-ui-api/internal/ports"
	"github.com/bhotel/bhotel-ui-api/internal/service"
)

// Runner constructs the booking reaper service over the database-backed
// booking repository and runs its loop.
type Runner struct {
	reaper *service.BookingReaperService
	logger *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	DB     *sql.DB
	Config config.BookingReaperConfig
	Logger *slog.Logger

	// Optional dependency injection for testing/decoupling
	Repo    ports.BookingRepository
	Metrics statsd.Sink
}

// NewRunner creates a new reaper runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.DB == nil && opts.Repo == nil {
		return nil, errors.New("database connection is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	repo := opts.Repo
	if repo == nil {
		repo = data.NewBookingRepo(opts.DB)
	}

	reaper, err := service.NewBookingReaperService(service.BookingReaperOptions{
		Repo:    repo,
		Config:  opts.Config,
		Logger:  opts.Logger,
		Metrics: opts.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("wire booking reaper service: %w", err)
	}

	return &Runner{
		reaper: reaper,
		logger: opts.Logger,
	}, nil
}

// Run starts the reaper loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting booking reaper runner")
	return r.reaper.Run(ctx)
}
