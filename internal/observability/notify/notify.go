// Package notify provides fan-out and helper types over the Notifier port.
package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bhotel/bhotel-ui-api/internal/ports"
)

// NotifierFunc adapts a function to the Notifier port.
type NotifierFunc func(ctx context.Context, n ports.Notification) error

// Notify implements ports.Notifier.
func (f NotifierFunc) Notify(ctx context.Context, n ports.Notification) error {
	return f(ctx, n)
}

// Noop returns a notifier that accepts every notification and does nothing.
func Noop() ports.Notifier {
	return NotifierFunc(func(context.Context, ports.Notification) error {
		return nil
	})
}

// Multi fans a notification out to every sink. Each sink gets the event even
// when earlier sinks fail; failures are joined into one error.
type Multi struct {
	sinks  []ports.Notifier
	logger *slog.Logger
}

var _ ports.Notifier = (*Multi)(nil)

// NewMulti builds a fan-out notifier over the given sinks. Nil sinks are
// skipped.
func NewMulti(logger *slog.Logger, sinks ...ports.Notifier) *Multi {
	if logger == nil {
		logger = slog.Default()
	}

	kept := make([]ports.Notifier, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Multi{sinks: kept, logger: logger}
}

// Notify implements ports.Notifier.
func (m *Multi) Notify(ctx context.Context, n ports.Notification) error {
	var errs []error
	for _, sink := range m.sinks {
		if err := sink.Notify(ctx, n); err != nil {
			m.logger.Warn("notification sink failed",
				"kind", n.Kind,
				"error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
