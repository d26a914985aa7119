package ports

import "context"

// Notification is a site event worth telling the staff about.
type Notification struct {
	// Kind is a short machine tag, e.g. "booking.created" or
	// "message.received".
	Kind string
	// Title is a one-line human summary.
	Title string
	// Payload is the subject entity serialized for sink-side field
	// extraction.
	Payload map[string]any
}

// Notifier delivers staff notifications. Implementations must be safe for
// concurrent use; delivery failures are logged by callers and never block
// the triggering operation.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
