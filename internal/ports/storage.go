package ports

import (
	"context"
	"io"
)

// ObjectStore persists uploaded room images in a hosted object store and
// returns public URLs for them.
type ObjectStore interface {
	// Put stores the object under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}
