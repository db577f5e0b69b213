package filestorage

import (
	"context"
	"io"
)

// BlobStorage defines the contract with the external blob store.
// Implementations persist a blob under the given path and resolve the
// public URI clients use to fetch it. Bucket lifecycle, retention and
// access control are the store's concern, not ours.
type BlobStorage interface {
	// Upload persists the blob under path and returns its public URI.
	Upload(ctx context.Context, path string, r io.Reader) (string, error)

	// PublicURL resolves the public URI for an already stored path.
	PublicURL(path string) string

	// Delete removes a stored blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, path string) error
}
