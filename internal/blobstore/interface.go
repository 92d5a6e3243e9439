package blobstore

import (
	"context"
	"io"
)

// Store is the byte-storage abstraction used by the upload service. Blobs
// are addressed by their externally-issued upload id.
type Store interface {
	Put(ctx context.Context, id string, r io.Reader) (int64, error)
	Open(ctx context.Context, id string) (io.ReadCloser, int64, error)
	Delete(ctx context.Context, id string) error
}
