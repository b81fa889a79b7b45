// Package blobstore keeps mesh file content outside the metadata store.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Store puts, removes and hands out links to blobs addressed by key.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns a link a client can fetch the blob from.
	URL(ctx context.Context, key string) (string, error)
}

// NewKey returns a fresh storage key of the form meshes/<yyyy>/<m>/<d>/<uuid>.
func NewKey(now time.Time) string {
	return fmt.Sprintf("meshes/%d/%d/%d/%v", now.Year(), int(now.Month()), now.Day(), uuid.New())
}
