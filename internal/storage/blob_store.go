package storage

import (
	"context"

	"mediapost/internal/domain/blob"
)

// BlobStore persists binary attachments by generated id.
// Get and Delete return an error wrapping mediapost_errors.ErrNotFound when the id is unknown.
type BlobStore interface {
	Save(ctx context.Context, upload blob.Upload) (string, error)
	Get(ctx context.Context, id string) (blob.Blob, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
