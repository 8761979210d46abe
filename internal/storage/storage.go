package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectExists is returned by Upload when the target key is already
// occupied. Keys carry a random component, so a collision is rare and is
// surfaced as a failure rather than an overwrite.
var ErrObjectExists = errors.New("storage object already exists")

// Storage is the gateway to the object store holding uploaded documents.
type Storage interface {
	// Upload stores data under key with no-overwrite semantics.
	Upload(ctx context.Context, key string, data io.Reader, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
