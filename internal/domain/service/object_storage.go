package service

import (
	"context"
	"io"

	"marketplace/internal/domain/entity"
)

// ObjectStorage is a single bucket of objects. Implementations enforce the
// bucket's size limit and allowed content types on every write.
type ObjectStorage interface {
	// Bucket returns the bucket name objects are stored under.
	Bucket() string

	// Put writes the object, replacing any existing object with the same name.
	Put(ctx context.Context, name, contentType string, data []byte) (*entity.StoredObject, error)

	// Stat returns the object's attributes.
	Stat(ctx context.Context, name string) (*entity.StoredObject, error)

	// Open returns a reader for the object's content.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes the object.
	Delete(ctx context.Context, name string) error

	// PublicURL returns the URL an object is served from.
	PublicURL(name string) string
}
