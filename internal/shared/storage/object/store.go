package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is wrapped by Open when the key holds no object.
var ErrNotFound = errors.New("object not found")

// ObjectStore holds uploaded job description files and their extracted text.
// Keys come from NewKey or DerivedKey; Save picks the key itself, SaveWithKey
// writes to one the caller already owns.
type ObjectStore interface {
	Save(ctx context.Context, ownerID, fileName string, r io.Reader) (key string, size int64, mimeType string, err error)
	SaveWithKey(ctx context.Context, key, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
