package port

import (
	"context"
	"io"
	"time"
)

//go:generate mockgen -destination=../service/mocks/image_store_mock.go -package=mocks -source=repository.go

// StoredObject is an opened file from the image store.
type StoredObject struct {
	Body    io.ReadSeekCloser
	Size    int64
	ModTime time.Time
}

// ImageStore defines the persistence of raw image bytes.
type ImageStore interface {
	// Save writes reader to a new file called name and returns the bytes written.
	// It fails if name already exists.
	Save(ctx context.Context, name string, reader io.Reader) (int64, error)

	// Open opens the file called name for reading.
	// It returns ErrImageNotFound when no such file exists and
	// ErrInvalidImageName when name could escape the storage directory.
	Open(ctx context.Context, name string) (*StoredObject, error)
}
