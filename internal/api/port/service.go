package port

import (
	"context"
	"errors"

	"github.com/anthanhphan/go-image-host/internal/api/domain"
)

var (
	ErrImageNotFound    = errors.New("image not found")
	ErrInvalidImageName = errors.New("invalid image name")
	ErrMissingHost      = errors.New("missing host")
)

// ImageService defines the business logic for image hosting.
type ImageService interface {
	// UploadImage stores the payload under a fresh random name and returns its public URL.
	UploadImage(ctx context.Context, req domain.UploadRequest) (*domain.StoredImage, error)

	// OpenImage opens a previously stored image by filename.
	OpenImage(ctx context.Context, name string) (*domain.ImageFile, error)
}
