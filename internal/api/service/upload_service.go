package service

import (
	"context"
	"fmt"
	"time"

	"github.com/anthanhphan/go-image-host/internal/api/domain"
	"github.com/anthanhphan/go-image-host/internal/api/port"
	"github.com/anthanhphan/gosdk/logger"
)

//go:generate mockgen -destination=mocks/dependencies_mock.go -package=mocks -source=upload_service.go

// IDGenerator defines random token generation capability.
type IDGenerator interface {
	Next() (string, error)
}

// uploadService names, persists and publishes uploaded images.
type uploadService struct {
	core  *ImageServiceImpl
	store port.ImageStore
	idGen IDGenerator
}

// newUploadService creates the upload use-case service.
func newUploadService(core *ImageServiceImpl, store port.ImageStore, idGen IDGenerator) *uploadService {
	return &uploadService{core: core, store: store, idGen: idGen}
}

// uploadImage performs the full upload workflow from payload to public URL.
func (s *uploadService) uploadImage(ctx context.Context, req domain.UploadRequest) (*domain.StoredImage, error) {
	if req.Host == "" {
		return nil, port.ErrMissingHost
	}

	id, err := s.nextImageID()
	if err != nil {
		return nil, err
	}
	name := buildImageName(id, ResolveExtension(req.FileName))

	logger.Infow("Upload started", "name", name, "file_name", req.FileName)

	size, err := s.store.Save(ctx, name, req.Data)
	if err != nil {
		logger.Errorw("Upload failed", "name", name, "error", err.Error())
		return nil, fmt.Errorf("failed to store image %s: %w", name, err)
	}

	img := &domain.StoredImage{
		Name:      name,
		URL:       buildPublicURL(s.core.cfg.Scheme(), req.Host, name),
		Size:      size,
		CreatedAt: time.Now(),
	}

	logger.Infow("Upload completed", "name", name, "size_bytes", size, "url", img.URL)
	return img, nil
}

// nextImageID draws a fresh token from the configured generator.
func (s *uploadService) nextImageID() (string, error) {
	id, err := s.idGen.Next()
	if err != nil {
		return "", fmt.Errorf("failed to generate image id: %w", err)
	}
	return id, nil
}
