package service

import (
	"context"

	"github.com/anthanhphan/go-image-host/internal/api/config"
	"github.com/anthanhphan/go-image-host/internal/api/domain"
	"github.com/anthanhphan/go-image-host/internal/api/port"
)

// ImageServiceImpl is the facade that wires use-case services for image operations.
type ImageServiceImpl struct {
	cfg   *config.Config
	store port.ImageStore
	idGen IDGenerator

	uploadUseCase   *uploadService
	downloadUseCase *downloadService
}

// Ensure ImageServiceImpl implements port.ImageService.
var _ port.ImageService = (*ImageServiceImpl)(nil)

// NewImageService builds the image service facade and all use-case services.
// cfg is read-only from here on.
func NewImageService(cfg *config.Config, store port.ImageStore, idGen IDGenerator) *ImageServiceImpl {
	svc := &ImageServiceImpl{
		cfg:   cfg,
		store: store,
		idGen: idGen,
	}

	svc.uploadUseCase = newUploadService(svc, svc.store, svc.idGen)
	svc.downloadUseCase = newDownloadService(svc)

	return svc
}

// UploadImage delegates upload orchestration to the upload use-case service.
func (s *ImageServiceImpl) UploadImage(ctx context.Context, req domain.UploadRequest) (*domain.StoredImage, error) {
	return s.uploadUseCase.uploadImage(ctx, req)
}

// OpenImage delegates retrieval to the download use-case service.
func (s *ImageServiceImpl) OpenImage(ctx context.Context, name string) (*domain.ImageFile, error) {
	return s.downloadUseCase.openImage(ctx, name)
}
