package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/anthanhphan/go-image-host/internal/api/domain"
	"github.com/anthanhphan/go-image-host/internal/api/port"
	"github.com/anthanhphan/gosdk/logger"
	"github.com/gabriel-vasile/mimetype"
)

const octetStream = "application/octet-stream"

// downloadService opens stored images for streaming.
type downloadService struct {
	core *ImageServiceImpl
}

// newDownloadService creates the download use-case service.
func newDownloadService(core *ImageServiceImpl) *downloadService {
	return &downloadService{core: core}
}

// openImage opens a stored image and resolves its content type.
func (s *downloadService) openImage(ctx context.Context, name string) (*domain.ImageFile, error) {
	obj, err := s.core.store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, port.ErrInvalidImageName) {
			logger.Warnw("Rejected image name", "name", name)
		}
		return nil, err
	}

	contentType, err := detectContentType(name, obj.Body)
	if err != nil {
		_ = obj.Body.Close()
		return nil, err
	}

	return &domain.ImageFile{
		Name:        name,
		ContentType: contentType,
		Size:        obj.Size,
		ModTime:     obj.ModTime,
		Body:        obj.Body,
	}, nil
}

// detectContentType maps the extension to a media type and sniffs the content
// when the extension is unknown. body is rewound after sniffing.
func detectContentType(name string, body io.ReadSeeker) (string, error) {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" && ct != octetStream {
		return ct, nil
	}

	mt, err := mimetype.DetectReader(body)
	if err != nil {
		return "", fmt.Errorf("failed to detect content type of %s: %w", name, err)
	}
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind %s: %w", name, err)
	}
	return mt.String(), nil
}
