package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthanhphan/go-image-host/internal/api/port"
	"github.com/anthanhphan/gosdk/logger"
)

// DiskAdapter implements port.ImageStore on a flat directory of files.
type DiskAdapter struct {
	dirPath string
}

// Ensure DiskAdapter implements port.ImageStore.
var _ port.ImageStore = (*DiskAdapter)(nil)

// NewDiskAdapter creates the storage directory if needed and returns the adapter.
func NewDiskAdapter(dir string) (*DiskAdapter, error) {
	if dir == "" {
		return nil, errors.New("storage directory is empty")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &DiskAdapter{dirPath: filepath.Clean(dir)}, nil
}

// Dir returns the storage directory.
func (a *DiskAdapter) Dir() string {
	return a.dirPath
}

// Save writes reader to a new file. A partially written file is removed on failure.
func (a *DiskAdapter) Save(ctx context.Context, name string, reader io.Reader) (int64, error) {
	path, err := a.resolve(name)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	// G304: path is validated to stay inside the storage directory
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0640) // #nosec G304
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", name, err)
	}

	written, err := io.Copy(file, reader)
	if err == nil {
		err = file.Sync()
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			logger.Warnw("Failed to remove partial image", "name", name, "error", rmErr.Error())
		}
		return 0, fmt.Errorf("write %s: %w", name, err)
	}

	return written, nil
}

// Open opens a stored file for reading.
func (a *DiskAdapter) Open(ctx context.Context, name string) (*port.StoredObject, error) {
	path, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path) // #nosec G304
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, port.ErrImageNotFound
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if !info.Mode().IsRegular() {
		_ = file.Close()
		return nil, port.ErrImageNotFound
	}

	return &port.StoredObject{
		Body:    file,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// resolve maps name to a path directly inside the storage directory.
func (a *DiskAdapter) resolve(name string) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("%w: %q", port.ErrInvalidImageName, name)
	}
	return filepath.Join(a.dirPath, name), nil
}

// ValidName reports whether name is a single, non-hidden path element.
func ValidName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	if strings.ContainsAny(name, "/\\\x00") || strings.Contains(name, "..") {
		return false
	}
	return filepath.Base(name) == name
}
