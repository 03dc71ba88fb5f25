package disk

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/anthanhphan/go-image-host/internal/api/port"
)

type failingReader struct {
	data []byte
	sent bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.sent {
		r.sent = true
		return copy(p, r.data), nil
	}
	return 0, errors.New("connection reset")
}

func newTestAdapter(t *testing.T) *DiskAdapter {
	t.Helper()
	dir, err := os.MkdirTemp("", "disk_test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	adapter, err := NewDiskAdapter(dir)
	if err != nil {
		t.Fatal(err)
	}
	return adapter
}

func TestDiskAdapter_SaveOpen(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	n, err := adapter.Save(ctx, "Ab3_x-9QzK.png", bytes.NewReader([]byte("hello image")))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if n != int64(len("hello image")) {
		t.Errorf("Expected %d bytes written, got %d", len("hello image"), n)
	}

	obj, err := adapter.Open(ctx, "Ab3_x-9QzK.png")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = obj.Body.Close() }()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(data) != "hello image" {
		t.Errorf("Expected 'hello image', got '%s'", string(data))
	}
	if obj.Size != int64(len(data)) {
		t.Errorf("Expected size %d, got %d", len(data), obj.Size)
	}
}

func TestDiskAdapter_SaveRefusesOverwrite(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	if _, err := adapter.Save(ctx, "dup.png", bytes.NewReader([]byte("first"))); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := adapter.Save(ctx, "dup.png", bytes.NewReader([]byte("second"))); err == nil {
		t.Fatalf("Expected error when saving an existing name")
	}

	data, err := os.ReadFile(filepath.Join(adapter.Dir(), "dup.png"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first" {
		t.Errorf("Existing image was modified: %q", data)
	}
}

func TestDiskAdapter_SaveRemovesPartialFile(t *testing.T) {
	adapter := newTestAdapter(t)

	_, err := adapter.Save(context.Background(), "partial.png", &failingReader{data: []byte("half")})
	if err == nil {
		t.Fatalf("Expected write error")
	}

	if _, statErr := os.Stat(filepath.Join(adapter.Dir(), "partial.png")); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("Expected partial file to be removed, stat error: %v", statErr)
	}
}

func TestDiskAdapter_OpenMissing(t *testing.T) {
	adapter := newTestAdapter(t)

	_, err := adapter.Open(context.Background(), "nothere.png")
	if !errors.Is(err, port.ErrImageNotFound) {
		t.Errorf("Expected ErrImageNotFound, got %v", err)
	}
}

func TestDiskAdapter_OpenDirectory(t *testing.T) {
	adapter := newTestAdapter(t)
	if err := os.Mkdir(filepath.Join(adapter.Dir(), "subdir"), 0750); err != nil {
		t.Fatal(err)
	}

	_, err := adapter.Open(context.Background(), "subdir")
	if !errors.Is(err, port.ErrImageNotFound) {
		t.Errorf("Expected ErrImageNotFound for a directory, got %v", err)
	}
}

func TestDiskAdapter_RejectsTraversal(t *testing.T) {
	parent, err := os.MkdirTemp("", "disk_traversal")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.RemoveAll(parent) }()

	if err := os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("secret"), 0600); err != nil {
		t.Fatal(err)
	}
	adapter, err := NewDiskAdapter(filepath.Join(parent, "images"))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	for _, name := range []string{"../secret.txt", "..", ".", "", "a/b.png", `..\secret.txt`, ".hidden", "x\x00.png"} {
		if _, err := adapter.Open(ctx, name); !errors.Is(err, port.ErrInvalidImageName) {
			t.Errorf("Open(%q): expected ErrInvalidImageName, got %v", name, err)
		}
		if _, err := adapter.Save(ctx, name, bytes.NewReader([]byte("x"))); !errors.Is(err, port.ErrInvalidImageName) {
			t.Errorf("Save(%q): expected ErrInvalidImageName, got %v", name, err)
		}
	}
}

func TestNewDiskAdapter_CreatesDirectory(t *testing.T) {
	parent, err := os.MkdirTemp("", "disk_create")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.RemoveAll(parent) }()

	dir := filepath.Join(parent, "storage")
	if _, err := NewDiskAdapter(dir); err != nil {
		t.Fatalf("NewDiskAdapter failed: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("Expected storage directory to exist, err=%v", err)
	}

	// An existing directory is fine.
	if _, err := NewDiskAdapter(dir); err != nil {
		t.Fatalf("NewDiskAdapter on existing dir failed: %v", err)
	}
}

func TestNewDiskAdapter_PathIsFile(t *testing.T) {
	parent, err := os.MkdirTemp("", "disk_file")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.RemoveAll(parent) }()

	file := filepath.Join(parent, "occupied")
	if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewDiskAdapter(file); err == nil {
		t.Fatalf("Expected error when storage path is a regular file")
	}
}

func TestDiskAdapter_CanceledContext(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := adapter.Save(ctx, "late.png", bytes.NewReader([]byte("x"))); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
