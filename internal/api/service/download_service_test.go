package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/anthanhphan/go-image-host/internal/api/config"
	"github.com/anthanhphan/go-image-host/internal/api/port"
	"github.com/anthanhphan/go-image-host/internal/api/service/mocks"
	"go.uber.org/mock/gomock"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type seekCloser struct {
	*bytes.Reader
	closed bool
}

func (s *seekCloser) Close() error {
	s.closed = true
	return nil
}

func TestDownloadService_OpenImage(t *testing.T) {
	tests := []struct {
		name            string
		imageName       string
		data            []byte
		openErr         error
		wantErr         error
		wantContentType string
	}{
		{
			name:            "ByExtension",
			imageName:       "Ab3_x-9QzK.png",
			data:            []byte("not really a png"),
			wantContentType: "image/png",
		},
		{
			name:            "SniffUnknownExtension",
			imageName:       "Ab3_x-9QzK.bin",
			data:            pngMagic,
			wantContentType: "image/png",
		},
		{
			name:      "NotFound",
			imageName: "missing.png",
			openErr:   port.ErrImageNotFound,
			wantErr:   port.ErrImageNotFound,
		},
		{
			name:      "InvalidName",
			imageName: "../etc/passwd",
			openErr:   port.ErrInvalidImageName,
			wantErr:   port.ErrInvalidImageName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			body := &seekCloser{Reader: bytes.NewReader(tt.data)}
			mockStore := mocks.NewMockImageStore(ctrl)
			if tt.openErr != nil {
				mockStore.EXPECT().Open(gomock.Any(), tt.imageName).Return(nil, tt.openErr)
			} else {
				mockStore.EXPECT().Open(gomock.Any(), tt.imageName).Return(&port.StoredObject{
					Body: body,
					Size: int64(len(tt.data)),
				}, nil)
			}

			svc := NewImageService(config.DefaultConfig(), mockStore, nil)
			img, err := svc.OpenImage(context.Background(), tt.imageName)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("OpenImage failed: %v", err)
			}

			if img.ContentType != tt.wantContentType {
				t.Errorf("expected content type %s, got %s", tt.wantContentType, img.ContentType)
			}
			if img.Size != int64(len(tt.data)) {
				t.Errorf("expected size %d, got %d", len(tt.data), img.Size)
			}

			// Sniffing must not consume the body.
			got, err := io.ReadAll(img.Body)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tt.data) {
				t.Errorf("body mismatch: got %q", got)
			}
			_ = img.Body.Close()
			if !body.closed {
				t.Errorf("expected body to be closed")
			}
		})
	}
}
