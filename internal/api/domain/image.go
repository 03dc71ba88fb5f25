package domain

import (
	"io"
	"time"
)

// UploadRequest is the input of one image upload.
type UploadRequest struct {
	// Host is the value of the request's Host header, used to build the public URL.
	Host string
	// FileName is the client-supplied filename; empty when the client sent none.
	FileName string
	// Data is the raw image payload.
	Data io.Reader
}

// StoredImage describes an image persisted in storage.
type StoredImage struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// ImageFile is an opened stored image ready to be streamed back.
// The caller owns Body and must close it.
type ImageFile struct {
	Name        string
	ContentType string
	Size        int64
	ModTime     time.Time
	Body        io.ReadCloser
}
