// Package formfield extracts a single named field from a multipart/form-data body
// while enforcing a size cap and a media-type restriction on that field.
package formfield

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strings"
)

var (
	ErrPayloadTooLarge      = errors.New("payload too large")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingField         = errors.New("missing field")
	ErrMalformedForm        = errors.New("malformed multipart form")
)

// Options describes the field to extract.
type Options struct {
	// Name is the form field name to look for.
	Name string
	// MaxSize is the maximum payload size in bytes. Zero or negative disables the cap.
	MaxSize int64
	// ContentType is the accepted media type pattern, e.g. "image/*".
	// Empty accepts anything.
	ContentType string
}

// Field is a raw form field read into memory.
type Field struct {
	Name        string
	FileName    string
	ContentType string
	Data        []byte
}

// Extract parses body as multipart/form-data and returns the first part named opts.Name.
// Parts with other names are skipped. contentType is the request Content-Type header.
func Extract(contentType string, body io.Reader, opts Options) (*Field, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid content type: %v", ErrMalformedForm, err)
	}
	if mediaType != "multipart/form-data" {
		return nil, fmt.Errorf("%w: content type %q is not multipart/form-data", ErrMalformedForm, mediaType)
	}
	boundary, ok := params["boundary"]
	if !ok || boundary == "" {
		return nil, fmt.Errorf("%w: missing boundary", ErrMalformedForm)
	}

	mr := multipart.NewReader(body, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, fmt.Errorf("%w: %q", ErrMissingField, opts.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedForm, err)
		}

		if part.FormName() != opts.Name {
			if _, err := io.Copy(io.Discard, part); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedForm, err)
			}
			_ = part.Close()
			continue
		}

		field, err := readField(part, opts)
		_ = part.Close()
		return field, err
	}
}

func readField(part *multipart.Part, opts Options) (*Field, error) {
	partType := part.Header.Get("Content-Type")
	if !MatchMediaType(opts.ContentType, partType) {
		return nil, fmt.Errorf("%w: field %q has content type %q, want %q", ErrUnsupportedMediaType, opts.Name, partType, opts.ContentType)
	}

	var src io.Reader = part
	if opts.MaxSize > 0 {
		// One extra byte tells "exactly at the limit" apart from "over it".
		src = io.LimitReader(part, opts.MaxSize+1)
	}

	var buf bytes.Buffer
	n, err := buf.ReadFrom(src)
	if err != nil {
		return nil, fmt.Errorf("%w: read field %q: %v", ErrMalformedForm, opts.Name, err)
	}
	if opts.MaxSize > 0 && n > opts.MaxSize {
		return nil, fmt.Errorf("%w: field %q exceeds %d bytes", ErrPayloadTooLarge, opts.Name, opts.MaxSize)
	}

	return &Field{
		Name:        opts.Name,
		FileName:    part.FileName(),
		ContentType: partType,
		Data:        buf.Bytes(),
	}, nil
}

// MatchMediaType reports whether value satisfies pattern.
// Patterns are "*/*", "type/*" or an exact "type/subtype"; parameters are ignored.
func MatchMediaType(pattern, value string) bool {
	if pattern == "" {
		return true
	}
	if value == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return false
	}
	pattern = strings.ToLower(pattern)

	if pattern == "*/*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		typ, _, found := strings.Cut(mediaType, "/")
		return found && typ == prefix
	}
	return mediaType == pattern
}
