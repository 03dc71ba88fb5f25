package idgen

import (
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// DefaultLength is the token length used for stored image names.
	// 10 symbols of a 64-char alphabet give 60 bits of entropy.
	DefaultLength = 10

	// Alphabet is the URL-safe nanoid alphabet.
	Alphabet = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var ErrInvalidLength = errors.New("token length must be positive")

// NanoID generates short random URL-safe tokens.
// It holds no mutable state and is safe for concurrent use.
type NanoID struct {
	length int
}

// New creates a NanoID generator producing tokens of the given length.
func New(length int) (*NanoID, error) {
	if length <= 0 {
		return nil, ErrInvalidLength
	}
	return &NanoID{length: length}, nil
}

// Next returns a fresh random token.
func (g *NanoID) Next() (string, error) {
	id, err := gonanoid.Generate(Alphabet, g.length)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return id, nil
}
