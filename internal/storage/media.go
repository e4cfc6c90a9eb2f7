// Package storage keeps uploaded customer photos on the local filesystem,
// addressed by paths relative to a media root (e.g. "customers/<uuid>.jpg").
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedImage is returned when an upload is not a decodable JPEG, PNG or GIF.
var ErrUnsupportedImage = errors.New("upload a valid image: the file was either not an image or a corrupted image")

// ErrInvalidPath is returned for references escaping the media root.
var ErrInvalidPath = errors.New("invalid media path")

// MediaStore reads and writes blobs under Root.
type MediaStore struct {
	Root string
}

// NewMediaStore creates a store rooted at dir.
func NewMediaStore(dir string) *MediaStore {
	return &MediaStore{Root: dir}
}

// SaveImage validates data as an image and writes it under namespace with a
// random file name. It returns the stored reference.
func (s *MediaStore) SaveImage(namespace string, data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrUnsupportedImage
	}
	ext := "." + format
	if format == "jpeg" {
		ext = ".jpg"
	}

	ref := path.Join(strings.Trim(namespace, "/"), uuid.NewString()+ext)
	full, err := s.resolve(ref)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return ref, nil
}

// Read returns the bytes stored under ref.
func (s *MediaStore) Read(ref string) ([]byte, error) {
	full, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

// Remove deletes the blob under ref. A missing file is not an error.
func (s *MediaStore) Remove(ref string) error {
	full, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *MediaStore) resolve(ref string) (string, error) {
	clean := path.Clean("/" + ref)
	if ref == "" || clean == "/" {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.Root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
