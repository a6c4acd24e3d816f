// Package storage keeps profile images out of band and hands back a
// reference string for the user record.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	// ErrNotImage is returned when the payload is not a recognized image type.
	ErrNotImage = errors.New("only image files are allowed")
	// ErrTooLarge is returned when the payload exceeds the configured limit.
	ErrTooLarge = errors.New("file exceeds the maximum allowed size")
	// ErrEmpty is returned for a zero-length upload.
	ErrEmpty = errors.New("file is empty")
)

// BlobStore stores an uploaded file and returns a reference to it.
type BlobStore interface {
	Put(ctx context.Context, filename string, data []byte) (string, error)
}

// sniffImage validates size and content type, returning the detected MIME.
func sniffImage(data []byte, maxBytes int64) (*mimetype.MIME, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, maxBytes)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}
	return mt, nil
}

// LocalStore writes files under Dir and returns URL-style paths under URLPrefix.
type LocalStore struct {
	Dir       string
	URLPrefix string
	MaxBytes  int64
}

// NewLocalStore creates a new LocalStore
func NewLocalStore(dir, urlPrefix string, maxBytes int64) *LocalStore {
	return &LocalStore{Dir: dir, URLPrefix: urlPrefix, MaxBytes: maxBytes}
}

// Put writes data to a uniquely named file and returns its public path.
func (s *LocalStore) Put(ctx context.Context, filename string, data []byte) (string, error) {
	mt, err := sniffImage(data, s.MaxBytes)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := mt.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(filename))
	}
	name := uuid.NewString() + ext

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return path.Join(s.URLPrefix, name), nil
}

// DataURIStore embeds the image in the reference itself as a base64 data URI.
type DataURIStore struct {
	MaxBytes int64
}

// NewDataURIStore creates a new DataURIStore
func NewDataURIStore(maxBytes int64) *DataURIStore {
	return &DataURIStore{MaxBytes: maxBytes}
}

// Put returns data encoded as data:<mime>;base64,<payload>.
func (s *DataURIStore) Put(_ context.Context, _ string, data []byte) (string, error) {
	mt, err := sniffImage(data, s.MaxBytes)
	if err != nil {
		return "", err
	}

	// Strip parameters such as "; charset=utf-8" that mimetype adds for text-based images.
	mime, _, _ := strings.Cut(mt.String(), ";")
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
