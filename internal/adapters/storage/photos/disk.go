// Package photos guarda fotos en disco local.
package photos

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	port "pet-adoption/internal/ports/photos"
)

const DefaultMaxBytes int64 = 5 << 20

var extByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// DiskStore implementa photos.Store sobre un directorio.
type DiskStore struct {
	dir      string
	maxBytes int64
	newName  func() string
}

func NewDiskStore(dir string, maxBytes int64) (*DiskStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("photos: upload dir required")
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("photos: create dir: %w", err)
	}
	return &DiskStore{
		dir:      dir,
		maxBytes: maxBytes,
		newName:  func() string { return "pet-" + uuid.NewString() },
	}, nil
}

func (s *DiskStore) Dir() string { return s.dir }

func (s *DiskStore) MaxBytes() int64 { return s.maxBytes }

func (s *DiskStore) Save(ctx context.Context, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("photos: read: %w", err)
	}
	if len(head) == 0 {
		return "", port.ErrNotImage
	}
	ext, ok := extByType[http.DetectContentType(head)]
	if !ok {
		return "", port.ErrNotImage
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("photos: temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	// +1 para detectar que el archivo supera el máximo.
	n, err := io.Copy(tmp, io.LimitReader(br, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("photos: write: %w", err)
	}
	if n > s.maxBytes {
		return "", port.ErrTooLarge
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("photos: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("photos: close: %w", err)
	}

	name := s.newName() + ext
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("photos: rename: %w", err)
	}
	committed = true
	return name, nil
}

func (s *DiskStore) Remove(_ context.Context, name string) error {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("photos: remove %s: %w", name, err)
	}
	return nil
}
