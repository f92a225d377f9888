// Package photos define el puerto de almacenamiento de fotos subidas por usuarios.
package photos

import (
	"context"
	"errors"
	"io"
)

var (
	ErrTooLarge = errors.New("photo too large")
	ErrNotImage = errors.New("photo must be a jpeg, png, gif or webp image")
)

// Store guarda y libera fotos. Save devuelve el nombre con el que se referencia
// (se sirve bajo /uploads/<name>). Remove es idempotente.
type Store interface {
	Save(ctx context.Context, r io.Reader) (string, error)
	Remove(ctx context.Context, name string) error
}

// IsInvalid indica si err es culpa del archivo enviado (400) y no del servidor.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrTooLarge) || errors.Is(err, ErrNotImage)
}
