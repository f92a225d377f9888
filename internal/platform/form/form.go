// Package form lee bodies multipart con un archivo opcional "photo".
package form

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"pet-adoption/internal/ports/photos"
)

const PhotoField = "photo"

// margen para los campos de texto además de la foto.
const fieldsOverhead = 1 << 20

var ErrBadForm = errors.New("invalid form")

func IsMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// Multipart contiene los campos y la foto (nil si no vino).
type Multipart struct {
	Values url.Values
	Photo  io.Reader

	file multipart.File
	form *multipart.Form
}

// Close libera el archivo y los temporales del form.
func (m *Multipart) Close() {
	if m == nil {
		return
	}
	if m.file != nil {
		_ = m.file.Close()
	}
	if m.form != nil {
		_ = m.form.RemoveAll()
	}
}

func ParseMultipart(w http.ResponseWriter, r *http.Request, maxPhotoBytes int64) (*Multipart, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes+fieldsOverhead)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, photos.ErrTooLarge
		}
		return nil, fmt.Errorf("%w: %v", ErrBadForm, err)
	}

	m := &Multipart{Values: r.MultipartForm.Value, form: r.MultipartForm}
	f, _, err := r.FormFile(PhotoField)
	switch {
	case err == nil:
		m.file = f
		m.Photo = f
	case errors.Is(err, http.ErrMissingFile):
	default:
		m.Close()
		return nil, fmt.Errorf("%w: %v", ErrBadForm, err)
	}
	return m, nil
}

// String devuelve nil si la clave no vino en el form.
func String(v url.Values, key string) *string {
	if _, ok := v[key]; !ok {
		return nil
	}
	s := v.Get(key)
	return &s
}

func Int(v url.Values, key string) (*int, error) {
	s := String(v, key)
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", ErrBadForm, key)
	}
	return &n, nil
}

func Float(v url.Values, key string) (*float64, error) {
	s := String(v, key)
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", ErrBadForm, key)
	}
	return &f, nil
}
