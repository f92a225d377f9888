package pets

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/photos"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
)

type Service struct {
	repo   Repository
	photos photos.Store
	log    logger.Logger
	now    func() time.Time
}

func NewService(repo Repository, store photos.Store, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:   repo,
		photos: store,
		log:    log,
		now:    time.Now,
	}
}

type CreateInput struct {
	Name        string
	Species     string
	Breed       string
	Age         *int
	Sex         string
	Size        string
	Color       string
	Description string
	Status      string
	Latitude    *float64
	Longitude   *float64
}

// Create valida, guarda la foto (si viene) y luego inserta la fila.
// Si el insert falla, la foto nueva se libera.
func (s *Service) Create(ctx context.Context, holderID int64, in CreateInput, photo io.Reader) (Pet, error) {
	if holderID <= 0 {
		return Pet{}, ErrInvalidInput
	}

	now := s.now()
	p := Pet{
		HolderID:    holderID,
		Name:        strings.TrimSpace(in.Name),
		Species:     Species(strings.ToLower(strings.TrimSpace(in.Species))),
		Breed:       strings.TrimSpace(in.Breed),
		Age:         in.Age,
		Sex:         Sex(strings.ToLower(strings.TrimSpace(in.Sex))),
		Size:        strings.TrimSpace(in.Size),
		Color:       strings.TrimSpace(in.Color),
		Description: strings.TrimSpace(in.Description),
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	// species, sex y status son obligatorios al publicar.
	st, ok := ParseStatus(in.Status)
	if !ok {
		return Pet{}, ErrInvalidInput
	}
	p.Status = st
	if err := validate(p); err != nil {
		return Pet{}, err
	}

	newPhoto, err := s.savePhoto(ctx, photo)
	if err != nil {
		return Pet{}, err
	}
	p.Photo = newPhoto

	id, err := s.repo.Create(ctx, p)
	if err != nil {
		s.release(ctx, newPhoto)
		return Pet{}, err
	}
	p.ID = id
	return p, nil
}

type UpdateInput struct {
	// nil = no tocar
	Name        *string
	Species     *string
	Breed       *string
	Age         *int
	Sex         *string
	Size        *string
	Color       *string
	Description *string
	Status      *string
	Latitude    *float64
	Longitude   *float64
}

// Update aplica un patch. Mascota inexistente o ajena => ErrNotFound en ambos casos.
// La foto anterior se libera solo después de que la fila referencia la nueva.
func (s *Service) Update(ctx context.Context, petID, callerID int64, in UpdateInput, photo io.Reader) (Pet, error) {
	p, err := s.owned(ctx, petID, callerID)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Species != nil {
		p.Species = Species(strings.ToLower(strings.TrimSpace(*in.Species)))
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Age != nil {
		p.Age = in.Age
	}
	if in.Sex != nil {
		p.Sex = Sex(strings.ToLower(strings.TrimSpace(*in.Sex)))
	}
	if in.Size != nil {
		p.Size = strings.TrimSpace(*in.Size)
	}
	if in.Color != nil {
		p.Color = strings.TrimSpace(*in.Color)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		st, ok := ParseStatus(*in.Status)
		if !ok {
			return Pet{}, ErrInvalidInput
		}
		p.Status = st
	}
	if in.Latitude != nil {
		p.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		p.Longitude = in.Longitude
	}
	if err := validate(p); err != nil {
		return Pet{}, err
	}

	oldPhoto := p.Photo
	newPhoto, err := s.savePhoto(ctx, photo)
	if err != nil {
		return Pet{}, err
	}
	if newPhoto != "" {
		p.Photo = newPhoto
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		s.release(ctx, newPhoto)
		return Pet{}, err
	}
	if newPhoto != "" {
		s.release(ctx, oldPhoto)
	}
	return p, nil
}

// Delete borra la fila (en cascada solicitudes y mensajes) y después la foto.
func (s *Service) Delete(ctx context.Context, petID, callerID int64) error {
	p, err := s.owned(ctx, petID, callerID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, p.ID, callerID); err != nil {
		return err
	}
	s.release(ctx, p.Photo)
	return nil
}

func (s *Service) Get(ctx context.Context, petID int64) (Listing, error) {
	if petID <= 0 {
		return Listing{}, ErrNotFound
	}
	return s.repo.GetListing(ctx, petID)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Listing, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, ErrInvalidInput
	}
	f.Species = Species(strings.ToLower(strings.TrimSpace(string(f.Species))))
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	return s.repo.List(ctx, f)
}

func (s *Service) ListByHolder(ctx context.Context, holderID int64) ([]Pet, error) {
	return s.repo.ListByHolder(ctx, holderID)
}

// HolderPhotos y ReleasePhotos permiten limpiar fotos al borrar una cuenta.
func (s *Service) HolderPhotos(ctx context.Context, holderID int64) ([]string, error) {
	return s.repo.PhotosByHolder(ctx, holderID)
}

func (s *Service) ReleasePhotos(ctx context.Context, names []string) {
	for _, n := range names {
		s.release(ctx, n)
	}
}

func (s *Service) owned(ctx context.Context, petID, callerID int64) (Pet, error) {
	if petID <= 0 || callerID <= 0 {
		return Pet{}, ErrNotFound
	}
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}
	if p.HolderID != callerID {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) savePhoto(ctx context.Context, photo io.Reader) (string, error) {
	if photo == nil || s.photos == nil {
		return "", nil
	}
	return s.photos.Save(ctx, photo)
}

// release no falla la operación: una foto huérfana solo se loguea.
func (s *Service) release(ctx context.Context, name string) {
	if name == "" || s.photos == nil {
		return
	}
	if err := s.photos.Remove(ctx, name); err != nil {
		s.log.Warn("photo release failed", map[string]any{"photo": name, "err": err})
	}
}

func validate(p Pet) error {
	if p.Species == "" || !p.Sex.Valid() || !p.Status.Valid() {
		return ErrInvalidInput
	}
	if p.Age != nil && *p.Age < 0 {
		return ErrInvalidInput
	}
	if p.Latitude != nil && (*p.Latitude < -90 || *p.Latitude > 90) {
		return ErrInvalidInput
	}
	if p.Longitude != nil && (*p.Longitude < -180 || *p.Longitude > 180) {
		return ErrInvalidInput
	}
	return nil
}
