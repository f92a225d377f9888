package users

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/auth"
	"pet-adoption/internal/ports/photos"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const minPasswordLen = 6

// PhotoCleaner libera las fotos de las mascotas de un usuario borrado.
type PhotoCleaner interface {
	HolderPhotos(ctx context.Context, holderID int64) ([]string, error)
	ReleasePhotos(ctx context.Context, names []string)
}

type Service struct {
	repo    Repository
	issuer  auth.TokenIssuer
	photos  photos.Store
	cleaner PhotoCleaner
	log     logger.Logger
	now     func() time.Time
	cost    int
}

func NewService(repo Repository, issuer auth.TokenIssuer, store photos.Store) *Service {
	return &Service{
		repo:   repo,
		issuer: issuer,
		photos: store,
		log:    logger.Nop(),
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
	}
}

// WithPhotoCleaner conecta la limpieza de fotos de mascotas al borrar cuentas.
func (s *Service) WithPhotoCleaner(c PhotoCleaner) *Service {
	s.cleaner = c
	return s
}

func (s *Service) WithLogger(l logger.Logger) *Service {
	if l != nil {
		s.log = l
	}
	return s
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	City     string
	State    string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, string, error) {
	name := strings.TrimSpace(in.Name)
	email, ok := normalizeEmail(in.Email)
	if name == "" || !ok || len(in.Password) < minPasswordLen {
		return User{}, "", ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return User{}, "", fmt.Errorf("hash password: %w", err)
	}

	u := User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(in.Phone),
		City:         strings.TrimSpace(in.City),
		State:        strings.TrimSpace(in.State),
		CreatedAt:    s.now(),
	}

	id, err := s.repo.Create(ctx, u)
	if err != nil {
		return User{}, "", err
	}
	u.ID = id

	tok, err := s.token(ctx, u)
	if err != nil {
		return User{}, "", err
	}
	return u, tok, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	email, ok := normalizeEmail(email)
	if !ok || password == "" {
		return User{}, "", ErrInvalidInput
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return User{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, "", ErrInvalidCredentials
	}

	tok, err := s.token(ctx, u)
	if err != nil {
		return User{}, "", err
	}
	return u, tok, nil
}

func (s *Service) Profile(ctx context.Context, id int64) (User, error) {
	if id <= 0 {
		return User{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

type UpdateInput struct {
	// nil = no tocar
	Name     *string
	Email    *string
	Password *string
	Phone    *string
	City     *string
	State    *string
}

// UpdateProfile aplica el patch y, si viene photo, reemplaza la foto de perfil.
// La foto anterior se libera solo después de que la fila referencia la nueva.
func (s *Service) UpdateProfile(ctx context.Context, id int64, in UpdateInput, photo io.Reader) (User, error) {
	u, err := s.Profile(ctx, id)
	if err != nil {
		return User{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return User{}, ErrInvalidInput
		}
		u.Name = name
	}
	if in.Email != nil {
		email, ok := normalizeEmail(*in.Email)
		if !ok {
			return User{}, ErrInvalidInput
		}
		u.Email = email
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLen {
			return User{}, ErrInvalidInput
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.cost)
		if err != nil {
			return User{}, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.City != nil {
		u.City = strings.TrimSpace(*in.City)
	}
	if in.State != nil {
		u.State = strings.TrimSpace(*in.State)
	}

	oldPhoto := u.ProfilePhoto
	newPhoto := ""
	if photo != nil && s.photos != nil {
		newPhoto, err = s.photos.Save(ctx, photo)
		if err != nil {
			return User{}, err
		}
		u.ProfilePhoto = newPhoto
	}

	if err := s.repo.Update(ctx, u); err != nil {
		if newPhoto != "" {
			s.release(ctx, newPhoto)
		}
		return User{}, err
	}
	if newPhoto != "" && oldPhoto != "" {
		s.release(ctx, oldPhoto)
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	u, err := s.Profile(ctx, id)
	if err != nil {
		return err
	}

	var petPhotos []string
	if s.cleaner != nil {
		petPhotos, err = s.cleaner.HolderPhotos(ctx, id)
		if err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.cleaner != nil {
		s.cleaner.ReleasePhotos(ctx, petPhotos)
	}
	s.release(ctx, u.ProfilePhoto)
	return nil
}

// release solo deja rastro en el log: la operación ya se completó.
func (s *Service) release(ctx context.Context, name string) {
	if name == "" || s.photos == nil {
		return
	}
	if err := s.photos.Remove(ctx, name); err != nil {
		s.log.Warn("profile photo release failed", map[string]any{"photo": name, "err": err})
	}
}

func (s *Service) token(ctx context.Context, u User) (string, error) {
	if s.issuer == nil {
		return "", nil
	}
	tok, err := s.issuer.Issue(ctx, auth.Claims{UserID: u.ID, Email: u.Email})
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return tok, nil
}

func normalizeEmail(raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", false
	}
	return email, true
}
