// Package jwt emite y verifica tokens de acceso HS256.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"pet-adoption/internal/ports/auth"
)

const DefaultTTL = 24 * time.Hour

var (
	ErrNotConfigured = errors.New("jwt manager not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type tokenClaims struct {
	UserID int64  `json:"uid"`
	Email  string `json:"email,omitempty"`
	gojwt.RegisteredClaims
}

// Manager implementa auth.AuthVerifier y auth.TokenIssuer.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(cfg Config) *Manager {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		secret: []byte(cfg.Secret),
		issuer: strings.TrimSpace(cfg.Issuer),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *Manager) Issue(_ context.Context, c auth.Claims) (string, error) {
	if m == nil || len(m.secret) == 0 {
		return "", ErrNotConfigured
	}
	if c.UserID <= 0 {
		return "", errors.New("jwt: user id required")
	}

	now := m.now()
	claims := tokenClaims{
		UserID: c.UserID,
		Email:  c.Email,
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   strconv.FormatInt(c.UserID, 10),
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	tok := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	s, err := tok.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign: %w", err)
	}
	return s, nil
}

func (m *Manager) Verify(_ context.Context, token string) (auth.Claims, error) {
	if m == nil || len(m.secret) == 0 {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithTimeFunc(m.now),
		gojwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(m.issuer))
	}

	var claims tokenClaims
	parsed, err := gojwt.ParseWithClaims(token, &claims, func(t *gojwt.Token) (any, error) {
		if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.UserID <= 0 {
		return auth.Claims{}, ErrInvalidToken
	}

	return auth.Claims{UserID: claims.UserID, Email: claims.Email}, nil
}
