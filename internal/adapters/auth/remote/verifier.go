// Package remote delega la verificación de tokens a un servicio de identidad externo.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-adoption/internal/platform/httpclient"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/auth"
)

const verifyPath = "/v1/tokens/verify"

var (
	ErrNotConfigured = errors.New("remote verifier not configured")
	ErrUnauthorized  = errors.New("remote verifier: unauthorized")
	ErrUpstream      = errors.New("remote verifier: upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

	// Si está vacío se usa "X-Api-Key".
	APIKeyHeader string
	Timeout      time.Duration

	// Opcional; registra los reintentos contra el IdP.
	Logger logger.Logger
}

// Verifier implementa auth.AuthVerifier contra el IdP.
type Verifier struct {
	client       *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewVerifier(cfg Config) (*Verifier, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	opts := []httpclient.Option{httpclient.WithRetries(1, 200*time.Millisecond)}
	if cfg.Logger != nil {
		opts = append(opts, httpclient.WithLogger(cfg.Logger))
	}
	c, err := httpclient.New(cfg.BaseURL, cfg.Timeout, opts...)
	if err != nil {
		return nil, err
	}
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	return &Verifier{
		client:       c,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

type verifyResponse struct {
	// El IdP puede devolver el id como número o string.
	UserID any    `json:"user_id"`
	Email  string `json:"email"`
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	if v.apiKey != "" {
		h.Set(v.apiKeyHeader, v.apiKey)
	}

	var out verifyResponse
	err := v.client.JSON(ctx, httpclient.Call{
		Method: http.MethodPost,
		Path:   verifyPath,
		Header: h,
		Body:   map[string]string{"token": token},
	}, &out)
	if err != nil {
		switch httpclient.StatusCode(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return auth.Claims{}, ErrUnauthorized
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	uid, err := parseUserID(out.UserID)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return auth.Claims{UserID: uid, Email: strings.TrimSpace(out.Email)}, nil
}

func parseUserID(v any) (int64, error) {
	var id int64
	switch t := v.(type) {
	case float64:
		id = int64(t)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid user_id %q", t)
		}
		id = n
	default:
		return 0, errors.New("response missing user_id")
	}
	if id <= 0 {
		return 0, errors.New("response missing user_id")
	}
	return id, nil
}
