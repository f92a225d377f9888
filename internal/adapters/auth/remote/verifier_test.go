package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdP(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != verifyPath || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("X-Api-Key") != "k" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["token"] != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func TestVerifier_OK(t *testing.T) {
	idp := newIdP(t, http.StatusOK, map[string]any{"user_id": 12, "email": " a@b.c "})
	defer idp.Close()

	v, err := NewVerifier(Config{BaseURL: idp.URL, APIKey: "k"})
	require.NoError(t, err)

	claims, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, int64(12), claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
}

func TestVerifier_StringUserID(t *testing.T) {
	idp := newIdP(t, http.StatusOK, map[string]any{"user_id": "34"})
	defer idp.Close()

	v, err := NewVerifier(Config{BaseURL: idp.URL, APIKey: "k"})
	require.NoError(t, err)

	claims, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, int64(34), claims.UserID)
}

func TestVerifier_Unauthorized(t *testing.T) {
	idp := newIdP(t, http.StatusOK, map[string]any{"user_id": 1})
	defer idp.Close()

	v, err := NewVerifier(Config{BaseURL: idp.URL, APIKey: "k"})
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = v.Verify(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifier_UpstreamErrors(t *testing.T) {
	idp := newIdP(t, http.StatusBadGateway, map[string]any{})
	defer idp.Close()

	v, err := NewVerifier(Config{BaseURL: idp.URL, APIKey: "k"})
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), "good")
	assert.ErrorIs(t, err, ErrUpstream)

	missing := newIdP(t, http.StatusOK, map[string]any{"email": "x"})
	defer missing.Close()
	v, err = NewVerifier(Config{BaseURL: missing.URL, APIKey: "k"})
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), "good")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestNewVerifier_RequiresBaseURL(t *testing.T) {
	_, err := NewVerifier(Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
