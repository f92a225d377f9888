package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption/internal/adapters/auth/jwt"
	"pet-adoption/internal/adapters/storage/photos"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/router"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := photos.NewDiskStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	tokens := jwt.NewManager(jwt.Config{Secret: "test-secret", Issuer: "pet-adoption", TTL: time.Hour})
	h, err := router.NewRouter(router.Options{
		Logger:       logger.New(logger.Options{Level: logger.ParseLevel("error"), Output: io.Discard}),
		AuthVerifier: tokens,
		TokenIssuer:  tokens,
		Photos:       store,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func doReq(t *testing.T, baseURL, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, raw
}

func register(t *testing.T, baseURL, name, email string) string {
	t.Helper()

	st, body := doReq(t, baseURL, http.MethodPost, "/users/register", "", map[string]any{
		"name": name, "email": email, "password": "secret123", "city": "Lima", "state": "LIM",
	})
	require.Equal(t, http.StatusCreated, st, string(body))

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func createPet(t *testing.T, baseURL, token string) string {
	t.Helper()

	st, body := doReq(t, baseURL, http.MethodPost, "/pets", token, map[string]any{
		"name": "Milo", "species": "dog", "sex": "male", "status": "Available",
	})
	require.Equal(t, http.StatusCreated, st, string(body))

	var out struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Available", out.Status)
	return strconv.FormatInt(out.ID, 10)
}

func requestAdoption(t *testing.T, baseURL, token, petID string) (int, string) {
	t.Helper()

	st, body := doReq(t, baseURL, http.MethodPost, "/adoptions/"+petID, token, nil)
	var out struct {
		IDAdoption int64 `json:"id_adoption"`
	}
	_ = json.Unmarshal(body, &out)
	return st, strconv.FormatInt(out.IDAdoption, 10)
}

func TestHTTP_EndToEnd_Adoption(t *testing.T) {
	ts := newServer(t)

	holder := register(t, ts.URL, "Ana", "ana@example.com")
	adopter := register(t, ts.URL, "Luis", "luis@example.com")
	latecomer := register(t, ts.URL, "Eva", "eva@example.com")

	petID := createPet(t, ts.URL, holder)

	// El holder no puede pedir su propia mascota
	{
		st, _ := requestAdoption(t, ts.URL, holder, petID)
		assert.Equal(t, http.StatusBadRequest, st)
	}

	st, reqID := requestAdoption(t, ts.URL, adopter, petID)
	require.Equal(t, http.StatusCreated, st)

	// Solo una Pending por mascota
	{
		st, _ := requestAdoption(t, ts.URL, latecomer, petID)
		assert.Equal(t, http.StatusConflict, st)
	}

	// Decisión inválida no toca nada
	{
		st, _ := doReq(t, ts.URL, http.MethodPut, "/adoptions/"+reqID+"/status", holder, map[string]string{"status": "Maybe"})
		assert.Equal(t, http.StatusBadRequest, st)
	}

	// Solo el holder decide
	{
		st, _ := doReq(t, ts.URL, http.MethodPut, "/adoptions/"+reqID+"/status", adopter, map[string]string{"status": "Accepted"})
		assert.Equal(t, http.StatusForbidden, st)
	}

	{
		st, body := doReq(t, ts.URL, http.MethodGet, "/adoptions/received", holder, nil)
		require.Equal(t, http.StatusOK, st)
		var got []map[string]any
		require.NoError(t, json.Unmarshal(body, &got))
		require.Len(t, got, 1)
		assert.Equal(t, "Luis", got[0]["requester_name"])
	}

	{
		st, body := doReq(t, ts.URL, http.MethodPut, "/adoptions/"+reqID+"/status", holder, map[string]string{"status": "Accepted"})
		require.Equal(t, http.StatusOK, st, string(body))
	}

	// La mascota queda adoptada
	{
		st, body := doReq(t, ts.URL, http.MethodGet, "/pets/"+petID, "", nil)
		require.Equal(t, http.StatusOK, st)
		var pet map[string]any
		require.NoError(t, json.Unmarshal(body, &pet))
		assert.Equal(t, "Adopted", pet["status"])
		assert.Equal(t, "Ana", pet["holder_name"])
	}

	// Un tercero ya no puede solicitarla
	{
		st, _ := requestAdoption(t, ts.URL, latecomer, petID)
		assert.Equal(t, http.StatusBadRequest, st)
	}

	// Ya decidida
	{
		st, _ := doReq(t, ts.URL, http.MethodPut, "/adoptions/"+reqID+"/status", holder, map[string]string{"status": "Declined"})
		assert.Equal(t, http.StatusBadRequest, st)
	}

	{
		st, body := doReq(t, ts.URL, http.MethodGet, "/adoptions/mine", adopter, nil)
		require.Equal(t, http.StatusOK, st)
		var got []map[string]any
		require.NoError(t, json.Unmarshal(body, &got))
		require.Len(t, got, 1)
		assert.Equal(t, "Accepted", got[0]["status"])
		assert.Equal(t, "Milo", got[0]["pet_name"])
	}
}

func TestHTTP_AuthRequired(t *testing.T) {
	ts := newServer(t)

	st, _ := doReq(t, ts.URL, http.MethodGet, "/adoptions/mine", "", nil)
	assert.Equal(t, http.StatusUnauthorized, st)

	st, _ = doReq(t, ts.URL, http.MethodPost, "/adoptions/1", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, st)

	// El catálogo es público
	st, body := doReq(t, ts.URL, http.MethodGet, "/pets", "", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.JSONEq(t, `[]`, string(body))
}

func TestHTTP_UnknownPetIs404(t *testing.T) {
	ts := newServer(t)
	tok := register(t, ts.URL, "Ana", "ana@example.com")

	st, _ := requestAdoption(t, ts.URL, tok, "999")
	assert.Equal(t, http.StatusNotFound, st)

	st, _ = doReq(t, ts.URL, http.MethodPut, "/adoptions/999/status", tok, map[string]string{"status": "Declined"})
	assert.Equal(t, http.StatusNotFound, st)
}

func TestHTTP_Messaging(t *testing.T) {
	ts := newServer(t)
	ana := register(t, ts.URL, "Ana", "ana@example.com")
	luis := register(t, ts.URL, "Luis", "luis@example.com")

	st, body := doReq(t, ts.URL, http.MethodGet, "/users/me", luis, nil)
	require.Equal(t, http.StatusOK, st)
	var me struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &me))

	st, body = doReq(t, ts.URL, http.MethodPost, "/messages", ana, map[string]any{"recipient_id": me.ID, "content": "hola"})
	require.Equal(t, http.StatusCreated, st, string(body))

	st, body = doReq(t, ts.URL, http.MethodGet, "/messages/conversations", luis, nil)
	require.Equal(t, http.StatusOK, st)
	var partners []map[string]any
	require.NoError(t, json.Unmarshal(body, &partners))
	require.Len(t, partners, 1)
	assert.Equal(t, "Ana", partners[0]["name"])
}

func TestNewRouter_RequiresPhotoStore(t *testing.T) {
	_, err := router.NewRouter(router.Options{
		Logger: logger.New(logger.Options{Output: io.Discard}),
	})
	assert.Error(t, err)
}

func TestHTTP_HealthAndMetrics(t *testing.T) {
	ts := newServer(t)

	st, body := doReq(t, ts.URL, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Equal(t, "ok", string(body))

	st, _ = doReq(t, ts.URL, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, st)
}
