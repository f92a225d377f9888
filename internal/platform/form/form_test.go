package form

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption/internal/ports/photos"
)

func multipartRequest(t *testing.T, fields map[string]string, photo []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if photo != nil {
		fw, err := mw.CreateFormFile(PhotoField, "p.png")
		require.NoError(t, err)
		_, err = fw.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestParseMultipart_FieldsAndPhoto(t *testing.T) {
	req := multipartRequest(t, map[string]string{"name": "Rex", "age": "3"}, []byte("img"))
	require.True(t, IsMultipart(req))

	m, err := ParseMultipart(httptest.NewRecorder(), req, 1024)
	require.NoError(t, err)
	defer m.Close()

	require.NotNil(t, m.Photo)
	assert.Equal(t, "Rex", *String(m.Values, "name"))
	assert.Nil(t, String(m.Values, "breed"))

	age, err := Int(m.Values, "age")
	require.NoError(t, err)
	assert.Equal(t, 3, *age)
}

func TestParseMultipart_NoPhoto(t *testing.T) {
	req := multipartRequest(t, map[string]string{"name": "Rex"}, nil)
	m, err := ParseMultipart(httptest.NewRecorder(), req, 1024)
	require.NoError(t, err)
	defer m.Close()
	assert.Nil(t, m.Photo)
}

func TestParseMultipart_TooLarge(t *testing.T) {
	req := multipartRequest(t, nil, bytes.Repeat([]byte{1}, 2*fieldsOverhead))
	_, err := ParseMultipart(httptest.NewRecorder(), req, 16)
	assert.ErrorIs(t, err, photos.ErrTooLarge)
}

func TestNumbers(t *testing.T) {
	v := url.Values{"lat": {"-34.6"}, "age": {"x"}, "empty": {""}}

	lat, err := Float(v, "lat")
	require.NoError(t, err)
	assert.InDelta(t, -34.6, *lat, 1e-9)

	_, err = Int(v, "age")
	assert.ErrorIs(t, err, ErrBadForm)

	n, err := Int(v, "empty")
	require.NoError(t, err)
	assert.Nil(t, n)
}
