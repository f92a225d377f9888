package users

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/auth"
)

// -------------------------
// Fakes
// -------------------------

type testRepo struct {
	byID      map[int64]User
	next      int64
	failWrite error
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[int64]User{}}
}

func (r *testRepo) Create(_ context.Context, u User) (int64, error) {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return 0, ErrEmailTaken
		}
	}
	r.next++
	u.ID = r.next
	r.byID[u.ID] = u
	return u.ID, nil
}

func (r *testRepo) GetByID(_ context.Context, id int64) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *testRepo) GetByEmail(_ context.Context, email string) (User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *testRepo) Update(_ context.Context, u User) error {
	if r.failWrite != nil {
		return r.failWrite
	}
	if _, ok := r.byID[u.ID]; !ok {
		return ErrNotFound
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type testIssuer struct{}

func (testIssuer) Issue(_ context.Context, c auth.Claims) (string, error) {
	return "token-" + c.Email, nil
}

type testPhotos struct {
	saved     []string
	removed   []string
	removeErr error
}

func (p *testPhotos) Save(_ context.Context, r io.Reader) (string, error) {
	b, _ := io.ReadAll(r)
	name := "photo-" + string(b)
	p.saved = append(p.saved, name)
	return name, nil
}

func (p *testPhotos) Remove(_ context.Context, name string) error {
	if p.removeErr != nil {
		return p.removeErr
	}
	p.removed = append(p.removed, name)
	return nil
}

type testCleaner struct {
	photos   []string
	released []string
}

func (c *testCleaner) HolderPhotos(context.Context, int64) ([]string, error) {
	return c.photos, nil
}

func (c *testCleaner) ReleasePhotos(_ context.Context, names []string) {
	c.released = append(c.released, names...)
}

func newTestService() (*Service, *testRepo, *testPhotos) {
	repo := newTestRepo()
	ph := &testPhotos{}
	svc := NewService(repo, testIssuer{}, ph)
	svc.cost = bcrypt.MinCost
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo, ph
}

func strPtr(s string) *string { return &s }

// -------------------------
// Tests
// -------------------------

func TestService_RegisterAndLogin(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	u, tok, err := svc.Register(ctx, RegisterInput{
		Name: " Ana ", Email: " Ana@Example.com ", Password: "secret1", City: "Lima",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, "token-ana@example.com", tok)
	assert.NotEqual(t, "secret1", repo.byID[1].PasswordHash)

	got, tok, err := svc.Login(ctx, "ANA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotEmpty(t, tok)

	_, _, err = svc.Login(ctx, "ana@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_RegisterValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cases := []RegisterInput{
		{Name: "", Email: "a@b.co", Password: "secret1"},
		{Name: "A", Email: "not-an-email", Password: "secret1"},
		{Name: "A", Email: "a@b.co", Password: "123"},
	}
	for _, in := range cases {
		_, _, err := svc.Register(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidInput, "%+v", in)
	}

	_, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.co", Password: "secret1"})
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "A@B.co", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_UpdateProfile_PasswordAndPhoto(t *testing.T) {
	svc, _, ph := newTestService()
	ctx := context.Background()

	u, _, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	u, err = svc.UpdateProfile(ctx, u.ID, UpdateInput{City: strPtr("Quito")}, strings.NewReader("one"))
	require.NoError(t, err)
	assert.Equal(t, "Quito", u.City)
	assert.Equal(t, "photo-one", u.ProfilePhoto)

	u, err = svc.UpdateProfile(ctx, u.ID, UpdateInput{Password: strPtr("another1")}, strings.NewReader("two"))
	require.NoError(t, err)
	assert.Equal(t, "photo-two", u.ProfilePhoto)
	assert.Equal(t, []string{"photo-one"}, ph.removed, "old photo released after update")

	_, _, err = svc.Login(ctx, "ana@example.com", "another1")
	assert.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, u.ID, UpdateInput{Name: strPtr("  ")}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateProfile(ctx, 99, UpdateInput{}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_UpdateProfile_FailedWriteReleasesNewPhoto(t *testing.T) {
	svc, repo, ph := newTestService()
	ctx := context.Background()

	u, _, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	repo.failWrite = errors.New("db down")
	_, err = svc.UpdateProfile(ctx, u.ID, UpdateInput{}, strings.NewReader("x"))
	require.Error(t, err)
	assert.Equal(t, []string{"photo-x"}, ph.removed)
}

func TestService_Delete_ReleasesPhotosAfterDelete(t *testing.T) {
	svc, repo, _ := newTestService()
	cleaner := &testCleaner{photos: []string{"pet-a.png", "pet-b.png"}}
	svc.WithPhotoCleaner(cleaner)
	ctx := context.Background()

	u, _, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, u.ID))
	assert.Empty(t, repo.byID)
	assert.Equal(t, []string{"pet-a.png", "pet-b.png"}, cleaner.released)

	assert.ErrorIs(t, svc.Delete(ctx, u.ID), ErrNotFound)
}

func TestService_Delete_LogsFailedProfilePhotoRemoval(t *testing.T) {
	svc, repo, ph := newTestService()
	var buf bytes.Buffer
	svc.WithLogger(logger.New(logger.Options{Level: logger.ParseLevel("warn"), Format: logger.FormatJSON, Output: &buf}))
	ctx := context.Background()

	u, _, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.UpdateProfile(ctx, u.ID, UpdateInput{}, strings.NewReader("a"))
	require.NoError(t, err)

	ph.removeErr = errors.New("disk gone")
	require.NoError(t, svc.Delete(ctx, u.ID))
	assert.Empty(t, repo.byID)

	out := buf.String()
	assert.Contains(t, out, "profile photo release failed")
	assert.Contains(t, out, "photo-a")
	assert.Contains(t, out, "disk gone")
}
