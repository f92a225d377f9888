package adoptions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption/internal/domain/pets"
)

// -------------------------
// Test repo (in-memory, con rollback por snapshot)
// -------------------------

type testRepo struct {
	pets     map[int64]PetState
	requests map[int64]Request
	next     int64

	txCalls    int
	failPetSet error
}

func newTestRepo() *testRepo {
	return &testRepo{pets: map[int64]PetState{}, requests: map[int64]Request{}}
}

func (r *testRepo) addPet(id, holder int64, st pets.Status) {
	r.pets[id] = PetState{ID: id, HolderID: holder, Status: st}
}

func (r *testRepo) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	r.txCalls++
	petsSnap := make(map[int64]PetState, len(r.pets))
	for k, v := range r.pets {
		petsSnap[k] = v
	}
	reqSnap := make(map[int64]Request, len(r.requests))
	for k, v := range r.requests {
		reqSnap[k] = v
	}
	if err := fn(r); err != nil {
		r.pets, r.requests = petsSnap, reqSnap
		return err
	}
	return nil
}

func (r *testRepo) LockPet(_ context.Context, petID int64) (PetState, error) {
	p, ok := r.pets[petID]
	if !ok {
		return PetState{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) HasPending(_ context.Context, petID int64) (bool, error) {
	for _, q := range r.requests {
		if q.PetID == petID && q.Status == StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *testRepo) Insert(_ context.Context, q Request) (int64, error) {
	r.next++
	q.ID = r.next
	r.requests[q.ID] = q
	return q.ID, nil
}

func (r *testRepo) LockRequest(_ context.Context, id int64) (Request, int64, error) {
	q, ok := r.requests[id]
	if !ok {
		return Request{}, 0, ErrNotFound
	}
	return q, r.pets[q.PetID].HolderID, nil
}

func (r *testRepo) SetStatus(_ context.Context, id int64, from, to Status, at time.Time) error {
	q, ok := r.requests[id]
	if !ok || q.Status != from {
		return ErrInvalidState
	}
	q.Status = to
	q.DecidedAt = &at
	r.requests[id] = q
	return nil
}

func (r *testRepo) SetPetStatus(_ context.Context, petID int64, st pets.Status) error {
	if r.failPetSet != nil {
		return r.failPetSet
	}
	p := r.pets[petID]
	p.Status = st
	r.pets[petID] = p
	return nil
}

func (r *testRepo) ListByRequester(context.Context, int64) ([]MineView, error) {
	return []MineView{}, nil
}

func (r *testRepo) ListByHolder(context.Context, int64) ([]ReceivedView, error) {
	return []ReceivedView{}, nil
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, repo
}

const (
	holder    int64 = 1
	requester int64 = 2
	other     int64 = 3
	petID     int64 = 10
)

// -------------------------
// Request
// -------------------------

func TestService_Request_CreatesPending(t *testing.T) {
	svc, repo := newTestService()
	repo.addPet(petID, holder, pets.StatusAvailable)

	req, err := svc.Request(context.Background(), requester, petID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), req.ID)
	assert.Equal(t, StatusPending, req.Status)
	assert.Equal(t, requester, req.RequesterID)
	assert.Equal(t, pets.StatusAvailable, repo.pets[petID].Status, "pet status unchanged")
}

func TestService_Request_Preconditions(t *testing.T) {
	cases := []struct {
		name   string
		status pets.Status
		caller int64
		petID  int64
		want   error
	}{
		{"missing pet", pets.StatusAvailable, requester, 99, ErrNotFound},
		{"adopted pet", pets.StatusAdopted, requester, petID, ErrInvalidState},
		{"lost pet", pets.StatusLost, requester, petID, ErrInvalidState},
		{"own pet", pets.StatusAvailable, holder, petID, ErrInvalidOperation},
		// el estado se chequea antes que la pertenencia
		{"own adopted pet", pets.StatusAdopted, holder, petID, ErrInvalidState},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo := newTestService()
			repo.addPet(petID, holder, tc.status)

			_, err := svc.Request(context.Background(), tc.caller, tc.petID)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, repo.requests, "nothing inserted")
		})
	}
}

func TestService_Request_ConflictUntilDeclined(t *testing.T) {
	svc, repo := newTestService()
	repo.addPet(petID, holder, pets.StatusAvailable)
	ctx := context.Background()

	first, err := svc.Request(ctx, requester, petID)
	require.NoError(t, err)

	_, err = svc.Request(ctx, other, petID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, repo.requests, 1)

	_, err = svc.Decide(ctx, holder, first.ID, StatusDeclined)
	require.NoError(t, err)

	_, err = svc.Request(ctx, other, petID)
	assert.NoError(t, err)
}

// -------------------------
// Decide
// -------------------------

func TestService_Decide_AcceptAdoptsPet(t *testing.T) {
	svc, repo := newTestService()
	repo.addPet(petID, holder, pets.StatusAvailable)
	ctx := context.Background()

	req, err := svc.Request(ctx, requester, petID)
	require.NoError(t, err)

	got, err := svc.Decide(ctx, holder, req.ID, StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, got.Status)
	require.NotNil(t, got.DecidedAt)
	assert.Equal(t, pets.StatusAdopted, repo.pets[petID].Status)

	// un tercero ya no puede solicitarla
	_, err = svc.Request(ctx, other, petID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestService_Decide_DeclineKeepsPetAvailable(t *testing.T) {
	svc, repo := newTestService()
	repo.addPet(petID, holder, pets.StatusAvailable)
	ctx := context.Background()

	req, err := svc.Request(ctx, requester, petID)
	require.NoError(t, err)

	_, err = svc.Decide(ctx, holder, req.ID, StatusDeclined)
	require.NoError(t, err)
	assert.Equal(t, pets.StatusAvailable, repo.pets[petID].Status)
	assert.Equal(t, StatusDeclined, repo.requests[req.ID].Status)
}

func TestService_Decide_ForbiddenForNonHolderWhateverStatus(t *testing.T) {
	svc, repo := newTestService()
	repo.addPet(petID, holder, pets.StatusAvailable)
	ctx := context.Background()

	req, err := svc.Request(ctx, requester, petID)
	require.NoError(t, err)

	_, err = svc.Decide(ctx, other, req.ID, StatusAccepted)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Decide(ctx, requester, req.ID, StatusAccepted)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Decide(ctx, holder, req.ID, StatusDeclined)
	require.NoError(t, err)
	_, err = svc.Decide(ctx, other, req.ID, StatusAccepted)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Decide_TerminalStatesAreFinal(t *testing.T) {
	svc, repo := newTestService()
	repo.addPet(petID, holder, pets.StatusAvailable)
	ctx := context.Background()

	req, err := svc.Request(ctx, requester, petID)
	require.NoError(t, err)
	_, err = svc.Decide(ctx, holder, req.ID, StatusDeclined)
	require.NoError(t, err)

	_, err = svc.Decide(ctx, holder, req.ID, StatusAccepted)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, StatusDeclined, repo.requests[req.ID].Status)
	assert.Equal(t, pets.StatusAvailable, repo.pets[petID].Status)
}

func TestService_Decide_InvalidDecisionSkipsStorage(t *testing.T) {
	svc, repo := newTestService()

	for _, d := range []Status{"Maybe", StatusPending, ""} {
		_, err := svc.Decide(context.Background(), holder, 1, d)
		assert.ErrorIs(t, err, ErrInvalidOperation)
	}
	assert.Zero(t, repo.txCalls)
}

func TestService_Decide_NotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Decide(context.Background(), holder, 42, StatusAccepted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Decide_RollsBackWhenPetUpdateFails(t *testing.T) {
	svc, repo := newTestService()
	repo.addPet(petID, holder, pets.StatusAvailable)
	ctx := context.Background()

	req, err := svc.Request(ctx, requester, petID)
	require.NoError(t, err)

	repo.failPetSet = errors.New("db down")
	_, err = svc.Decide(ctx, holder, req.ID, StatusAccepted)
	require.Error(t, err)
	assert.Equal(t, StatusPending, repo.requests[req.ID].Status, "decision rolled back")
	assert.Equal(t, pets.StatusAvailable, repo.pets[petID].Status)
}

func TestParseDecision(t *testing.T) {
	d, ok := ParseDecision(" accepted ")
	assert.True(t, ok)
	assert.Equal(t, StatusAccepted, d)

	for _, raw := range []string{"Maybe", "Pending", ""} {
		_, ok := ParseDecision(raw)
		assert.False(t, ok, raw)
	}
}
