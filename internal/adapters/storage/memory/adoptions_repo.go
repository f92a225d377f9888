package memory

import (
	"context"
	"time"

	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/domain/pets"
)

type adoptionRepo struct {
	s *Store
}

// WithinTx toma el lock de escritura durante toda la tx; las escrituras
// registran su inversa para poder deshacerlas.
func (r *adoptionRepo) WithinTx(ctx context.Context, fn func(tx adoptions.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tx := &adoptionTx{s: r.s}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func (r *adoptionRepo) ListByRequester(_ context.Context, requesterID int64) ([]adoptions.MineView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]adoptions.MineView, 0)
	for _, a := range r.s.adoptions {
		if a.RequesterID != requesterID {
			continue
		}
		p := r.s.pets[a.PetID]
		out = append(out, adoptions.MineView{
			Request:    a,
			PetName:    p.Name,
			PetPhoto:   p.Photo,
			HolderName: r.s.users[p.HolderID].Name,
		})
	}
	newestFirst(out,
		func(v adoptions.MineView) time.Time { return v.CreatedAt },
		func(v adoptions.MineView) int64 { return v.ID })
	return out, nil
}

func (r *adoptionRepo) ListByHolder(_ context.Context, holderID int64) ([]adoptions.ReceivedView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]adoptions.ReceivedView, 0)
	for _, a := range r.s.adoptions {
		p := r.s.pets[a.PetID]
		if p.HolderID != holderID {
			continue
		}
		u := r.s.users[a.RequesterID]
		out = append(out, adoptions.ReceivedView{
			Request:        a,
			PetName:        p.Name,
			PetPhoto:       p.Photo,
			RequesterName:  u.Name,
			RequesterEmail: u.Email,
		})
	}
	newestFirst(out,
		func(v adoptions.ReceivedView) time.Time { return v.CreatedAt },
		func(v adoptions.ReceivedView) int64 { return v.ID })
	return out, nil
}

// adoptionTx corre con s.mu tomado.
type adoptionTx struct {
	s    *Store
	undo []func()
}

func (tx *adoptionTx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

func (tx *adoptionTx) LockPet(_ context.Context, petID int64) (adoptions.PetState, error) {
	p, ok := tx.s.pets[petID]
	if !ok {
		return adoptions.PetState{}, adoptions.ErrNotFound
	}
	return adoptions.PetState{ID: p.ID, HolderID: p.HolderID, Status: p.Status}, nil
}

func (tx *adoptionTx) HasPending(_ context.Context, petID int64) (bool, error) {
	return tx.pendingLocked(petID), nil
}

func (tx *adoptionTx) Insert(_ context.Context, req adoptions.Request) (int64, error) {
	if _, ok := tx.s.pets[req.PetID]; !ok {
		return 0, adoptions.ErrNotFound
	}
	if _, ok := tx.s.users[req.RequesterID]; !ok {
		return 0, adoptions.ErrNotFound
	}
	if req.Status == adoptions.StatusPending && tx.pendingLocked(req.PetID) {
		return 0, adoptions.ErrConflict
	}

	prevSeq := tx.s.lastAdoption
	tx.s.lastAdoption++
	req.ID = tx.s.lastAdoption
	tx.s.adoptions[req.ID] = req

	tx.undo = append(tx.undo, func() {
		delete(tx.s.adoptions, req.ID)
		tx.s.lastAdoption = prevSeq
	})
	return req.ID, nil
}

func (tx *adoptionTx) LockRequest(_ context.Context, id int64) (adoptions.Request, int64, error) {
	a, ok := tx.s.adoptions[id]
	if !ok {
		return adoptions.Request{}, 0, adoptions.ErrNotFound
	}
	p, ok := tx.s.pets[a.PetID]
	if !ok {
		return adoptions.Request{}, 0, adoptions.ErrNotFound
	}
	return a, p.HolderID, nil
}

func (tx *adoptionTx) SetStatus(_ context.Context, id int64, from, to adoptions.Status, at time.Time) error {
	a, ok := tx.s.adoptions[id]
	if !ok || a.Status != from {
		return adoptions.ErrInvalidState
	}
	prev := a

	a.Status = to
	a.DecidedAt = &at
	tx.s.adoptions[id] = a

	tx.undo = append(tx.undo, func() { tx.s.adoptions[id] = prev })
	return nil
}

func (tx *adoptionTx) SetPetStatus(_ context.Context, petID int64, st pets.Status) error {
	p, ok := tx.s.pets[petID]
	if !ok {
		return adoptions.ErrNotFound
	}
	prev := p

	p.Status = st
	tx.s.pets[petID] = p

	tx.undo = append(tx.undo, func() { tx.s.pets[petID] = prev })
	return nil
}

func (tx *adoptionTx) pendingLocked(petID int64) bool {
	for _, a := range tx.s.adoptions {
		if a.PetID == petID && a.Status == adoptions.StatusPending {
			return true
		}
	}
	return false
}
