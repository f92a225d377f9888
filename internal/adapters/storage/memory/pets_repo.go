package memory

import (
	"context"
	"strings"
	"time"

	"pet-adoption/internal/domain/pets"
)

type petRepo struct {
	s *Store
}

func (r *petRepo) Create(_ context.Context, p pets.Pet) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[p.HolderID]; !ok {
		return 0, pets.ErrNotFound
	}
	r.s.lastPet++
	p.ID = r.s.lastPet
	r.s.pets[p.ID] = p
	return p.ID, nil
}

func (r *petRepo) GetByID(_ context.Context, id int64) (pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pets[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *petRepo) GetListing(_ context.Context, id int64) (pets.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pets[id]
	if !ok {
		return pets.Listing{}, pets.ErrNotFound
	}
	return r.listingLocked(p), nil
}

func (r *petRepo) List(_ context.Context, f pets.ListFilter) ([]pets.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]pets.Listing, 0)
	for _, p := range r.s.pets {
		l := r.listingLocked(p)
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Species != "" && !strings.EqualFold(string(p.Species), string(f.Species)) {
			continue
		}
		if f.City != "" && !strings.EqualFold(l.HolderCity, f.City) {
			continue
		}
		if f.State != "" && !strings.EqualFold(l.HolderState, f.State) {
			continue
		}
		out = append(out, l)
	}
	newestFirst(out,
		func(l pets.Listing) time.Time { return l.CreatedAt },
		func(l pets.Listing) int64 { return l.ID })
	return out, nil
}

func (r *petRepo) ListByHolder(_ context.Context, holderID int64) ([]pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.s.pets {
		if p.HolderID == holderID {
			out = append(out, p)
		}
	}
	newestFirst(out,
		func(p pets.Pet) time.Time { return p.CreatedAt },
		func(p pets.Pet) int64 { return p.ID })
	return out, nil
}

func (r *petRepo) Update(_ context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.pets[p.ID]
	if !ok || cur.HolderID != p.HolderID {
		return pets.ErrNotFound
	}
	p.CreatedAt = cur.CreatedAt
	r.s.pets[p.ID] = p
	return nil
}

func (r *petRepo) Delete(_ context.Context, id, holderID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.pets[id]
	if !ok || cur.HolderID != holderID {
		return pets.ErrNotFound
	}
	r.s.deletePetLocked(id)
	return nil
}

func (r *petRepo) PhotosByHolder(_ context.Context, holderID int64) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]string, 0)
	for _, p := range r.s.pets {
		if p.HolderID == holderID && p.Photo != "" {
			out = append(out, p.Photo)
		}
	}
	return out, nil
}

func (r *petRepo) listingLocked(p pets.Pet) pets.Listing {
	u := r.s.users[p.HolderID]
	return pets.Listing{
		Pet:         p,
		HolderName:  u.Name,
		HolderEmail: u.Email,
		HolderPhone: u.Phone,
		HolderCity:  u.City,
		HolderState: u.State,
	}
}
