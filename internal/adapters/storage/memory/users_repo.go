package memory

import (
	"context"

	"pet-adoption/internal/domain/users"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(_ context.Context, u users.User) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTakenLocked(u.Email, 0) {
		return 0, users.ErrEmailTaken
	}
	r.s.lastUser++
	u.ID = r.s.lastUser
	r.s.users[u.ID] = u
	return u.ID, nil
}

func (r *userRepo) GetByID(_ context.Context, id int64) (users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}

func (r *userRepo) Update(_ context.Context, u users.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[u.ID]; !ok {
		return users.ErrNotFound
	}
	if r.emailTakenLocked(u.Email, u.ID) {
		return users.ErrEmailTaken
	}
	r.s.users[u.ID] = u
	return nil
}

func (r *userRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return users.ErrNotFound
	}
	r.s.deleteUserLocked(id)
	return nil
}

func (r *userRepo) emailTakenLocked(email string, except int64) bool {
	for id, u := range r.s.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}
