// Package memory es el almacenamiento en proceso usado en dev y tests.
// Reproduce las cascadas y la restricción de una sola solicitud Pending por mascota.
package memory

import (
	"sort"
	"sync"
	"time"

	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/domain/messages"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/domain/users"
)

// Store comparte un solo lock entre todos los repos: las cascadas y las
// transacciones de adopción tocan varias tablas a la vez.
type Store struct {
	mu sync.RWMutex

	users     map[int64]users.User
	pets      map[int64]pets.Pet
	adoptions map[int64]adoptions.Request
	messages  map[int64]messages.Message

	lastUser, lastPet, lastAdoption, lastMessage int64
}

func NewStore() *Store {
	return &Store{
		users:     make(map[int64]users.User),
		pets:      make(map[int64]pets.Pet),
		adoptions: make(map[int64]adoptions.Request),
		messages:  make(map[int64]messages.Message),
	}
}

func (s *Store) Users() users.Repository         { return &userRepo{s: s} }
func (s *Store) Pets() pets.Repository           { return &petRepo{s: s} }
func (s *Store) Adoptions() adoptions.Repository { return &adoptionRepo{s: s} }
func (s *Store) Messages() messages.Repository   { return &messageRepo{s: s} }

// deleteUserLocked borra al usuario y todo lo que cuelga de él.
func (s *Store) deleteUserLocked(id int64) {
	for pid, p := range s.pets {
		if p.HolderID == id {
			s.deletePetLocked(pid)
		}
	}
	for aid, a := range s.adoptions {
		if a.RequesterID == id {
			delete(s.adoptions, aid)
		}
	}
	for mid, m := range s.messages {
		if m.SenderID == id || m.RecipientID == id {
			delete(s.messages, mid)
		}
	}
	delete(s.users, id)
}

func (s *Store) deletePetLocked(id int64) {
	for aid, a := range s.adoptions {
		if a.PetID == id {
			delete(s.adoptions, aid)
		}
	}
	for mid, m := range s.messages {
		if m.PetID != nil && *m.PetID == id {
			delete(s.messages, mid)
		}
	}
	delete(s.pets, id)
}

// newestFirst ordena por fecha de creación desc; a igual fecha, id desc.
func newestFirst[T any](items []T, at func(T) time.Time, id func(T) int64) {
	sort.Slice(items, func(i, j int) bool {
		ti, tj := at(items[i]), at(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return id(items[i]) > id(items[j])
	})
}
