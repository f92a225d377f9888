package adoptions

import (
	"context"
	"errors"
	"time"

	"pet-adoption/internal/domain/pets"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("invalid state")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrConflict         = errors.New("pending request already exists for this pet")
	ErrForbidden        = errors.New("forbidden")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Request crea una solicitud Pending. Chequeos en orden: existe, disponible,
// no es propia, no hay otra Pending. Todo dentro de la misma tx.
func (s *Service) Request(ctx context.Context, requesterID, petID int64) (Request, error) {
	if requesterID <= 0 {
		return Request{}, ErrInvalidOperation
	}
	if petID <= 0 {
		return Request{}, ErrNotFound
	}

	req := Request{
		PetID:       petID,
		RequesterID: requesterID,
		Status:      StatusPending,
		CreatedAt:   s.now(),
	}

	err := s.repo.WithinTx(ctx, func(tx Tx) error {
		pet, err := tx.LockPet(ctx, petID)
		if err != nil {
			return err
		}
		if pet.Status != pets.StatusAvailable {
			return ErrInvalidState
		}
		if pet.HolderID == requesterID {
			return ErrInvalidOperation
		}

		pending, err := tx.HasPending(ctx, petID)
		if err != nil {
			return err
		}
		if pending {
			return ErrConflict
		}

		id, err := tx.Insert(ctx, req)
		if err != nil {
			return err
		}
		req.ID = id
		return nil
	})
	if err != nil {
		return Request{}, err
	}
	return req, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]MineView, error) {
	return s.repo.ListByRequester(ctx, userID)
}

func (s *Service) ListReceived(ctx context.Context, ownerID int64) ([]ReceivedView, error) {
	return s.repo.ListByHolder(ctx, ownerID)
}

// Decide resuelve una solicitud Pending. Si se acepta, la mascota pasa a Adopted
// en la misma tx.
func (s *Service) Decide(ctx context.Context, ownerID, requestID int64, decision Status) (Request, error) {
	if decision != StatusAccepted && decision != StatusDeclined {
		return Request{}, ErrInvalidOperation
	}
	if requestID <= 0 {
		return Request{}, ErrNotFound
	}

	var out Request
	err := s.repo.WithinTx(ctx, func(tx Tx) error {
		req, holderID, err := tx.LockRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if holderID != ownerID {
			return ErrForbidden
		}
		if req.Status != StatusPending {
			return ErrInvalidState
		}

		at := s.now()
		if err := tx.SetStatus(ctx, req.ID, StatusPending, decision, at); err != nil {
			return err
		}
		if decision == StatusAccepted {
			if err := tx.SetPetStatus(ctx, req.PetID, pets.StatusAdopted); err != nil {
				return err
			}
		}

		req.Status = decision
		req.DecidedAt = &at
		out = req
		return nil
	})
	if err != nil {
		return Request{}, err
	}
	return out, nil
}
