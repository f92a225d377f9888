package adoptions

import (
	"context"
	"time"

	"pet-adoption/internal/domain/pets"
)

type Repository interface {
	// WithinTx corre fn en una transacción: commit si fn devuelve nil, rollback si no.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	// Ambas ordenadas por creación, más recientes primero.
	ListByRequester(ctx context.Context, requesterID int64) ([]MineView, error)
	ListByHolder(ctx context.Context, holderID int64) ([]ReceivedView, error)
}

// Tx son las operaciones disponibles dentro de una transacción.
type Tx interface {
	// LockPet bloquea la fila de la mascota hasta el fin de la tx. ErrNotFound si no existe.
	LockPet(ctx context.Context, petID int64) (PetState, error)
	HasPending(ctx context.Context, petID int64) (bool, error)
	// Insert devuelve ErrConflict si ya hay una Pending para la mascota.
	Insert(ctx context.Context, r Request) (int64, error)

	// LockRequest devuelve la solicitud y el holder actual de su mascota.
	LockRequest(ctx context.Context, id int64) (Request, int64, error)
	// SetStatus solo cambia filas que siguen en from; si no, ErrInvalidState.
	SetStatus(ctx context.Context, id int64, from, to Status, at time.Time) error
	SetPetStatus(ctx context.Context, petID int64, st pets.Status) error
}
