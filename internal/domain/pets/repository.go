package pets

import "context"

// Repository devuelve ErrNotFound como sentinel. Update y Delete solo afectan
// filas del holder indicado.
type Repository interface {
	Create(ctx context.Context, p Pet) (int64, error)
	GetByID(ctx context.Context, id int64) (Pet, error)
	GetListing(ctx context.Context, id int64) (Listing, error)
	List(ctx context.Context, f ListFilter) ([]Listing, error)
	ListByHolder(ctx context.Context, holderID int64) ([]Pet, error)
	Update(ctx context.Context, p Pet) error
	Delete(ctx context.Context, id, holderID int64) error

	PhotosByHolder(ctx context.Context, holderID int64) ([]string, error)
}
