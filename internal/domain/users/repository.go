package users

import "context"

// Repository devuelve ErrNotFound y ErrEmailTaken como sentinels.
type Repository interface {
	Create(ctx context.Context, u User) (int64, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Update(ctx context.Context, u User) error

	// Delete borra en cascada mascotas, solicitudes y mensajes del usuario.
	Delete(ctx context.Context, id int64) error
}
