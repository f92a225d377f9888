package messages

import "context"

type Repository interface {
	// Insert devuelve ErrNotFound si el destinatario o la mascota no existen.
	Insert(ctx context.Context, m Message) (int64, error)
	Conversations(ctx context.Context, userID int64) ([]Partner, error)
	// Thread devuelve los mensajes del par con id > afterID, ascendente.
	Thread(ctx context.Context, userID, otherID, afterID int64) ([]ThreadMessage, error)
}
