package messages

import "time"

// Message es inmutable una vez enviado.
type Message struct {
	ID          int64
	SenderID    int64
	RecipientID int64

	// Mascota sobre la que se conversa, opcional.
	PetID *int64

	Content string
	SentAt  time.Time
}

// ThreadMessage agrega los nombres para mostrar el hilo.
type ThreadMessage struct {
	Message

	SenderName    string
	RecipientName string
}

// Partner es la contraparte de una conversación.
type Partner struct {
	ID           int64
	Name         string
	Email        string
	ProfilePhoto string
}
