package adoptions

import (
	"strings"
	"time"

	"pet-adoption/internal/domain/pets"
)

// Status de una solicitud. Accepted y Declined son terminales.
// @Enum Pending, Accepted, Declined
type Status string

const (
	StatusPending  Status = "Pending"
	StatusAccepted Status = "Accepted"
	StatusDeclined Status = "Declined"
)

// ParseDecision solo acepta los estados a los que se puede decidir.
func ParseDecision(raw string) (Status, bool) {
	raw = strings.TrimSpace(raw)
	for _, s := range []Status{StatusAccepted, StatusDeclined} {
		if strings.EqualFold(raw, string(s)) {
			return s, true
		}
	}
	return "", false
}

type Request struct {
	ID          int64
	PetID       int64
	RequesterID int64

	Status Status

	CreatedAt time.Time
	DecidedAt *time.Time
}

// PetState es lo que el workflow necesita de la mascota, leído con lock.
type PetState struct {
	ID       int64
	HolderID int64
	Status   pets.Status
}

// MineView: solicitud hecha por el usuario.
type MineView struct {
	Request

	PetName    string
	PetPhoto   string
	HolderName string
}

// ReceivedView: solicitud sobre una mascota del usuario.
type ReceivedView struct {
	Request

	PetName        string
	PetPhoto       string
	RequesterName  string
	RequesterEmail string
}
