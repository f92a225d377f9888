package pets

import (
	"strings"
	"time"
)

// Species es texto libre; estas son las que ofrece el frontend.
// @Enum dog, cat, bird, rabbit, other
type Species string

const (
	SpeciesDog    Species = "dog"
	SpeciesCat    Species = "cat"
	SpeciesBird   Species = "bird"
	SpeciesRabbit Species = "rabbit"
	SpeciesOther  Species = "other"
)

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

func (s Sex) Valid() bool {
	switch s {
	case SexMale, SexFemale, SexUnknown:
		return true
	}
	return false
}

// Status de la publicación. Available es "disponible para adopción".
// @Enum Available, Adopted, Lost, Found
type Status string

const (
	StatusAvailable Status = "Available"
	StatusAdopted   Status = "Adopted"
	StatusLost      Status = "Lost"
	StatusFound     Status = "Found"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusAdopted, StatusLost, StatusFound:
		return true
	}
	return false
}

// ParseStatus acepta mayúsculas/minúsculas indistintas.
func ParseStatus(raw string) (Status, bool) {
	for _, s := range []Status{StatusAvailable, StatusAdopted, StatusLost, StatusFound} {
		if strings.EqualFold(strings.TrimSpace(raw), string(s)) {
			return s, true
		}
	}
	return "", false
}

// Pet es una mascota publicada. HolderID es el usuario responsable.
type Pet struct {
	ID       int64
	HolderID int64

	Name    string
	Species Species
	Breed   string
	Age     *int // años
	Sex     Sex
	Size    string
	Color   string

	Description string
	Status      Status

	Latitude  *float64
	Longitude *float64

	// Nombre del archivo servido bajo /uploads; vacío si no hay foto.
	Photo string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Listing es la vista pública: mascota + contacto del responsable.
type Listing struct {
	Pet

	HolderName  string
	HolderEmail string
	HolderPhone string
	HolderCity  string
	HolderState string
}

// ListFilter: campos vacíos no filtran.
type ListFilter struct {
	Status  Status
	Species Species
	City    string
	State   string
}
