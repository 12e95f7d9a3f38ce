package pets

import (
	"strings"
	"time"
)

// Species define las especies soportadas.
// @Enum dog, cat
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// AdoptionStatus indica disponibilidad para adopción.
// Solo cambia a adopted vía la aprobación de una solicitud.
// @Enum not_adopted, adopted
type AdoptionStatus string

const (
	StatusNotAdopted AdoptionStatus = "not_adopted"
	StatusAdopted    AdoptionStatus = "adopted"
)

func ParseAdoptionStatus(s string) (AdoptionStatus, bool) {
	switch AdoptionStatus(strings.TrimSpace(s)) {
	case StatusNotAdopted:
		return StatusNotAdopted, true
	case StatusAdopted:
		return StatusAdopted, true
	default:
		return "", false
	}
}

// Pet representa una mascota registrada. Pertenece a exactamente un refugio.
type Pet struct {
	ID        string
	ShelterID string

	Name     string
	Species  string // dog, cat
	Breed    string
	Sex      string // male, female, unknown
	AgeYears int

	AdoptionStatus AdoptionStatus

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
