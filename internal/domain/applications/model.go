package applications

import (
	"strings"
	"time"
)

// Status es el estado de una solicitud de adopción.
// pending es inicial; approved y rejected son terminales: no hay
// transición definida desde un estado terminal.
// @Enum pending, approved, rejected
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseReviewStatus valida un estado de revisión (solo terminales).
func ParseReviewStatus(s string) (Status, bool) {
	switch Status(strings.TrimSpace(s)) {
	case StatusApproved:
		return StatusApproved, true
	case StatusRejected:
		return StatusRejected, true
	default:
		return "", false
	}
}

func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Application representa una solicitud de adopción.
// La crea un adopter; solo staff/admin la mutan, exactamente una vez,
// durante la revisión.
type Application struct {
	ID     string
	UserID string // solicitante
	PetID  string

	ApplicantName      string
	Email              string
	Phone              string
	Address            string
	ReasonForAdoption  string
	ExperienceWithPets string
	LivingSituation    string

	Status Status

	ReviewerID  string
	ReviewNotes string

	CreatedAt  time.Time
	ReviewedAt *time.Time
}
