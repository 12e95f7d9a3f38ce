package applications

import (
	"context"
	"time"
)

type ListFilter struct {
	Status    Status
	ShelterID string // scope por refugio de la mascota
	UserID    string // scope por solicitante
}

// ReviewRecord es la escritura de revisión que el repo aplica
// condicionalmente (solo desde pending).
type ReviewRecord struct {
	Status     Status
	ReviewerID string
	Notes      string
	ReviewedAt time.Time
}

// Repository persiste solicitudes.
//
// Review tiene el contrato fuerte del workflow: aplica rec solo si el
// estado actual es pending (compare-and-set) y, si rec.Status es
// approved, marca la mascota como adoptada en la misma unidad atómica.
// Varias instancias pueden compartir el mismo storage, así que la
// serialización vive acá y no en locks en memoria del service.
// Errores: ErrNotFound si la solicitud no existe, ErrAlreadyReviewed si
// ya estaba en estado terminal.
type Repository interface {
	Create(ctx context.Context, a Application) error
	GetByID(ctx context.Context, id string) (Application, error)

	// List devuelve solicitudes del filtro, más recientes primero.
	List(ctx context.Context, f ListFilter) ([]Application, error)

	Review(ctx context.Context, id string, rec ReviewRecord) (Application, error)
}
