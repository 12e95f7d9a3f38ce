package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-adoption-service/internal/domain/applications"
	"pet-adoption-service/internal/domain/pets"
)

type applicationsRepo struct {
	mu   sync.Mutex
	byID map[string]applications.Application

	// Referencia directa al repo de mascotas: el cascade de la revisión
	// aprobada tiene que salir de la misma unidad lógica.
	pets *PetsRepo
}

func NewApplicationsRepo(petsRepo *PetsRepo) applications.Repository {
	return &applicationsRepo{
		byID: make(map[string]applications.Application),
		pets: petsRepo,
	}
}

func (r *applicationsRepo) Create(ctx context.Context, a applications.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("application id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("application already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *applicationsRepo) GetByID(ctx context.Context, id string) (applications.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return applications.Application{}, applications.ErrNotFound
	}
	return a, nil
}

func (r *applicationsRepo) List(ctx context.Context, f applications.ListFilter) ([]applications.Application, error) {
	r.mu.Lock()
	items := make([]applications.Application, 0, len(r.byID))
	for _, a := range r.byID {
		items = append(items, a)
	}
	r.mu.Unlock()

	out := make([]applications.Application, 0, len(items))
	for _, a := range items {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.UserID != "" && a.UserID != f.UserID {
			continue
		}
		if f.ShelterID != "" {
			// Scope por refugio => join con la mascota.
			p, err := r.pets.GetByID(ctx, a.PetID)
			if err != nil || p.ShelterID != f.ShelterID {
				continue
			}
		}
		out = append(out, a)
	}

	// Más recientes primero, contrato del listado.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

// Review hace el compare-and-set sobre pending y el cascade de la
// mascota bajo el mismo lock: dos revisiones concurrentes de la misma
// solicitud no pueden pasar las dos, y ningún lector puede observar la
// solicitud aprobada con la mascota todavía disponible. La mascota se
// escribe antes que la solicitud, así el cascade fallido no deja nada
// que revertir. Mantener el lock durante el cascade no deadlockea:
// nadie toma el lock de pets antes que este.
func (r *applicationsRepo) Review(ctx context.Context, id string, rec applications.ReviewRecord) (applications.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return applications.Application{}, applications.ErrNotFound
	}
	if a.Status != applications.StatusPending {
		return applications.Application{}, applications.ErrAlreadyReviewed
	}

	if rec.Status == applications.StatusApproved {
		if err := r.pets.SetAdoptionStatus(ctx, a.PetID, pets.StatusAdopted, rec.ReviewedAt); err != nil {
			return applications.Application{}, err
		}
	}

	reviewedAt := rec.ReviewedAt
	a.Status = rec.Status
	a.ReviewerID = rec.ReviewerID
	a.ReviewNotes = rec.Notes
	a.ReviewedAt = &reviewedAt
	r.byID[id] = a

	return a, nil
}
