package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-adoption-service/internal/domain/pets"
)

// PetsRepo se exporta como struct (no solo interface) porque el repo de
// solicitudes lo necesita para el cascade de adopción.
type PetsRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet
}

func NewPetsRepo() *PetsRepo {
	return &PetsRepo{
		byID: make(map[string]pets.Pet),
	}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pet already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *PetsRepo) List(ctx context.Context, f pets.ListFilter) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if f.ShelterID != "" && p.ShelterID != f.ShelterID {
			continue
		}
		if f.AdoptionStatus != "" && p.AdoptionStatus != f.AdoptionStatus {
			continue
		}
		out = append(out, p)
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *PetsRepo) SetAdoptionStatus(ctx context.Context, id string, st pets.AdoptionStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.ErrNotFound
	}
	p.AdoptionStatus = st
	p.UpdatedAt = at
	r.byID[id] = p
	return nil
}
