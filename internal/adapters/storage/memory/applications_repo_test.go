package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pet-adoption-service/internal/domain/applications"
	"pet-adoption-service/internal/domain/pets"
)

func seedRepo(t *testing.T) (applications.Repository, *PetsRepo) {
	t.Helper()

	petsRepo := NewPetsRepo()
	repo := NewApplicationsRepo(petsRepo)

	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	if err := petsRepo.Create(context.Background(), pets.Pet{
		ID:             "pet-1",
		ShelterID:      "shelter-7",
		Name:           "Milo",
		Species:        "dog",
		AdoptionStatus: pets.StatusNotAdopted,
		CreatedAt:      now,
		UpdatedAt:      now,
	}); err != nil {
		t.Fatalf("seed pet: %v", err)
	}

	if err := repo.Create(context.Background(), applications.Application{
		ID:        "app-1",
		UserID:    "adopter-1",
		PetID:     "pet-1",
		Email:     "jane@example.com",
		Phone:     "555-0100",
		Address:   "12 Oak St",
		Status:    applications.StatusPending,
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("seed application: %v", err)
	}

	return repo, petsRepo
}

func TestApplicationsRepo_Review_SingleWinner(t *testing.T) {
	repo, _ := seedRepo(t)

	const n = 16
	var wg sync.WaitGroup
	results := make([]error, n)

	rec := applications.ReviewRecord{
		Status:     applications.StatusApproved,
		ReviewerID: "staff-1",
		ReviewedAt: time.Now(),
	}

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = repo.Review(context.Background(), "app-1", rec)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, applications.ErrAlreadyReviewed):
		default:
			t.Fatalf("unexpected review error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winning review, got %d", wins)
	}
}

func TestApplicationsRepo_Review_ApproveCascades(t *testing.T) {
	repo, petsRepo := seedRepo(t)

	reviewedAt := time.Date(2025, 12, 23, 9, 0, 0, 0, time.UTC)
	a, err := repo.Review(context.Background(), "app-1", applications.ReviewRecord{
		Status:     applications.StatusApproved,
		ReviewerID: "staff-1",
		Notes:      "great home",
		ReviewedAt: reviewedAt,
	})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if a.Status != applications.StatusApproved || a.ReviewedAt == nil {
		t.Fatalf("unexpected application %+v", a)
	}

	p, err := petsRepo.GetByID(context.Background(), "pet-1")
	if err != nil {
		t.Fatalf("get pet: %v", err)
	}
	if p.AdoptionStatus != pets.StatusAdopted {
		t.Fatalf("expected adopted pet, got %s", p.AdoptionStatus)
	}
	if !p.UpdatedAt.Equal(reviewedAt) {
		t.Fatalf("expected pet updated_at = reviewed_at")
	}
}

// La aprobación y la adopción de la mascota tienen que ser una sola
// unidad observable: un lector que ya vio la solicitud aprobada no puede
// encontrar la mascota todavía disponible.
func TestApplicationsRepo_Review_ApprovedImpliesPetAdopted(t *testing.T) {
	for round := 0; round < 100; round++ {
		petsRepo := NewPetsRepo()
		repo := NewApplicationsRepo(petsRepo)

		if err := petsRepo.Create(context.Background(), pets.Pet{
			ID:             "pet-1",
			ShelterID:      "shelter-7",
			Name:           "Milo",
			Species:        "dog",
			AdoptionStatus: pets.StatusNotAdopted,
		}); err != nil {
			t.Fatalf("seed pet: %v", err)
		}
		if err := repo.Create(context.Background(), applications.Application{
			ID:     "app-1",
			UserID: "adopter-1",
			PetID:  "pet-1",
			Status: applications.StatusPending,
		}); err != nil {
			t.Fatalf("seed application: %v", err)
		}

		torn := false
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				a, err := repo.GetByID(context.Background(), "app-1")
				if err != nil {
					continue
				}
				if a.Status != applications.StatusApproved {
					continue
				}
				p, err := petsRepo.GetByID(context.Background(), "pet-1")
				if err == nil && p.AdoptionStatus != pets.StatusAdopted {
					torn = true
				}
				return
			}
		}()

		if _, err := repo.Review(context.Background(), "app-1", applications.ReviewRecord{
			Status:     applications.StatusApproved,
			ReviewerID: "staff-1",
			ReviewedAt: time.Now(),
		}); err != nil {
			t.Fatalf("review: %v", err)
		}
		<-done

		if torn {
			t.Fatalf("round %d: reader observed approved application with available pet", round)
		}
	}
}

func TestApplicationsRepo_Review_RejectDoesNotCascade(t *testing.T) {
	repo, petsRepo := seedRepo(t)

	if _, err := repo.Review(context.Background(), "app-1", applications.ReviewRecord{
		Status:     applications.StatusRejected,
		ReviewerID: "staff-1",
		ReviewedAt: time.Now(),
	}); err != nil {
		t.Fatalf("review: %v", err)
	}

	p, _ := petsRepo.GetByID(context.Background(), "pet-1")
	if p.AdoptionStatus != pets.StatusNotAdopted {
		t.Fatalf("rejection must not adopt the pet, got %s", p.AdoptionStatus)
	}
}

func TestApplicationsRepo_Review_RollbackOnCascadeFailure(t *testing.T) {
	petsRepo := NewPetsRepo()
	repo := NewApplicationsRepo(petsRepo)

	// Solicitud cuya mascota no existe: el cascade falla y la revisión
	// no debe aplicarse.
	if err := repo.Create(context.Background(), applications.Application{
		ID:        "app-ghost",
		UserID:    "adopter-1",
		PetID:     "ghost",
		Status:    applications.StatusPending,
		CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := repo.Review(context.Background(), "app-ghost", applications.ReviewRecord{
		Status:     applications.StatusApproved,
		ReviewerID: "staff-1",
		ReviewedAt: time.Now(),
	}); err == nil {
		t.Fatalf("expected cascade failure")
	}

	a, err := repo.GetByID(context.Background(), "app-ghost")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a.Status != applications.StatusPending {
		t.Fatalf("expected rollback to pending, got %s", a.Status)
	}
}

func TestApplicationsRepo_List_NotFound(t *testing.T) {
	repo, _ := seedRepo(t)

	if _, err := repo.GetByID(context.Background(), "nope"); !errors.Is(err, applications.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
