package shelters

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Shelter
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Shelter{}}
}

func (r *testRepo) Create(ctx context.Context, s Shelter) error {
	if s.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) Update(ctx context.Context, s Shelter) error {
	if _, ok := r.byID[s.ID]; !ok {
		return ErrNotFound
	}
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Shelter, error) {
	s, ok := r.byID[id]
	if !ok {
		return Shelter{}, ErrNotFound
	}
	return s, nil
}

func (r *testRepo) List(ctx context.Context) ([]Shelter, error) {
	out := make([]Shelter, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	return out, nil
}

type testStaff struct {
	staff map[string]bool
}

func (d testStaff) IsShelterStaff(ctx context.Context, userID string) (bool, error) {
	return d.staff[userID], nil
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, testStaff{staff: map[string]bool{
		"staff-1": true,
		"staff-2": true,
	}})
	svc.now = func() time.Time {
		return time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	}
	return svc, repo
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_RequiresName(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Create(context.Background(), CreateInput{Name: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	sh, err := svc.Create(context.Background(), CreateInput{
		Name:     "Refugio Norte",
		Location: "Lima",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sh.ID == "" || sh.ManagerUserID != "" {
		t.Fatalf("new shelter must have id and no manager, got %+v", sh)
	}
}

func TestService_AssignManager(t *testing.T) {
	svc, _ := newTestService()

	sh, err := svc.Create(context.Background(), CreateInput{Name: "Refugio Norte"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.AssignManager(context.Background(), sh.ID, "staff-1")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if updated.ManagerUserID != "staff-1" {
		t.Fatalf("expected staff-1 manager, got %q", updated.ManagerUserID)
	}

	// Idempotente sobre el mismo manager.
	if _, err := svc.AssignManager(context.Background(), sh.ID, "staff-1"); err != nil {
		t.Fatalf("expected idempotent assign, got %v", err)
	}

	// Otro manager sobre refugio ya manejado => conflicto.
	if _, err := svc.AssignManager(context.Background(), sh.ID, "staff-2"); !errors.Is(err, ErrManagerAssigned) {
		t.Fatalf("expected ErrManagerAssigned, got %v", err)
	}
}

func TestService_AssignManager_RequiresStaffRole(t *testing.T) {
	svc, _ := newTestService()

	sh, _ := svc.Create(context.Background(), CreateInput{Name: "Refugio Norte"})

	if _, err := svc.AssignManager(context.Background(), sh.ID, "adopter-1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for non-staff manager, got %v", err)
	}
}

func TestService_AssignManager_ShelterNotFound(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.AssignManager(context.Background(), "nope", "staff-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_ManagedBy(t *testing.T) {
	svc, _ := newTestService()

	sh, _ := svc.Create(context.Background(), CreateInput{Name: "Refugio Norte"})
	_, _ = svc.AssignManager(context.Background(), sh.ID, "staff-1")

	if ok, _ := svc.ManagedBy(context.Background(), "staff-1", sh.ID); !ok {
		t.Fatalf("expected managed by staff-1")
	}
	if ok, _ := svc.ManagedBy(context.Background(), "staff-2", sh.ID); ok {
		t.Fatalf("expected not managed by staff-2")
	}
	// Refugio inexistente => false, no error.
	if ok, err := svc.ManagedBy(context.Background(), "staff-1", "nope"); ok || err != nil {
		t.Fatalf("expected false/nil for missing shelter, got %v/%v", ok, err)
	}
}
