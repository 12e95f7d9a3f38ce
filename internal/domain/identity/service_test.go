package identity

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]User
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]User{}}
}

func (r *testRepo) Create(ctx context.Context, u User) error {
	if u.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[u.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) Update(ctx context.Context, u User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, errRepoNotFound
	}
	return u, nil
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, errRepoNotFound
}

func (r *testRepo) ListByStatus(ctx context.Context, st AccountStatus) ([]User, error) {
	out := make([]User, 0)
	for _, u := range r.byID {
		if u.AccountStatus == st {
			out = append(out, u)
		}
	}
	return out, nil
}

func newTestServiceAt(repo *testRepo, now time.Time) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return now }
	return svc
}

// -------------------------
// Tests
// -------------------------

func TestService_CreateUser_StartsPending(t *testing.T) {
	repo := newTestRepo()
	svc := newTestServiceAt(repo, time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC))

	u, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:     "staff@shelter7.org",
		Role:      "shelter_staff",
		FirstName: "Ana",
		LastName:  "Pérez",
		ShelterID: "shelter-7",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if u.AccountStatus != AccountPending {
		t.Fatalf("expected pending account, got %s", u.AccountStatus)
	}
	if u.Role != RoleShelterStaff || u.ShelterID != "shelter-7" {
		t.Fatalf("staff fields not persisted: role=%s shelter=%s", u.Role, u.ShelterID)
	}
	if u.FullName() != "Ana Pérez" {
		t.Fatalf("unexpected full name %q", u.FullName())
	}
}

func TestService_CreateUser_ShelterOnlyForStaff(t *testing.T) {
	svc := newTestServiceAt(newTestRepo(), time.Now())

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:     "jane@example.com",
		Role:      "adopter",
		ShelterID: "shelter-7",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for adopter with shelter, got %v", err)
	}
}

func TestService_CreateUser_RejectsUnknownRole(t *testing.T) {
	svc := newTestServiceAt(newTestRepo(), time.Now())

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email: "jane@example.com",
		Role:  "superuser",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown role, got %v", err)
	}
}

func TestService_ApproveAccount_FromPending(t *testing.T) {
	repo := newTestRepo()
	svc := newTestServiceAt(repo, time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC))

	u, err := svc.CreateUser(context.Background(), CreateUserInput{Email: "jane@example.com", Role: "adopter"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	approved, err := svc.ApproveAccount(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.AccountStatus != AccountActive {
		t.Fatalf("expected active, got %s", approved.AccountStatus)
	}

	// Idempotente sobre active.
	again, err := svc.ApproveAccount(context.Background(), u.ID)
	if err != nil || again.AccountStatus != AccountActive {
		t.Fatalf("expected idempotent approve, got %v", err)
	}

	// Rechazar una cuenta ya activa no es una transición válida.
	if _, err := svc.RejectAccount(context.Background(), u.ID); !errors.Is(err, ErrBadState) {
		t.Fatalf("expected ErrBadState rejecting active account, got %v", err)
	}
}

func TestService_RejectAccount_FromPending(t *testing.T) {
	repo := newTestRepo()
	svc := newTestServiceAt(repo, time.Now())

	u, _ := svc.CreateUser(context.Background(), CreateUserInput{Email: "jane@example.com", Role: "adopter"})

	rejected, err := svc.RejectAccount(context.Background(), u.ID)
	if err != nil || rejected.AccountStatus != AccountRejected {
		t.Fatalf("expected rejected, got %v / %s", err, rejected.AccountStatus)
	}

	if _, err := svc.ApproveAccount(context.Background(), u.ID); !errors.Is(err, ErrBadState) {
		t.Fatalf("expected ErrBadState approving rejected account, got %v", err)
	}
}

func TestService_ApproveAccount_NotFound(t *testing.T) {
	svc := newTestServiceAt(newTestRepo(), time.Now())

	if _, err := svc.ApproveAccount(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_ListPending(t *testing.T) {
	repo := newTestRepo()
	svc := newTestServiceAt(repo, time.Now())

	a, _ := svc.CreateUser(context.Background(), CreateUserInput{Email: "a@example.com", Role: "adopter"})
	_, _ = svc.CreateUser(context.Background(), CreateUserInput{Email: "b@example.com", Role: "adopter"})
	_, _ = svc.ApproveAccount(context.Background(), a.ID)

	pending, err := svc.ListPending(context.Background())
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].Email != "b@example.com" {
		t.Fatalf("expected only b@example.com pending, got %+v", pending)
	}
}

func TestService_IsShelterStaff(t *testing.T) {
	repo := newTestRepo()
	svc := newTestServiceAt(repo, time.Now())

	staff, _ := svc.CreateUser(context.Background(), CreateUserInput{
		Email: "staff@shelter7.org", Role: "shelter_staff", ShelterID: "shelter-7",
	})
	adopter, _ := svc.CreateUser(context.Background(), CreateUserInput{Email: "jane@example.com", Role: "adopter"})

	if ok, err := svc.IsShelterStaff(context.Background(), staff.ID); err != nil || !ok {
		t.Fatalf("expected staff, got %v/%v", ok, err)
	}
	if ok, err := svc.IsShelterStaff(context.Background(), adopter.ID); err != nil || ok {
		t.Fatalf("expected not staff, got %v/%v", ok, err)
	}
	// Usuario inexistente => false, no error.
	if ok, err := svc.IsShelterStaff(context.Background(), "nope"); err != nil || ok {
		t.Fatalf("expected false/nil for missing user, got %v/%v", ok, err)
	}
}
