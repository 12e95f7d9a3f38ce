package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrBadState     = errors.New("invalid state")
)

// Service maneja el ciclo de vida de cuentas: alta (admin) y la cola de
// aprobación pending -> active | rejected. El login vive en el IAM externo.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateUserInput struct {
	Email     string
	Role      string
	FirstName string
	LastName  string
	Phone     string
	Address   string
	ShelterID string
}

func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return User{}, ErrInvalidInput
	}

	role, ok := ParseRole(in.Role)
	if !ok {
		return User{}, ErrInvalidInput
	}

	shelterID := strings.TrimSpace(in.ShelterID)
	if role != RoleShelterStaff && shelterID != "" {
		return User{}, ErrInvalidInput
	}

	now := s.now()
	u := User{
		ID:            uuid.NewString(),
		Email:         email,
		Role:          role,
		AccountStatus: AccountPending,
		ShelterID:     shelterID,
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		Phone:         strings.TrimSpace(in.Phone),
		Address:       strings.TrimSpace(in.Address),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrInvalidInput
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *Service) ListPending(ctx context.Context) ([]User, error) {
	return s.repo.ListByStatus(ctx, AccountPending)
}

// ApproveAccount activa una cuenta pendiente. Idempotente sobre active.
func (s *Service) ApproveAccount(ctx context.Context, userID string) (User, error) {
	return s.setAccountStatus(ctx, userID, AccountActive)
}

// RejectAccount rechaza una cuenta pendiente. Idempotente sobre rejected.
func (s *Service) RejectAccount(ctx context.Context, userID string) (User, error) {
	return s.setAccountStatus(ctx, userID, AccountRejected)
}

func (s *Service) setAccountStatus(ctx context.Context, userID string, target AccountStatus) (User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return User{}, ErrInvalidInput
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return User{}, ErrNotFound
	}

	// Idempotente
	if u.AccountStatus == target {
		return u, nil
	}
	if u.AccountStatus != AccountPending {
		return User{}, ErrBadState
	}

	u.AccountStatus = target
	u.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// IsShelterStaff responde si userID existe y tiene rol shelter_staff.
// Lo consume shelters para validar asignación de manager (evita ciclos).
func (s *Service) IsShelterStaff(ctx context.Context, userID string) (bool, error) {
	u, err := s.repo.GetByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		return false, nil
	}
	return u.Role == RoleShelterStaff, nil
}
