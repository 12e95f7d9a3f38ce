package shelters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrManagerAssigned = errors.New("shelter already has a manager")
)

// StaffDirectory evita importar el paquete identity (rompe ciclos).
type StaffDirectory interface {
	IsShelterStaff(ctx context.Context, userID string) (bool, error)
}

type Service struct {
	repo  Repository
	staff StaffDirectory
	now   func() time.Time
}

func NewService(repo Repository, staff StaffDirectory) *Service {
	return &Service{
		repo:  repo,
		staff: staff,
		now:   time.Now,
	}
}

type CreateInput struct {
	Name          string
	Location      string
	ContactPerson string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Shelter, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Shelter{}, ErrInvalidInput
	}

	now := s.now()
	sh := Shelter{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(in.Name),
		Location:      strings.TrimSpace(in.Location),
		ContactPerson: strings.TrimSpace(in.ContactPerson),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, sh); err != nil {
		return Shelter{}, err
	}
	return sh, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Shelter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Shelter{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Shelter, error) {
	return s.repo.List(ctx)
}

// AssignManager vincula un shelter_staff como manager del refugio.
// Refugio ya manejado por otro usuario => ErrManagerAssigned.
// Idempotente si el manager ya es ese usuario.
func (s *Service) AssignManager(ctx context.Context, shelterID, userID string) (Shelter, error) {
	shelterID = strings.TrimSpace(shelterID)
	userID = strings.TrimSpace(userID)

	if shelterID == "" || userID == "" {
		return Shelter{}, ErrInvalidInput
	}

	isStaff, err := s.staff.IsShelterStaff(ctx, userID)
	if err != nil {
		return Shelter{}, err
	}
	if !isStaff {
		return Shelter{}, ErrInvalidInput
	}

	sh, err := s.repo.GetByID(ctx, shelterID)
	if err != nil {
		return Shelter{}, ErrNotFound
	}

	if sh.ManagerUserID == userID {
		return sh, nil
	}
	if sh.ManagerUserID != "" {
		return Shelter{}, ErrManagerAssigned
	}

	sh.ManagerUserID = userID
	sh.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, sh); err != nil {
		return Shelter{}, err
	}
	return sh, nil
}
