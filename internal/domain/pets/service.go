package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption-service/internal/domain/identity"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

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

type CreateInput struct {
	ShelterID string
	Name      string
	Species   string
	Breed     string
	Sex       string
	AgeYears  int
	Notes     string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Pet, error) {
	if strings.TrimSpace(in.ShelterID) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Species) == "" {
		return Pet{}, ErrInvalidInput
	}
	if in.AgeYears < 0 {
		return Pet{}, ErrInvalidInput
	}

	now := s.now()
	p := Pet{
		ID:             uuid.NewString(),
		ShelterID:      strings.TrimSpace(in.ShelterID),
		Name:           strings.TrimSpace(in.Name),
		Species:        strings.TrimSpace(in.Species),
		Breed:          strings.TrimSpace(in.Breed),
		Sex:            strings.TrimSpace(in.Sex),
		AgeYears:       in.AgeYears,
		AdoptionStatus: StatusNotAdopted,
		Notes:          strings.TrimSpace(in.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// ListForIdentity aplica la visibilidad por rol:
// admin ve todo, staff ve su refugio, adopter ve solo disponibles.
func (s *Service) ListForIdentity(ctx context.Context, id identity.Identity) ([]Pet, error) {
	switch id.Role {
	case identity.RoleAdmin:
		return s.repo.List(ctx, ListFilter{})
	case identity.RoleShelterStaff:
		if strings.TrimSpace(id.ShelterID) == "" {
			return []Pet{}, nil
		}
		return s.repo.List(ctx, ListFilter{ShelterID: id.ShelterID})
	case identity.RoleAdopter:
		return s.repo.List(ctx, ListFilter{AdoptionStatus: StatusNotAdopted})
	default:
		return []Pet{}, nil
	}
}

func (s *Service) ListByShelter(ctx context.Context, shelterID string) ([]Pet, error) {
	shelterID = strings.TrimSpace(shelterID)
	if shelterID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, ListFilter{ShelterID: shelterID})
}
