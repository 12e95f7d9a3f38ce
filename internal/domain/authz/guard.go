package authz

import (
	"context"
	"errors"
	"strings"

	"pet-adoption-service/internal/domain/identity"
)

var (
	// ErrUnauthenticated: no hay identidad ("quién sos").
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden: identidad resuelta pero sin la capability ("no podés").
	ErrForbidden = errors.New("forbidden")
)

// Los lookups de ownership se inyectan como interfaces chicas para no
// importar los paquetes de dominio (rompe ciclos). Cada predicado debe
// devolver (false, nil) si el recurso no existe: la negación de acceso
// no puede filtrar existencia a actores no-admin.

type PetOwnership interface {
	OwnedByShelter(ctx context.Context, shelterID, petID string) (bool, error)
}

type ApplicationOwnership interface {
	OwnedByShelter(ctx context.Context, shelterID, applicationID string) (bool, error)
	OwnedByApplicant(ctx context.Context, userID, applicationID string) (bool, error)
}

type ShelterOwnership interface {
	ManagedBy(ctx context.Context, userID, shelterID string) (bool, error)
}

// Guard resuelve allow/deny para una identidad y una capability.
// Ante datos de ownership ausentes o ambiguos siempre niega (fail closed).
type Guard struct {
	pets         PetOwnership
	applications ApplicationOwnership
	shelters     ShelterOwnership
}

func NewGuard(pets PetOwnership, applications ApplicationOwnership, shelters ShelterOwnership) *Guard {
	return &Guard{
		pets:         pets,
		applications: applications,
		shelters:     shelters,
	}
}

func (g *Guard) Require(ctx context.Context, id identity.Identity, c Capability) error {
	if strings.TrimSpace(id.UserID) == "" {
		return ErrUnauthenticated
	}

	if !roleAllowed(id.Role, c.Roles) {
		return ErrForbidden
	}

	if c.Resource == "" {
		return nil
	}

	resourceID := strings.TrimSpace(c.ResourceID)
	if resourceID == "" {
		return ErrForbidden
	}

	// Admin pasa cualquier predicado de ownership, incondicional.
	if id.Role == identity.RoleAdmin {
		return nil
	}

	owned, err := g.owns(ctx, id, c.Resource, resourceID)
	if err != nil || !owned {
		return ErrForbidden
	}
	return nil
}

func (g *Guard) owns(ctx context.Context, id identity.Identity, kind ResourceKind, resourceID string) (bool, error) {
	switch id.Role {
	case identity.RoleShelterStaff:
		shelterID := strings.TrimSpace(id.ShelterID)
		if shelterID == "" {
			// shelter_id null => ninguna capability con scope de refugio.
			return false, nil
		}
		switch kind {
		case ResourcePet:
			return g.pets.OwnedByShelter(ctx, shelterID, resourceID)
		case ResourceApplication:
			return g.applications.OwnedByShelter(ctx, shelterID, resourceID)
		case ResourceShelter:
			if shelterID == resourceID {
				return true, nil
			}
			return g.shelters.ManagedBy(ctx, id.UserID, resourceID)
		}

	case identity.RoleAdopter:
		// Un adopter solo tiene ownership sobre sus propias solicitudes.
		if kind == ResourceApplication {
			return g.applications.OwnedByApplicant(ctx, id.UserID, resourceID)
		}
	}

	return false, nil
}

func roleAllowed(role identity.Role, allowed []identity.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
