package authz

import (
	"context"
	"errors"
	"testing"

	"pet-adoption-service/internal/domain/identity"
)

// -------------------------
// Stub ownership lookups
// -------------------------

type stubPets struct {
	shelterOf map[string]string // petID -> shelterID
}

func (s stubPets) OwnedByShelter(ctx context.Context, shelterID, petID string) (bool, error) {
	owner, ok := s.shelterOf[petID]
	if !ok {
		return false, nil
	}
	return owner == shelterID, nil
}

type stubApplications struct {
	shelterOf   map[string]string // applicationID -> shelterID de la mascota
	applicantOf map[string]string // applicationID -> userID
}

func (s stubApplications) OwnedByShelter(ctx context.Context, shelterID, applicationID string) (bool, error) {
	owner, ok := s.shelterOf[applicationID]
	if !ok {
		return false, nil
	}
	return owner == shelterID, nil
}

func (s stubApplications) OwnedByApplicant(ctx context.Context, userID, applicationID string) (bool, error) {
	applicant, ok := s.applicantOf[applicationID]
	if !ok {
		return false, nil
	}
	return applicant == userID, nil
}

type stubShelters struct {
	managerOf map[string]string // shelterID -> userID
}

func (s stubShelters) ManagedBy(ctx context.Context, userID, shelterID string) (bool, error) {
	manager, ok := s.managerOf[shelterID]
	if !ok {
		return false, nil
	}
	return manager == userID, nil
}

func newTestGuard() *Guard {
	return NewGuard(
		stubPets{shelterOf: map[string]string{
			"pet-1": "shelter-7",
		}},
		stubApplications{
			shelterOf:   map[string]string{"app-1": "shelter-7"},
			applicantOf: map[string]string{"app-1": "adopter-1"},
		},
		stubShelters{managerOf: map[string]string{
			"shelter-9": "staff-9",
		}},
	)
}

func ident(userID string, role identity.Role, shelterID string) identity.Identity {
	return identity.Identity{
		UserID:        userID,
		Role:          role,
		AccountStatus: identity.AccountActive,
		ShelterID:     shelterID,
	}
}

// -------------------------
// Tests
// -------------------------

func TestGuard_Require_Unauthenticated(t *testing.T) {
	g := newTestGuard()

	err := g.Require(context.Background(), identity.Identity{}, Roles(identity.RoleAdmin))
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestGuard_Require_RoleNotAllowed(t *testing.T) {
	g := newTestGuard()

	err := g.Require(context.Background(), ident("adopter-1", identity.RoleAdopter, ""), Roles(
		identity.RoleAdmin, identity.RoleShelterStaff,
	))
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestGuard_Require_RoleOnlyPass(t *testing.T) {
	g := newTestGuard()

	if err := g.Require(context.Background(), ident("adopter-1", identity.RoleAdopter, ""), Roles(identity.RoleAdopter)); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
}

func TestGuard_Require_EmptyResourceID(t *testing.T) {
	g := newTestGuard()

	err := g.Require(context.Background(), ident("staff-7", identity.RoleShelterStaff, "shelter-7"), Resource(
		ResourcePet, "  ", identity.RoleShelterStaff,
	))
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for empty resource id, got %v", err)
	}
}

func TestGuard_Require_AdminSkipsOwnership(t *testing.T) {
	g := newTestGuard()

	// Recurso inexistente: admin pasa igual, sin tocar los lookups.
	if err := g.Require(context.Background(), ident("admin-1", identity.RoleAdmin, ""), Resource(
		ResourcePet, "no-such-pet", identity.RoleAdmin,
	)); err != nil {
		t.Fatalf("expected admin allow, got %v", err)
	}
}

func TestGuard_Require_StaffPetOwnership(t *testing.T) {
	g := newTestGuard()
	c := Resource(ResourcePet, "pet-1", identity.RoleShelterStaff)

	if err := g.Require(context.Background(), ident("staff-7", identity.RoleShelterStaff, "shelter-7"), c); err != nil {
		t.Fatalf("expected allow for own shelter pet, got %v", err)
	}
	if err := g.Require(context.Background(), ident("staff-9", identity.RoleShelterStaff, "shelter-9"), c); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected deny for other shelter pet, got %v", err)
	}
}

func TestGuard_Require_StaffWithoutShelter(t *testing.T) {
	g := newTestGuard()

	err := g.Require(context.Background(), ident("staff-x", identity.RoleShelterStaff, ""), Resource(
		ResourcePet, "pet-1", identity.RoleShelterStaff,
	))
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected deny for staff without shelter, got %v", err)
	}
}

func TestGuard_Require_StaffApplicationOwnership(t *testing.T) {
	g := newTestGuard()
	c := Resource(ResourceApplication, "app-1", identity.RoleShelterStaff)

	if err := g.Require(context.Background(), ident("staff-7", identity.RoleShelterStaff, "shelter-7"), c); err != nil {
		t.Fatalf("expected allow for own shelter application, got %v", err)
	}
	if err := g.Require(context.Background(), ident("staff-9", identity.RoleShelterStaff, "shelter-9"), c); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected deny for other shelter application, got %v", err)
	}
}

func TestGuard_Require_StaffShelterResource(t *testing.T) {
	g := newTestGuard()

	// Su propio refugio, por igualdad.
	if err := g.Require(context.Background(), ident("staff-7", identity.RoleShelterStaff, "shelter-7"), Resource(
		ResourceShelter, "shelter-7", identity.RoleShelterStaff,
	)); err != nil {
		t.Fatalf("expected allow on own shelter, got %v", err)
	}

	// Refugio del que es manager, aunque no sea su shelter claim.
	if err := g.Require(context.Background(), ident("staff-9", identity.RoleShelterStaff, "shelter-7"), Resource(
		ResourceShelter, "shelter-9", identity.RoleShelterStaff,
	)); err != nil {
		t.Fatalf("expected allow on managed shelter, got %v", err)
	}

	// Refugio ajeno.
	if err := g.Require(context.Background(), ident("staff-7", identity.RoleShelterStaff, "shelter-7"), Resource(
		ResourceShelter, "shelter-9", identity.RoleShelterStaff,
	)); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected deny on foreign shelter, got %v", err)
	}
}

func TestGuard_Require_AdopterApplicationOwnership(t *testing.T) {
	g := newTestGuard()
	c := Resource(ResourceApplication, "app-1", identity.RoleAdopter)

	if err := g.Require(context.Background(), ident("adopter-1", identity.RoleAdopter, ""), c); err != nil {
		t.Fatalf("expected allow on own application, got %v", err)
	}
	if err := g.Require(context.Background(), ident("adopter-2", identity.RoleAdopter, ""), c); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected deny on foreign application, got %v", err)
	}
}

func TestGuard_Require_AdopterNeverOwnsPets(t *testing.T) {
	g := newTestGuard()

	err := g.Require(context.Background(), ident("adopter-1", identity.RoleAdopter, ""), Resource(
		ResourcePet, "pet-1", identity.RoleAdopter,
	))
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected deny, got %v", err)
	}
}

func TestGuard_Require_MissingResourceDenies(t *testing.T) {
	g := newTestGuard()

	// Solicitud inexistente: deny sin distinguir de "ajena".
	err := g.Require(context.Background(), ident("adopter-1", identity.RoleAdopter, ""), Resource(
		ResourceApplication, "no-such-app", identity.RoleAdopter,
	))
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected deny for missing resource, got %v", err)
	}
}
