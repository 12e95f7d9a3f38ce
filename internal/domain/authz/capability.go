package authz

import "pet-adoption-service/internal/domain/identity"

// ResourceKind identifica el tipo de recurso de una capability con scope.
type ResourceKind string

const (
	ResourcePet         ResourceKind = "pet"
	ResourceApplication ResourceKind = "application"
	ResourceShelter     ResourceKind = "shelter"
)

// Capability es data, no código: un set de roles aceptados y,
// opcionalmente, un recurso concreto sobre el que el actor debe
// tener ownership. La lógica de chequeo existe una sola vez en Guard.
type Capability struct {
	Roles []identity.Role

	// Resource vacío => capability solo por rol.
	Resource   ResourceKind
	ResourceID string
}

// Roles arma una capability solo por rol.
func Roles(roles ...identity.Role) Capability {
	return Capability{Roles: roles}
}

// Resource arma una capability con scope de recurso.
func Resource(kind ResourceKind, id string, roles ...identity.Role) Capability {
	return Capability{
		Roles:      roles,
		Resource:   kind,
		ResourceID: id,
	}
}
