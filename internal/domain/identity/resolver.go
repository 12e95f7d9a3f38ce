package identity

import (
	"context"
	"errors"
	"strings"

	"pet-adoption-service/internal/ports/auth"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Resolver convierte claims verificadas en una Identity.
//
// Orden de resolución:
//  1. claims del token si traen rol bien formado (y shelter para staff);
//  2. fallback a la base por subject id.
//
// El token puede ser longevo y un cambio de rol tiene que ser visible sin
// re-emitirlo: la base es la fuente de verdad, las claims son cache.
type Resolver struct {
	users Repository
}

func NewResolver(users Repository) *Resolver {
	return &Resolver{users: users}
}

func (r *Resolver) Resolve(ctx context.Context, c auth.Claims) (Identity, error) {
	userID := strings.TrimSpace(c.UserID)
	if userID == "" {
		return Identity{}, ErrUnauthenticated
	}

	if role, ok := ParseRole(c.Role); ok {
		// Staff sin claim de refugio no alcanza: sin shelter_id no hay
		// scope posible, mejor resolver contra la base.
		if role != RoleShelterStaff || strings.TrimSpace(c.ShelterID) != "" {
			status := AccountActive // el IAM solo emite tokens para cuentas activas
			if st, ok := ParseAccountStatus(c.AccountStatus); ok {
				status = st
			}
			return Identity{
				UserID:        userID,
				Email:         strings.TrimSpace(c.Email),
				Role:          role,
				AccountStatus: status,
				ShelterID:     strings.TrimSpace(c.ShelterID),
			}, nil
		}
	}

	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		// Subject que ya no existe => token inválido, no "not found".
		return Identity{}, ErrUnauthenticated
	}

	return Identity{
		UserID:        u.ID,
		Email:         u.Email,
		Role:          u.Role,
		AccountStatus: u.AccountStatus,
		ShelterID:     u.ShelterID,
	}, nil
}
