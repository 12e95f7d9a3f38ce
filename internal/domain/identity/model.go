package identity

import (
	"strings"
	"time"
)

// Role define los roles soportados. Es inmutable luego de crear el usuario.
// @Enum admin, shelter_staff, adopter
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleShelterStaff Role = "shelter_staff"
	RoleAdopter      Role = "adopter"
)

// ParseRole valida un rol textual (claims, requests).
func ParseRole(s string) (Role, bool) {
	switch Role(strings.TrimSpace(s)) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleShelterStaff:
		return RoleShelterStaff, true
	case RoleAdopter:
		return RoleAdopter, true
	default:
		return "", false
	}
}

// AccountStatus gatea el login, no la lógica de autorización.
// @Enum pending, active, rejected, suspended
type AccountStatus string

const (
	AccountPending   AccountStatus = "pending"
	AccountActive    AccountStatus = "active"
	AccountRejected  AccountStatus = "rejected"
	AccountSuspended AccountStatus = "suspended"
)

func ParseAccountStatus(s string) (AccountStatus, bool) {
	switch AccountStatus(strings.TrimSpace(s)) {
	case AccountPending:
		return AccountPending, true
	case AccountActive:
		return AccountActive, true
	case AccountRejected:
		return AccountRejected, true
	case AccountSuspended:
		return AccountSuspended, true
	default:
		return "", false
	}
}

// User representa una cuenta del sistema.
// El hash de password vive en el IAM externo, no acá.
type User struct {
	ID    string
	Email string
	Role  Role

	AccountStatus AccountStatus

	// ShelterID solo tiene sentido para shelter_staff.
	// Vacío => ninguna capability con scope de refugio.
	ShelterID string

	FirstName string
	LastName  string
	Phone     string
	Address   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// Identity es el actor resuelto para un request: se arma una sola vez
// en el borde y se pasa explícito a cada operación.
type Identity struct {
	UserID        string
	Email         string
	Role          Role
	AccountStatus AccountStatus
	ShelterID     string
}
