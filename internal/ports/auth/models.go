package auth

// Claims representa la información extraída del token.
// Role/ShelterID/AccountStatus pueden venir vacíos: el IAM puede emitir
// tokens mínimos (solo sub) y el resolver hace fallback a la base.
type Claims struct {
	UserID        string
	Email         string
	Role          string
	ShelterID     string
	AccountStatus string
}
