package identity

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pet-adoption-service/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// requireAdmin llega como closure armada en el router sobre el guard:
// identity no puede importar authz (authz ya importa identity).
func RegisterRoutes(r chi.Router, svc *Service, resolver *Resolver, requireAdmin func(Identity) error) {
	r.Route("/admin/users", func(ur chi.Router) {
		// Alta de cuentas (staff/adopter/admin); nacen pending.
		ur.Post("/", createUserHandler(svc, resolver, requireAdmin))

		// Cola de aprobación.
		ur.Get("/pending", listPendingUsersHandler(svc, resolver, requireAdmin))
		ur.Post("/{userID}/approve", decideAccountHandler(svc, resolver, requireAdmin, true))
		ur.Post("/{userID}/reject", decideAccountHandler(svc, resolver, requireAdmin, false))
	})
}

type createUserRequest struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	ShelterID string `json:"shelter_id"`
}

type userResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	AccountStatus string    `json:"account_status"`
	ShelterID     string    `json:"shelter_id,omitempty"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func createUserHandler(svc *Service, resolver *Resolver, requireAdmin func(Identity) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := resolveSelf(w, r, resolver)
		if !ok {
			return
		}
		if err := requireAdmin(ident); err != nil {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req createUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		u, err := svc.CreateUser(r.Context(), CreateUserInput{
			Email:     req.Email,
			Role:      req.Role,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
			Address:   req.Address,
			ShelterID: req.ShelterID,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

func listPendingUsersHandler(svc *Service, resolver *Resolver, requireAdmin func(Identity) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := resolveSelf(w, r, resolver)
		if !ok {
			return
		}
		if err := requireAdmin(ident); err != nil {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		items, err := svc.ListPending(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]userResponse, 0, len(items))
		for _, u := range items {
			out = append(out, toUserResponse(u))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func decideAccountHandler(svc *Service, resolver *Resolver, requireAdmin func(Identity) error, approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := resolveSelf(w, r, resolver)
		if !ok {
			return
		}
		if err := requireAdmin(ident); err != nil {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		userID := chi.URLParam(r, "userID")

		var u User
		var err error
		if approve {
			u, err = svc.ApproveAccount(r.Context(), userID)
		} else {
			u, err = svc.RejectAccount(r.Context(), userID)
		}
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "user not found", http.StatusNotFound)
			case errors.Is(err, ErrBadState):
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:            u.ID,
		Email:         u.Email,
		Role:          string(u.Role),
		AccountStatus: string(u.AccountStatus),
		ShelterID:     u.ShelterID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func resolveSelf(w http.ResponseWriter, r *http.Request, resolver *Resolver) (Identity, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return Identity{}, false
	}
	ident, err := resolver.Resolve(r.Context(), claims)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return Identity{}, false
	}
	return ident, true
}

// writeJSON duplicado a propósito (ver nota en pets/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
