package shelters

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pet-adoption-service/internal/domain/authz"
	"pet-adoption-service/internal/domain/identity"
	"pet-adoption-service/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, resolver *identity.Resolver, guard *authz.Guard) {
	r.Route("/shelters", func(sr chi.Router) {
		sr.Get("/", listSheltersHandler(svc, resolver, guard))
		sr.Post("/", createShelterHandler(svc, resolver, guard))

		sr.Get("/{shelterID}", getShelterHandler(svc, resolver, guard))

		// Asignación de manager: solo admin; 409 si ya hay otro manager.
		sr.Post("/{shelterID}/manager", assignManagerHandler(svc, resolver, guard))
	})
}

type createShelterRequest struct {
	Name          string `json:"name"`
	Location      string `json:"location"`
	ContactPerson string `json:"contact_person"`
}

type assignManagerRequest struct {
	UserID string `json:"user_id"`
}

type shelterResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Location      string    `json:"location"`
	ContactPerson string    `json:"contact_person"`
	ManagerUserID string    `json:"manager_user_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func listSheltersHandler(svc *Service, resolver *identity.Resolver, guard *authz.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := resolveIdentity(w, r, resolver)
		if !ok {
			return
		}

		if err := guard.Require(r.Context(), ident, authz.Roles(identity.RoleAdmin)); err != nil {
			writeGuardError(w, err)
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]shelterResponse, 0, len(items))
		for _, sh := range items {
			out = append(out, toShelterResponse(sh))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func createShelterHandler(svc *Service, resolver *identity.Resolver, guard *authz.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := resolveIdentity(w, r, resolver)
		if !ok {
			return
		}

		if err := guard.Require(r.Context(), ident, authz.Roles(identity.RoleAdmin)); err != nil {
			writeGuardError(w, err)
			return
		}

		var req createShelterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sh, err := svc.Create(r.Context(), CreateInput{
			Name:          req.Name,
			Location:      req.Location,
			ContactPerson: req.ContactPerson,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toShelterResponse(sh))
	}
}

func getShelterHandler(svc *Service, resolver *identity.Resolver, guard *authz.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := resolveIdentity(w, r, resolver)
		if !ok {
			return
		}

		shelterID := chi.URLParam(r, "shelterID")
		if err := guard.Require(r.Context(), ident, authz.Resource(
			authz.ResourceShelter, shelterID,
			identity.RoleAdmin, identity.RoleShelterStaff,
		)); err != nil {
			writeGuardError(w, err)
			return
		}

		sh, err := svc.GetByID(r.Context(), shelterID)
		if err != nil {
			http.Error(w, "shelter not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toShelterResponse(sh))
	}
}

func assignManagerHandler(svc *Service, resolver *identity.Resolver, guard *authz.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := resolveIdentity(w, r, resolver)
		if !ok {
			return
		}

		if err := guard.Require(r.Context(), ident, authz.Roles(identity.RoleAdmin)); err != nil {
			writeGuardError(w, err)
			return
		}

		var req assignManagerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sh, err := svc.AssignManager(r.Context(), chi.URLParam(r, "shelterID"), req.UserID)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "shelter not found", http.StatusNotFound)
			case errors.Is(err, ErrManagerAssigned):
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toShelterResponse(sh))
	}
}

func toShelterResponse(sh Shelter) shelterResponse {
	return shelterResponse{
		ID:            sh.ID,
		Name:          sh.Name,
		Location:      sh.Location,
		ContactPerson: sh.ContactPerson,
		ManagerUserID: sh.ManagerUserID,
		CreatedAt:     sh.CreatedAt,
		UpdatedAt:     sh.UpdatedAt,
	}
}

// resolveIdentity y writeJSON duplicados a propósito (ver nota en pets/handler.go).

func resolveIdentity(w http.ResponseWriter, r *http.Request, resolver *identity.Resolver) (identity.Identity, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return identity.Identity{}, false
	}
	ident, err := resolver.Resolve(r.Context(), claims)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return identity.Identity{}, false
	}
	return ident, true
}

func writeGuardError(w http.ResponseWriter, err error) {
	if errors.Is(err, authz.ErrUnauthenticated) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	http.Error(w, "forbidden", http.StatusForbidden)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
