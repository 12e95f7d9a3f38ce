package pets

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
	r.Route("/pets", func(pr chi.Router) {
		// Alta de mascota: admin o staff del refugio destino.
		pr.Post("/", createPetHandler(svc, resolver, guard))

		// Listado con visibilidad por rol.
		pr.Get("/", listPetsHandler(svc, resolver, guard))

		pr.Get("/{petID}", getPetHandler(svc, resolver, guard))
	})

	// Mascotas de un refugio (admin o staff de ese refugio).
	r.Get("/shelters/{shelterID}/pets", listShelterPetsHandler(svc, resolver, guard))
}

type createPetRequest struct {
	ShelterID string `json:"shelter_id"`
	Name      string `json:"name"`
	Species   string `json:"species"`
	Breed     string `json:"breed"`
	Sex       string `json:"sex"`
	AgeYears  int    `json:"age_years"`
	Notes     string `json:"notes"`
}

type petResponse struct {
	ID             string    `json:"id"`
	ShelterID      string    `json:"shelter_id"`
	Name           string    `json:"name"`
	Species        string    `json:"species"`
	Breed          string    `json:"breed"`
	Sex            string    `json:"sex"`
	AgeYears       int       `json:"age_years"`
	AdoptionStatus string    `json:"adoption_status"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type petListResponse struct {
	Pets  []petResponse `json:"pets"`
	Count int           `json:"count"`
}

func createPetHandler(svc *Service, resolver *identity.Resolver, guard *authz.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := resolveIdentity(w, r, resolver)
		if !ok {
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := guard.Require(r.Context(), ident, authz.Resource(
			authz.ResourceShelter, req.ShelterID,
			identity.RoleAdmin, identity.RoleShelterStaff,
		)); err != nil {
			writeGuardError(w, err)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			ShelterID: req.ShelterID,
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			Sex:       req.Sex,
			AgeYears:  req.AgeYears,
			Notes:     req.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func listPetsHandler(svc *Service, resolver *identity.Resolver, guard *authz.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := resolveIdentity(w, r, resolver)
		if !ok {
			return
		}

		if err := guard.Require(r.Context(), ident, authz.Roles(
			identity.RoleAdmin, identity.RoleShelterStaff, identity.RoleAdopter,
		)); err != nil {
			writeGuardError(w, err)
			return
		}

		items, err := svc.ListForIdentity(r.Context(), ident)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toPetListResponse(items))
	}
}

func getPetHandler(svc *Service, resolver *identity.Resolver, guard *authz.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := resolveIdentity(w, r, resolver)
		if !ok {
			return
		}

		if err := guard.Require(r.Context(), ident, authz.Roles(
			identity.RoleAdmin, identity.RoleShelterStaff, identity.RoleAdopter,
		)); err != nil {
			writeGuardError(w, err)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func listShelterPetsHandler(svc *Service, resolver *identity.Resolver, guard *authz.Guard) http.HandlerFunc {
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

		items, err := svc.ListByShelter(r.Context(), shelterID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toPetListResponse(items))
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:             p.ID,
		ShelterID:      p.ShelterID,
		Name:           p.Name,
		Species:        p.Species,
		Breed:          p.Breed,
		Sex:            p.Sex,
		AgeYears:       p.AgeYears,
		AdoptionStatus: string(p.AdoptionStatus),
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toPetListResponse(items []Pet) petListResponse {
	out := make([]petResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPetResponse(p))
	}
	return petListResponse{Pets: out, Count: len(out)}
}

// resolveIdentity y writeJSON están duplicados intencionalmente en los handlers
// de distintos módulos para evitar crear helpers compartidos demasiado pronto.

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
