package applications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-adoption-service/internal/domain/authz"
	"pet-adoption-service/internal/domain/identity"
	"pet-adoption-service/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, resolver *identity.Resolver, guard *authz.Guard) {
	r.Route("/applications", func(ar chi.Router) {
		// Alta: solo adopters. La solicitud nace pending.
		ar.Post("/", createApplicationHandler(svc, resolver, guard))

		// Cola de revisión: admin ve todo, staff su refugio. ?status= filtra.
		ar.Get("/", listApplicationsHandler(svc, resolver, guard))

		ar.Get("/{applicationID}", getApplicationHandler(svc, resolver, guard))

		// Decisión: approve/reject con scope sobre la solicitud.
		ar.Post("/{applicationID}/review", reviewApplicationHandler(svc, resolver, guard))
	})

	// Historial del adopter autenticado.
	r.Get("/me/applications", listMyApplicationsHandler(svc, resolver, guard))
}

type createApplicationRequest struct {
	PetID              string `json:"pet_id"`
	ApplicantName      string `json:"applicant_name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	ReasonForAdoption  string `json:"reason_for_adoption"`
	ExperienceWithPets string `json:"experience_with_pets"`
	LivingSituation    string `json:"living_situation"`
}

type reviewApplicationRequest struct {
	Status      string `json:"status"`
	ReviewNotes string `json:"review_notes"`
}

type applicationResponse struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	PetID              string     `json:"pet_id"`
	ApplicantName      string     `json:"applicant_name"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	Address            string     `json:"address"`
	ReasonForAdoption  string     `json:"reason_for_adoption"`
	ExperienceWithPets string     `json:"experience_with_pets"`
	LivingSituation    string     `json:"living_situation"`
	Status             string     `json:"status"`
	ReviewerID         string     `json:"reviewer_id,omitempty"`
	ReviewNotes        string     `json:"review_notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	ReviewedAt         *time.Time `json:"reviewed_at,omitempty"`
}

type applicationListResponse struct {
	Applications []applicationResponse `json:"applications"`
	Count        int                   `json:"count"`
}

type reviewResponse struct {
	Application applicationResponse `json:"application"`
	EmailSent   bool                `json:"email_sent"`
	SMSSent     bool                `json:"sms_sent"`
}

func createApplicationHandler(svc *Service, resolver *identity.Resolver, guard *authz.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := resolveIdentity(w, r, resolver)
		if !ok {
			return
		}

		if err := guard.Require(r.Context(), ident, authz.Roles(identity.RoleAdopter)); err != nil {
			writeGuardError(w, err)
			return
		}

		var req createApplicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), ident, CreateInput{
			PetID:              req.PetID,
			ApplicantName:      req.ApplicantName,
			Email:              req.Email,
			Phone:              req.Phone,
			Address:            req.Address,
			ReasonForAdoption:  req.ReasonForAdoption,
			ExperienceWithPets: req.ExperienceWithPets,
			LivingSituation:    req.LivingSituation,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "pet not found", http.StatusNotFound)
			case errors.Is(err, ErrPetUnavailable):
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toApplicationResponse(a))
	}
}

func listApplicationsHandler(svc *Service, resolver *identity.Resolver, guard *authz.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := resolveIdentity(w, r, resolver)
		if !ok {
			return
		}

		if err := guard.Require(r.Context(), ident, authz.Roles(
			identity.RoleAdmin, identity.RoleShelterStaff,
		)); err != nil {
			writeGuardError(w, err)
			return
		}

		f := ListFilter{}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			switch Status(raw) {
			case StatusPending, StatusApproved, StatusRejected:
				f.Status = Status(raw)
			default:
				http.Error(w, "invalid status filter", http.StatusBadRequest)
				return
			}
		}

		// El scope sale de la identidad ya resuelta: staff queda acotado
		// a su refugio; staff sin refugio no tiene scope posible.
		if ident.Role == identity.RoleShelterStaff {
			if strings.TrimSpace(ident.ShelterID) == "" {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			f.ShelterID = ident.ShelterID
		}

		items, err := svc.List(r.Context(), f)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toApplicationListResponse(items))
	}
}

func listMyApplicationsHandler(svc *Service, resolver *identity.Resolver, guard *authz.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := resolveIdentity(w, r, resolver)
		if !ok {
			return
		}

		if err := guard.Require(r.Context(), ident, authz.Roles(identity.RoleAdopter)); err != nil {
			writeGuardError(w, err)
			return
		}

		items, err := svc.List(r.Context(), ListFilter{UserID: ident.UserID})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toApplicationListResponse(items))
	}
}

func getApplicationHandler(svc *Service, resolver *identity.Resolver, guard *authz.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := resolveIdentity(w, r, resolver)
		if !ok {
			return
		}

		applicationID := chi.URLParam(r, "applicationID")

		// Adopter puede leer su propia solicitud, pero no decidirla.
		if err := guard.Require(r.Context(), ident, authz.Resource(
			authz.ResourceApplication, applicationID,
			identity.RoleAdmin, identity.RoleShelterStaff, identity.RoleAdopter,
		)); err != nil {
			writeGuardError(w, err)
			return
		}

		a, err := svc.GetByID(r.Context(), applicationID)
		if err != nil {
			http.Error(w, "application not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toApplicationResponse(a))
	}
}

func reviewApplicationHandler(svc *Service, resolver *identity.Resolver, guard *authz.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := resolveIdentity(w, r, resolver)
		if !ok {
			return
		}

		applicationID := chi.URLParam(r, "applicationID")

		// Capability con scope ANTES de cualquier mutación.
		if err := guard.Require(r.Context(), ident, authz.Resource(
			authz.ResourceApplication, applicationID,
			identity.RoleAdmin, identity.RoleShelterStaff,
		)); err != nil {
			writeGuardError(w, err)
			return
		}

		var req reviewApplicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		newStatus, ok := ParseReviewStatus(req.Status)
		if !ok {
			http.Error(w, "status must be approved or rejected", http.StatusBadRequest)
			return
		}

		res, err := svc.Review(r.Context(), applicationID, ident.UserID, newStatus, req.ReviewNotes)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "application not found", http.StatusNotFound)
			case errors.Is(err, ErrAlreadyReviewed):
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, reviewResponse{
			Application: toApplicationResponse(res.Application),
			EmailSent:   res.EmailSent,
			SMSSent:     res.SMSSent,
		})
	}
}

func toApplicationResponse(a Application) applicationResponse {
	return applicationResponse{
		ID:                 a.ID,
		UserID:             a.UserID,
		PetID:              a.PetID,
		ApplicantName:      a.ApplicantName,
		Email:              a.Email,
		Phone:              a.Phone,
		Address:            a.Address,
		ReasonForAdoption:  a.ReasonForAdoption,
		ExperienceWithPets: a.ExperienceWithPets,
		LivingSituation:    a.LivingSituation,
		Status:             string(a.Status),
		ReviewerID:         a.ReviewerID,
		ReviewNotes:        a.ReviewNotes,
		CreatedAt:          a.CreatedAt,
		ReviewedAt:         a.ReviewedAt,
	}
}

func toApplicationListResponse(items []Application) applicationListResponse {
	out := make([]applicationResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toApplicationResponse(a))
	}
	return applicationListResponse{Applications: out, Count: len(out)}
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
