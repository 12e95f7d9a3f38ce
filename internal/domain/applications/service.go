package applications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption-service/internal/domain/identity"
	"pet-adoption-service/internal/platform/logger"
	"pet-adoption-service/internal/ports/notify"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyReviewed = errors.New("application already reviewed")
	ErrPetUnavailable  = errors.New("pet not available for adoption")
)

// PetLookup evita importar el paquete pets (rompe ciclos).
type PetLookup interface {
	ShelterOf(ctx context.Context, petID string) (string, error)
	NameOf(ctx context.Context, petID string) (string, error)
	Available(ctx context.Context, petID string) (bool, error)
}

type Service struct {
	repo       Repository
	pets       PetLookup
	dispatcher notify.Dispatcher
	log        logger.Logger
	now        func() time.Time
}

func NewService(repo Repository, pets PetLookup, dispatcher notify.Dispatcher, log logger.Logger) *Service {
	if dispatcher == nil {
		dispatcher = notify.Discard{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:       repo,
		pets:       pets,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
	}
}

type CreateInput struct {
	PetID              string
	ApplicantName      string
	Email              string
	Phone              string
	Address            string
	ReasonForAdoption  string
	ExperienceWithPets string
	LivingSituation    string
}

// Create registra una solicitud en pending. No toca la mascota.
// El email del form debe coincidir con el de la identidad autenticada
// (evita aplicar en nombre de otra cuenta); vacío => default al de la
// identidad. Identidad sin email conocido => rechazo: sin referencia no
// hay chequeo posible y no se acepta un contacto sin verificar.
func (s *Service) Create(ctx context.Context, ident identity.Identity, in CreateInput) (Application, error) {
	petID := strings.TrimSpace(in.PetID)
	phone := strings.TrimSpace(in.Phone)
	address := strings.TrimSpace(in.Address)

	if petID == "" || phone == "" || address == "" {
		return Application{}, ErrInvalidInput
	}

	email := strings.TrimSpace(in.Email)
	identEmail := strings.TrimSpace(ident.Email)
	switch {
	case identEmail == "":
		return Application{}, ErrInvalidInput
	case email == "":
		email = identEmail
	case !strings.EqualFold(email, identEmail):
		return Application{}, ErrInvalidInput
	}

	available, err := s.pets.Available(ctx, petID)
	if err != nil {
		return Application{}, ErrNotFound
	}
	if !available {
		return Application{}, ErrPetUnavailable
	}

	a := Application{
		ID:                 uuid.NewString(),
		UserID:             ident.UserID,
		PetID:              petID,
		ApplicantName:      strings.TrimSpace(in.ApplicantName),
		Email:              email,
		Phone:              phone,
		Address:            address,
		ReasonForAdoption:  strings.TrimSpace(in.ReasonForAdoption),
		ExperienceWithPets: strings.TrimSpace(in.ExperienceWithPets),
		LivingSituation:    strings.TrimSpace(in.LivingSituation),
		Status:             StatusPending,
		CreatedAt:          s.now(),
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Application{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Application, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Application{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Application, error) {
	// El scope (refugio del staff, user del adopter) viene ya resuelto
	// por el caller con la identidad del request; acá no se re-deriva.
	return s.repo.List(ctx, f)
}

// ReviewResult agrega los flags informativos de notificación.
// Un dispatch fallido no invalida la revisión.
type ReviewResult struct {
	Application Application
	EmailSent   bool
	SMSSent     bool
}

// Review aplica la única transición del workflow: pending -> approved | rejected.
//
// La escritura condicional y el cascade de la mascota son una sola unidad
// en el repo; acá se valida input, se corta temprano sobre estados
// terminales y se despacha la notificación best-effort después del commit.
func (s *Service) Review(ctx context.Context, applicationID, reviewerID string, newStatus Status, notes string) (ReviewResult, error) {
	applicationID = strings.TrimSpace(applicationID)
	reviewerID = strings.TrimSpace(reviewerID)

	if applicationID == "" || reviewerID == "" {
		return ReviewResult{}, ErrInvalidInput
	}
	if !newStatus.Terminal() {
		return ReviewResult{}, ErrInvalidInput
	}

	current, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return ReviewResult{}, ErrNotFound
	}
	if current.Status.Terminal() {
		return ReviewResult{}, ErrAlreadyReviewed
	}

	updated, err := s.repo.Review(ctx, applicationID, ReviewRecord{
		Status:     newStatus,
		ReviewerID: reviewerID,
		Notes:      strings.TrimSpace(notes),
		ReviewedAt: s.now(),
	})
	if err != nil {
		return ReviewResult{}, err
	}

	res := ReviewResult{Application: updated}
	res.EmailSent, res.SMSSent = s.dispatchReviewed(ctx, updated, current.Status)
	return res, nil
}

func (s *Service) dispatchReviewed(ctx context.Context, a Application, oldStatus Status) (emailSent, smsSent bool) {
	petName, err := s.pets.NameOf(ctx, a.PetID)
	if err != nil {
		petName = ""
	}

	out, err := s.dispatcher.Notify(ctx, notify.Recipient{
		Name:  a.ApplicantName,
		Email: a.Email,
		Phone: a.Phone,
	}, notify.Payload{
		ApplicationID: a.ID,
		PetName:       petName,
		OldStatus:     string(oldStatus),
		NewStatus:     string(a.Status),
		Notes:         a.ReviewNotes,
	})
	if err != nil {
		// Best-effort: la revisión ya está persistida, solo se loguea.
		s.log.Warn("notification dispatch failed", map[string]any{
			"application_id": a.ID,
			"new_status":     string(a.Status),
			"error":          err.Error(),
		})
		return false, false
	}

	return out.EmailSent, out.SMSSent
}
