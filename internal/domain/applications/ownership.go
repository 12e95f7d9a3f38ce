package applications

import (
	"context"
	"strings"
)

// Predicados de ownership que consume el guard. Solicitud (o mascota)
// inexistente => false, no error: negar sin filtrar existencia.

// OwnedByShelter responde si la mascota de la solicitud pertenece al
// refugio del actor.
func (s *Service) OwnedByShelter(ctx context.Context, shelterID, applicationID string) (bool, error) {
	shelterID = strings.TrimSpace(shelterID)
	if shelterID == "" {
		return false, nil
	}

	a, err := s.repo.GetByID(ctx, strings.TrimSpace(applicationID))
	if err != nil {
		return false, nil
	}

	petShelter, err := s.pets.ShelterOf(ctx, a.PetID)
	if err != nil {
		return false, nil
	}
	return petShelter == shelterID, nil
}

// OwnedByApplicant responde si la solicitud fue creada por userID.
func (s *Service) OwnedByApplicant(ctx context.Context, userID, applicationID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, nil
	}

	a, err := s.repo.GetByID(ctx, strings.TrimSpace(applicationID))
	if err != nil {
		return false, nil
	}
	return a.UserID == userID, nil
}
