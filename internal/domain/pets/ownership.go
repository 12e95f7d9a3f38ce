package pets

import (
	"context"
	"strings"
)

// Predicados y lookups que consumen authz y applications vía interfaces
// chicas (evita ciclos de imports entre módulos de dominio).

// OwnedByShelter responde si la mascota pertenece al refugio del actor.
// Mascota inexistente => false, no error: negar acceso sin filtrar existencia.
func (s *Service) OwnedByShelter(ctx context.Context, shelterID, petID string) (bool, error) {
	shelterID = strings.TrimSpace(shelterID)
	if shelterID == "" {
		return false, nil
	}
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(petID))
	if err != nil {
		return false, nil
	}
	return p.ShelterID == shelterID, nil
}

// ShelterOf expone el refugio dueño de una mascota.
func (s *Service) ShelterOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.ShelterID, nil
}

// NameOf expone el nombre (para payloads de notificación).
func (s *Service) NameOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

// Available responde si la mascota existe y sigue sin adoptar.
func (s *Service) Available(ctx context.Context, petID string) (bool, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return false, err
	}
	return p.AdoptionStatus == StatusNotAdopted, nil
}
