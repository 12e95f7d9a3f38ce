package shelters

import (
	"context"
	"strings"
)

// ManagedBy responde si el refugio tiene a userID como manager.
// Refugio inexistente => false, no error (no filtrar existencia).
func (s *Service) ManagedBy(ctx context.Context, userID, shelterID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, nil
	}
	sh, err := s.repo.GetByID(ctx, strings.TrimSpace(shelterID))
	if err != nil {
		return false, nil
	}
	return sh.ManagerUserID == userID, nil
}
