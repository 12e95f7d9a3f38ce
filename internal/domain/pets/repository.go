package pets

import (
	"context"
	"time"
)

type ListFilter struct {
	ShelterID      string
	AdoptionStatus AdoptionStatus
}

type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	List(ctx context.Context, f ListFilter) ([]Pet, error)
	SetAdoptionStatus(ctx context.Context, id string, st AdoptionStatus, at time.Time) error
}
