package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-adoption-service/internal/domain/identity"
)

var (
	ErrNotFound = errors.New("not found")
)

type usersRepo struct {
	mu   sync.RWMutex
	byID map[string]identity.User
}

func NewUsersRepo() identity.Repository {
	return &usersRepo{
		byID: make(map[string]identity.User),
	}
}

func (r *usersRepo) Create(ctx context.Context, u identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id required")
	}
	if _, exists := r.byID[u.ID]; exists {
		return errors.New("user already exists")
	}
	for _, existing := range r.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return errors.New("email already registered")
		}
	}
	r.byID[u.ID] = u
	return nil
}

func (r *usersRepo) Update(ctx context.Context, u identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[u.ID]; !exists {
		return ErrNotFound
	}
	r.byID[u.ID] = u
	return nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return identity.User{}, ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return identity.User{}, ErrNotFound
}

func (r *usersRepo) ListByStatus(ctx context.Context, st identity.AccountStatus) ([]identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]identity.User, 0)
	for _, u := range r.byID {
		if u.AccountStatus == st {
			out = append(out, u)
		}
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
