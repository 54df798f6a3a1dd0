package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mygroup/apphub/internal/domain"
)

// MemoryUserRepository keeps accounts in process memory. Lookups that miss
// return pgx.ErrNoRows so callers handle it exactly like the Postgres
// implementation.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []*domain.User
	now   func() time.Time
}

// NewMemoryUserRepository returns an empty repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{now: time.Now}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Username, user.Username) {
			return ErrDuplicateUsername
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	ts := r.now().UTC()
	user.CreatedAt, user.UpdatedAt = ts, ts

	stored := *user
	r.users = append(r.users, &stored)
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *MemoryUserRepository) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if offset >= len(r.users) {
		return nil, nil
	}
	end := len(r.users)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]domain.User, 0, end-offset)
	for _, u := range r.users[offset:end] {
		out = append(out, *u)
	}
	return out, nil
}
