package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/EdersonPinheiro/desafio-flugo/internal/domain"
)

// memoryUserRepository keeps accounts in process memory. It backs the
// in-memory document store mode where no Postgres pool exists. Misses
// return pgx.ErrNoRows so callers treat both backends alike.
type memoryUserRepository struct {
	mu   sync.RWMutex
	byID map[string]domain.User
}

// NewMemoryUserRepository builds an empty in-memory account store.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{byID: make(map[string]domain.User)}
}

func (r *memoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// mirrors the users table unique email constraint
	for _, existing := range r.byID {
		if existing.Email == user.Email {
			return fmt.Errorf("user email %q already exists", user.Email)
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byID[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *memoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.byID {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}
