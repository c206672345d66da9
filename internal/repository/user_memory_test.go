package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EdersonPinheiro/desafio-flugo/internal/domain"
)

func TestMemoryUserRepositoryRoundTrip(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user := &domain.User{
		Name:         "Ana",
		Email:        "ana@flugo.com",
		PasswordHash: "hash",
		Status:       domain.UserStatusActive,
	}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@flugo.com", byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "ana@flugo.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestMemoryUserRepositoryMissesMatchPostgres(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	_, err = repo.GetByEmail(ctx, "ghost@flugo.com")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMemoryUserRepositoryRejectsDuplicateEmail(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{Name: "Ana", Email: "ana@flugo.com"}))
	err := repo.Create(ctx, &domain.User{Name: "Other", Email: "ana@flugo.com"})
	assert.Error(t, err)
}
