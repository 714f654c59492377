package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/pawhaven-api/internal/domains/users/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/users/ports"
	"github.com/Apurer/pawhaven-api/internal/platform/postgres/pgtest"
)

func TestRepository_SaveAndGet(t *testing.T) {
	repo := NewRepository(pgtest.SQLite(t, Migrate))
	ctx := context.Background()

	user, err := domain.NewUser("u-1", "Asha", "asha@example.com", "", domain.RoleUser)
	require.NoError(t, err)
	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "Asha", saved.Entity.Name)
	assert.False(t, saved.Metadata.CreatedAt.IsZero())

	require.NoError(t, user.UpdateProfile("Asha Rao", "asha.rao@example.com", "9876543210"))
	user.Role = domain.RoleAdmin
	updated, err := repo.Save(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "asha.rao@example.com", updated.Entity.Email)
	assert.Equal(t, domain.RoleAdmin, updated.Entity.Role)

	_, err = repo.Get(ctx, "ghost")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_RejectsInvalid(t *testing.T) {
	repo := NewRepository(pgtest.SQLite(t, Migrate))
	_, err := repo.Save(context.Background(), &domain.User{ID: "u-1", Name: "A", Email: "bad", Role: domain.RoleUser})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}
