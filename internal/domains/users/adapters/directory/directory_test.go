package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adoptionports "github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
	"github.com/Apurer/pawhaven-api/internal/domains/users/adapters/memory"
	"github.com/Apurer/pawhaven-api/internal/domains/users/domain"
)

func TestApplicants_Lookup(t *testing.T) {
	repo := memory.NewRepository()
	user, err := domain.NewUser("u-1", "Asha", "asha@example.com", "", domain.RoleUser)
	require.NoError(t, err)
	_, err = repo.Save(context.Background(), user)
	require.NoError(t, err)

	dir := NewApplicants(repo)
	recipient, err := dir.Lookup(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", recipient.Email)
	assert.Equal(t, "Asha", recipient.Name)

	_, err = dir.Lookup(context.Background(), "ghost")
	assert.ErrorIs(t, err, adoptionports.ErrApplicantNotFound)
}
