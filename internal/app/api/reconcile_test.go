package api

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	petsdomain "github.com/Apurer/pawhaven-api/internal/domains/pets/domain"
)

func TestReconcileRepairsFlagsInMemory(t *testing.T) {
	ctx := context.Background()
	repos := memoryRepositories()

	pet, err := petsdomain.NewPet("pet-1", petsdomain.Profile{
		Name: "Bruno", Category: petsdomain.CategoryDog, Breed: "Beagle", Age: 2,
		Gender: petsdomain.GenderMale, Size: petsdomain.SizeMedium, Description: "Friendly",
	})
	require.NoError(t, err)
	pet.MarkAdopted(true)
	_, err = repos.Pets.Save(ctx, pet)
	require.NoError(t, err)

	report, err := Reconcile(ctx, repos, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Equal(t, []string{"pet-1"}, report.MarkedAvailable)

	stored, err := repos.Pets.GetByID(ctx, "pet-1")
	require.NoError(t, err)
	assert.False(t, stored.Entity.IsAdopted)
}
