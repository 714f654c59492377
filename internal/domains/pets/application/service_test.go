package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	petmemory "github.com/Apurer/pawhaven-api/internal/domains/pets/adapters/memory"
	pettypes "github.com/Apurer/pawhaven-api/internal/domains/pets/application/types"
	"github.com/Apurer/pawhaven-api/internal/domains/pets/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/pets/ports"
)

func profile(name string, category domain.Category) domain.Profile {
	return domain.Profile{
		Name:        name,
		Category:    category,
		Breed:       "Indie",
		Age:         2,
		Gender:      domain.GenderMale,
		Size:        domain.SizeMedium,
		Description: "Loves long walks",
	}
}

func TestAddPet_GeneratesID(t *testing.T) {
	svc := NewService(petmemory.NewRepository())

	proj, err := svc.AddPet(context.Background(), pettypes.AddPetInput{Profile: profile("Rex", domain.CategoryDog)})
	require.NoError(t, err)
	require.NotEmpty(t, proj.Entity.ID)
	require.False(t, proj.Entity.IsAdopted)
	require.False(t, proj.Metadata.CreatedAt.IsZero())
}

func TestAddPet_InvalidInput(t *testing.T) {
	svc := NewService(petmemory.NewRepository())

	_, err := svc.AddPet(context.Background(), pettypes.AddPetInput{Profile: profile("", domain.CategoryDog)})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestUpdatePet_KeepsAdoptionFlag(t *testing.T) {
	repo := petmemory.NewRepository()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.AddPet(ctx, pettypes.AddPetInput{ID: "p-1", Profile: profile("Rex", domain.CategoryDog)})
	require.NoError(t, err)
	require.NoError(t, repo.SetAdopted(ctx, created.Entity.ID, true))

	updated, err := svc.UpdatePet(ctx, pettypes.UpdatePetInput{ID: "p-1", Profile: profile("Rexy", domain.CategoryDog)})
	require.NoError(t, err)
	require.Equal(t, "Rexy", updated.Entity.Name)
	require.True(t, updated.Entity.IsAdopted)
}

func TestUpdatePet_NotFound(t *testing.T) {
	svc := NewService(petmemory.NewRepository())

	_, err := svc.UpdatePet(context.Background(), pettypes.UpdatePetInput{ID: "missing", Profile: profile("Rex", domain.CategoryDog)})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestList_FiltersByCategory(t *testing.T) {
	svc := NewService(petmemory.NewRepository())
	ctx := context.Background()
	for _, p := range []domain.Profile{profile("Rex", domain.CategoryDog), profile("Tom", domain.CategoryCat), profile("Ace", domain.CategoryDog)} {
		_, err := svc.AddPet(ctx, pettypes.AddPetInput{Profile: p})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, pettypes.ListPetsInput{Category: "Dog", SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.Equal(t, "Ace", page.Items[0].Entity.Name)
	require.Equal(t, int64(2), page.Meta.TotalItems)
	require.Equal(t, 1, page.Meta.TotalPages)

	_, err = svc.List(ctx, pettypes.ListPetsInput{Category: "Dragon"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDelete(t *testing.T) {
	svc := NewService(petmemory.NewRepository())
	ctx := context.Background()

	created, err := svc.AddPet(ctx, pettypes.AddPetInput{Profile: profile("Rex", domain.CategoryDog)})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, pettypes.PetIdentifier{ID: created.Entity.ID}))
	_, err = svc.GetByID(ctx, pettypes.PetIdentifier{ID: created.Entity.ID})
	require.ErrorIs(t, err, ports.ErrNotFound)
}
