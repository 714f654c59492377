package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validProfile() Profile {
	return Profile{
		Name:        "Bruno",
		Category:    CategoryDog,
		Breed:       "Indie",
		Age:         2,
		Gender:      GenderMale,
		Size:        SizeMedium,
		Description: "Friendly and house trained",
	}
}

func TestNewPet_DefaultsHealth(t *testing.T) {
	pet, err := NewPet("p-1", validProfile())
	require.NoError(t, err)
	require.Equal(t, HealthHealthy, pet.HealthStatus)
	require.False(t, pet.IsAdopted)
}

func TestNewPet_RejectsInvalidEnums(t *testing.T) {
	profile := validProfile()
	profile.Category = "Dragon"
	_, err := NewPet("p-1", profile)
	require.ErrorIs(t, err, ErrInvalidCategory)

	profile = validProfile()
	profile.Size = "Huge"
	_, err = NewPet("p-1", profile)
	require.ErrorIs(t, err, ErrInvalidSize)

	profile = validProfile()
	profile.Age = -1
	_, err = NewPet("p-1", profile)
	require.ErrorIs(t, err, ErrNegativeAge)
}

func TestApplyProfile_KeepsAdoptionFlag(t *testing.T) {
	pet, err := NewPet("p-1", validProfile())
	require.NoError(t, err)
	pet.MarkAdopted(true)

	profile := validProfile()
	profile.Name = "Bruno II"
	require.NoError(t, pet.ApplyProfile(profile))
	require.True(t, pet.IsAdopted)
	require.Equal(t, "Bruno II", pet.Name)
}
