package ports

import (
	"context"

	pettypes "github.com/Apurer/pawhaven-api/internal/domains/pets/application/types"
)

// Service defines the pets use cases exposed to adapters (inbound/driving port).
type Service interface {
	AddPet(ctx context.Context, input pettypes.AddPetInput) (*pettypes.PetProjection, error)
	UpdatePet(ctx context.Context, input pettypes.UpdatePetInput) (*pettypes.PetProjection, error)
	GetByID(ctx context.Context, input pettypes.PetIdentifier) (*pettypes.PetProjection, error)
	List(ctx context.Context, input pettypes.ListPetsInput) (*pettypes.PetPage, error)
	Delete(ctx context.Context, input pettypes.PetIdentifier) error
}
