package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	types "github.com/Apurer/pawhaven-api/internal/domains/pets/application/types"
	"github.com/Apurer/pawhaven-api/internal/domains/pets/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/pets/ports"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
)

var listSort = pagination.SortSpec{
	Allowed: map[string]string{
		"createdAt": "created_at",
		"name":      "name",
		"age":       "age",
	},
	DefaultField: "createdAt",
	DefaultDesc:  true,
}

// Service orchestrates the pets catalog use cases.
type Service struct {
	repo  ports.Repository
	newID func() string
}

// NewService wires the pets service with its dependencies.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo, newID: uuid.NewString}
}

// AddPet persists a new, available pet.
func (s *Service) AddPet(ctx context.Context, input types.AddPetInput) (*types.PetProjection, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = s.newID()
	}
	pet, err := domain.NewPet(id, input.Profile)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, pet)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdatePet replaces the editable profile. Adoption state is left to the adoption lifecycle.
func (s *Service) UpdatePet(ctx context.Context, input types.UpdatePetInput) (*types.PetProjection, error) {
	current, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := current.Entity.ApplyProfile(input.Profile); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, current.Entity)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetByID loads a single pet.
func (s *Service) GetByID(ctx context.Context, input types.PetIdentifier) (*types.PetProjection, error) {
	projection, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return projection, nil
}

// List returns one page of the catalog.
func (s *Service) List(ctx context.Context, input types.ListPetsInput) (*types.PetPage, error) {
	filter := ports.ListFilter{Adopted: input.Adopted}
	if raw := strings.TrimSpace(input.Category); raw != "" {
		category := domain.Category(raw)
		if !domain.IsValidCategory(category) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidCategory)
		}
		filter.Category = &category
	}
	params := pagination.Normalize(pagination.Request{
		Page:      input.Page,
		Limit:     input.Limit,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
	}, listSort)
	items, total, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, mapError(err)
	}
	return &types.PetPage{Items: items, Meta: pagination.NewMeta(params, total)}, nil
}

// Delete removes a pet.
func (s *Service) Delete(ctx context.Context, input types.PetIdentifier) error {
	if err := s.repo.Delete(ctx, input.ID); err != nil {
		return mapError(err)
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
