package types

import "github.com/Apurer/pawhaven-api/internal/domains/pets/domain"

// PetIdentifier addresses a single pet.
type PetIdentifier struct {
	ID string
}

// AddPetInput creates a catalog entry. ID is optional and generated when empty.
type AddPetInput struct {
	ID      string
	Profile domain.Profile
}

// UpdatePetInput replaces the editable profile of an existing pet.
type UpdatePetInput struct {
	ID      string
	Profile domain.Profile
}

// ListPetsInput carries catalog filters and paging.
type ListPetsInput struct {
	Category  string
	Adopted   *bool
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}
