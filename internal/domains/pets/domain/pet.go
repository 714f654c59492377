package domain

import (
	"errors"
	"strings"
)

// Category groups pets in the catalog.
type Category string

const (
	CategoryDog         Category = "Dog"
	CategoryCat         Category = "Cat"
	CategoryBird        Category = "Bird"
	CategoryFish        Category = "Fish"
	CategorySmallAnimal Category = "SmallAnimal"
	CategoryOther       Category = "Other"
)

// Gender of the animal.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Size is a coarse size bucket.
type Size string

const (
	SizeSmall  Size = "Small"
	SizeMedium Size = "Medium"
	SizeLarge  Size = "Large"
)

// HealthStatus is the veterinary status shown to adopters.
type HealthStatus string

const (
	HealthHealthy               HealthStatus = "Healthy"
	HealthVaccinated            HealthStatus = "Vaccinated"
	HealthNeedsMedicalAttention HealthStatus = "NeedsMedicalAttention"
)

var (
	ErrEmptyID          = errors.New("pet id is required")
	ErrEmptyName        = errors.New("pet name is required")
	ErrInvalidCategory  = errors.New("pet category is invalid")
	ErrInvalidGender    = errors.New("pet gender is invalid")
	ErrInvalidSize      = errors.New("pet size is invalid")
	ErrInvalidHealth    = errors.New("pet health status is invalid")
	ErrNegativeAge      = errors.New("pet age must be zero or greater")
	ErrEmptyBreed       = errors.New("pet breed is required")
	ErrEmptyDescription = errors.New("pet description is required")
)

// Pet is an animal listed for adoption. IsAdopted is owned by the adoption lifecycle.
type Pet struct {
	ID           string
	Name         string
	Category     Category
	Breed        string
	Age          int
	Gender       Gender
	Size         Size
	Description  string
	ImageURL     string
	HealthStatus HealthStatus
	IsAdopted    bool
}

// Profile holds the admin editable attributes of a pet.
type Profile struct {
	Name         string
	Category     Category
	Breed        string
	Age          int
	Gender       Gender
	Size         Size
	Description  string
	ImageURL     string
	HealthStatus HealthStatus
}

// NewPet builds an available pet from a validated profile.
func NewPet(id string, profile Profile) (*Pet, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyID
	}
	p := &Pet{ID: id}
	if err := p.ApplyProfile(profile); err != nil {
		return nil, err
	}
	return p, nil
}

// ApplyProfile replaces the editable attributes, leaving IsAdopted untouched.
func (p *Pet) ApplyProfile(profile Profile) error {
	profile.Name = strings.TrimSpace(profile.Name)
	profile.Breed = strings.TrimSpace(profile.Breed)
	profile.Description = strings.TrimSpace(profile.Description)
	if profile.HealthStatus == "" {
		profile.HealthStatus = HealthHealthy
	}
	if err := profile.validate(); err != nil {
		return err
	}
	p.Name = profile.Name
	p.Category = profile.Category
	p.Breed = profile.Breed
	p.Age = profile.Age
	p.Gender = profile.Gender
	p.Size = profile.Size
	p.Description = profile.Description
	p.ImageURL = strings.TrimSpace(profile.ImageURL)
	p.HealthStatus = profile.HealthStatus
	return nil
}

// Profile returns the editable attributes.
func (p *Pet) Profile() Profile {
	return Profile{
		Name:         p.Name,
		Category:     p.Category,
		Breed:        p.Breed,
		Age:          p.Age,
		Gender:       p.Gender,
		Size:         p.Size,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		HealthStatus: p.HealthStatus,
	}
}

// MarkAdopted sets the availability flag.
func (p *Pet) MarkAdopted(adopted bool) {
	p.IsAdopted = adopted
}

// Validate re-applies invariants, e.g. before persistence.
func (p *Pet) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyID
	}
	return p.Profile().validate()
}

func (pr Profile) validate() error {
	if pr.Name == "" {
		return ErrEmptyName
	}
	if pr.Breed == "" {
		return ErrEmptyBreed
	}
	if pr.Description == "" {
		return ErrEmptyDescription
	}
	if pr.Age < 0 {
		return ErrNegativeAge
	}
	if !IsValidCategory(pr.Category) {
		return ErrInvalidCategory
	}
	switch pr.Gender {
	case GenderMale, GenderFemale:
	default:
		return ErrInvalidGender
	}
	switch pr.Size {
	case SizeSmall, SizeMedium, SizeLarge:
	default:
		return ErrInvalidSize
	}
	switch pr.HealthStatus {
	case HealthHealthy, HealthVaccinated, HealthNeedsMedicalAttention:
	default:
		return ErrInvalidHealth
	}
	return nil
}

// IsValidCategory reports whether c is a known category.
func IsValidCategory(c Category) bool {
	switch c {
	case CategoryDog, CategoryCat, CategoryBird, CategoryFish, CategorySmallAnimal, CategoryOther:
		return true
	default:
		return false
	}
}
