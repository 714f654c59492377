package mapper

import (
	"time"

	petstypes "github.com/Apurer/pawhaven-api/internal/domains/pets/application/types"
	"github.com/Apurer/pawhaven-api/internal/domains/pets/domain"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
)

// PetPayload is the admin create/update body. isAdopted is deliberately absent.
type PetPayload struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Breed        string `json:"breed"`
	Age          int    `json:"age"`
	Gender       string `json:"gender"`
	Size         string `json:"size"`
	Description  string `json:"description"`
	Image        string `json:"image,omitempty"`
	HealthStatus string `json:"healthStatus,omitempty"`
}

// Pet is the HTTP representation of a catalog entry.
type Pet struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Breed        string    `json:"breed"`
	Age          int       `json:"age"`
	Gender       string    `json:"gender"`
	Size         string    `json:"size"`
	Description  string    `json:"description"`
	Image        string    `json:"image,omitempty"`
	HealthStatus string    `json:"healthStatus"`
	IsAdopted    bool      `json:"isAdopted"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// PetList is the paginated listing envelope.
type PetList struct {
	Pets       []Pet           `json:"pets"`
	Pagination pagination.Meta `json:"pagination"`
}

// ToProfile converts the payload into the domain's editable attributes.
func ToProfile(p PetPayload) domain.Profile {
	return domain.Profile{
		Name:         p.Name,
		Category:     domain.Category(p.Category),
		Breed:        p.Breed,
		Age:          p.Age,
		Gender:       domain.Gender(p.Gender),
		Size:         domain.Size(p.Size),
		Description:  p.Description,
		ImageURL:     p.Image,
		HealthStatus: domain.HealthStatus(p.HealthStatus),
	}
}

// FromDomainPet maps a domain aggregate into a transport Pet.
func FromDomainPet(p *domain.Pet) Pet {
	if p == nil {
		return Pet{}
	}
	return Pet{
		ID:           p.ID,
		Name:         p.Name,
		Category:     string(p.Category),
		Breed:        p.Breed,
		Age:          p.Age,
		Gender:       string(p.Gender),
		Size:         string(p.Size),
		Description:  p.Description,
		Image:        p.ImageURL,
		HealthStatus: string(p.HealthStatus),
		IsAdopted:    p.IsAdopted,
	}
}

// FromProjection maps a projection into a transport pet enriched with metadata.
func FromProjection(projection *petstypes.PetProjection) Pet {
	pet := FromDomainPet(projection.Entity)
	pet.CreatedAt = projection.Metadata.CreatedAt
	pet.UpdatedAt = projection.Metadata.UpdatedAt
	return pet
}

// FromPage maps a catalog page into the listing envelope.
func FromPage(page *petstypes.PetPage) PetList {
	pets := make([]Pet, 0, len(page.Items))
	for _, projection := range page.Items {
		pets = append(pets, FromProjection(projection))
	}
	return PetList{Pets: pets, Pagination: page.Meta}
}
