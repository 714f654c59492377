package types

import (
	"github.com/Apurer/pawhaven-api/internal/domains/pets/domain"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
	"github.com/Apurer/pawhaven-api/internal/shared/projection"
)

// PetProjection transports a pet together with its persistence metadata.
type PetProjection = projection.Projection[*domain.Pet]

// PetPage is one page of a catalog listing.
type PetPage struct {
	Items []*PetProjection
	Meta  pagination.Meta
}

// CloneProjectionList duplicates a slice of projections.
func CloneProjectionList(sources []*PetProjection) []*PetProjection {
	if len(sources) == 0 {
		return nil
	}
	result := make([]*PetProjection, 0, len(sources))
	for _, src := range sources {
		if src == nil {
			continue
		}
		clone := *src
		if src.Entity != nil {
			pet := *src.Entity
			clone.Entity = &pet
		}
		result = append(result, &clone)
	}
	return result
}
