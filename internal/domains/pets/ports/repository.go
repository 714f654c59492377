package ports

import (
	"context"
	"errors"

	"github.com/Apurer/pawhaven-api/internal/domains/pets/domain"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
	"github.com/Apurer/pawhaven-api/internal/shared/projection"
)

var ErrNotFound = errors.New("pet not found")

// ListFilter narrows catalog listings. Nil fields are ignored.
type ListFilter struct {
	Category *domain.Category
	Adopted  *bool
}

// Repository persists pets. GetForUpdate locks the row when called inside a transaction.
type Repository interface {
	Save(ctx context.Context, pet *domain.Pet) (*projection.Projection[*domain.Pet], error)
	GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Pet], error)
	GetForUpdate(ctx context.Context, id string) (*projection.Projection[*domain.Pet], error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]*projection.Projection[*domain.Pet], int64, error)
	SetAdopted(ctx context.Context, id string, adopted bool) error
	SetAdoptedBulk(ctx context.Context, ids []string, adopted bool) (int64, error)
	AdoptedIDs(ctx context.Context) ([]string, error)
}
