package ports

import (
	"context"
	"errors"

	"github.com/Apurer/pawhaven-api/internal/domains/users/domain"
	"github.com/Apurer/pawhaven-api/internal/shared/projection"
)

var ErrNotFound = errors.New("user not found")

// UserProjection is a user plus persistence metadata.
type UserProjection = projection.Projection[*domain.User]

type Repository interface {
	// Save inserts or replaces the user keyed by ID.
	Save(ctx context.Context, user *domain.User) (*UserProjection, error)
	Get(ctx context.Context, id string) (*UserProjection, error)
}
