package ports

import (
	"context"

	usertypes "github.com/Apurer/pawhaven-api/internal/domains/users/application/types"
)

// Service exposes user bounded context use cases to adapters.
type Service interface {
	GetProfile(ctx context.Context, userID string) (*usertypes.UserProjection, error)
	UpsertProfile(ctx context.Context, input usertypes.UpsertProfileInput) (*usertypes.ProfileResult, error)
}
