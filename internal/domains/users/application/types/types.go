package types

import (
	"github.com/Apurer/pawhaven-api/internal/domains/users/domain"
	"github.com/Apurer/pawhaven-api/internal/shared/projection"
)

type UserProjection = projection.Projection[*domain.User]

// UpsertProfileInput is a self-service profile write. UserID and Role come from the verified token.
type UpsertProfileInput struct {
	UserID string `json:"-" validate:"-"`
	Role   string `json:"-" validate:"-"`
	Name   string `json:"name" validate:"required,max=100"`
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone" validate:"omitempty,indian_mobile"`
}

// ProfileResult reports whether the profile was created by this write.
type ProfileResult struct {
	User    *UserProjection
	Created bool
}
