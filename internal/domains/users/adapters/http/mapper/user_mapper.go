package mapper

import (
	"time"

	usertypes "github.com/Apurer/pawhaven-api/internal/domains/users/application/types"
)

// User is the transport-level profile payload.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfilePayload is the body of a profile write.
type ProfilePayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ToUpsertInput binds the payload to the authenticated caller.
func ToUpsertInput(payload ProfilePayload, userID, role string) usertypes.UpsertProfileInput {
	return usertypes.UpsertProfileInput{
		UserID: userID,
		Role:   role,
		Name:   payload.Name,
		Email:  payload.Email,
		Phone:  payload.Phone,
	}
}

func FromProjection(p *usertypes.UserProjection) User {
	if p == nil || p.Entity == nil {
		return User{}
	}
	u := p.Entity
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		CreatedAt: p.Metadata.CreatedAt,
		UpdatedAt: p.Metadata.UpdatedAt,
	}
}
