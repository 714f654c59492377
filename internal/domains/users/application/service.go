package application

import (
	"context"
	"errors"
	"strings"

	usertypes "github.com/Apurer/pawhaven-api/internal/domains/users/application/types"
	"github.com/Apurer/pawhaven-api/internal/domains/users/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/users/ports"
	"github.com/Apurer/pawhaven-api/internal/shared/validation"
)

// Service exposes user bounded context use cases.
type Service struct {
	repo      ports.Repository
	validator *validation.Validator
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo, validator: validation.New()}
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*usertypes.UserProjection, error) {
	return s.repo.Get(ctx, strings.TrimSpace(userID))
}

// UpsertProfile creates the caller's profile on first write and updates it afterwards.
// The stored role always follows the token.
func (s *Service) UpsertProfile(ctx context.Context, input usertypes.UpsertProfileInput) (*usertypes.ProfileResult, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, mapError(err)
	}
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, mapError(err)
	}
	existing, err := s.repo.Get(ctx, input.UserID)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		user, err := domain.NewUser(input.UserID, input.Name, input.Email, input.Phone, role)
		if err != nil {
			return nil, mapError(err)
		}
		saved, err := s.repo.Save(ctx, user)
		if err != nil {
			return nil, mapError(err)
		}
		return &usertypes.ProfileResult{User: saved, Created: true}, nil
	case err != nil:
		return nil, err
	}
	user := existing.Entity
	if err := user.UpdateProfile(input.Name, input.Email, input.Phone); err != nil {
		return nil, mapError(err)
	}
	user.Role = role
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return &usertypes.ProfileResult{User: saved}, nil
}

var _ ports.Service = (*Service)(nil)
