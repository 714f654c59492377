// Package directory exposes user profiles to other contexts.
package directory

import (
	"context"
	"errors"

	adoptiondomain "github.com/Apurer/pawhaven-api/internal/domains/adoptions/domain"
	adoptionports "github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
	"github.com/Apurer/pawhaven-api/internal/domains/users/ports"
)

var _ adoptionports.ApplicantDirectory = (*Applicants)(nil)

// Applicants resolves adoption applicants to notification recipients.
type Applicants struct {
	users ports.Repository
}

func NewApplicants(users ports.Repository) *Applicants {
	return &Applicants{users: users}
}

func (a *Applicants) Lookup(ctx context.Context, userID string) (adoptiondomain.Recipient, error) {
	user, err := a.users.Get(ctx, userID)
	if errors.Is(err, ports.ErrNotFound) {
		return adoptiondomain.Recipient{}, adoptionports.ErrApplicantNotFound
	}
	if err != nil {
		return adoptiondomain.Recipient{}, err
	}
	return adoptiondomain.Recipient{Email: user.Entity.Email, Name: user.Entity.Name}, nil
}
