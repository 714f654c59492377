package ports

import (
	"context"
	"errors"
	"time"

	adoptiontypes "github.com/Apurer/pawhaven-api/internal/domains/adoptions/application/types"
	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/domain"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
	"github.com/Apurer/pawhaven-api/internal/shared/projection"
)

var (
	ErrNotFound             = errors.New("adoption not found")
	ErrPetNotFound          = errors.New("pet not found")
	ErrDuplicateActive      = errors.New("an active application already exists for this pet and applicant")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrApplicantNotFound    = errors.New("applicant not found")
)

// AdoptionProjection is an adoption plus persistence metadata.
type AdoptionProjection = projection.Projection[*domain.Adoption]

// PetSummary is the slice of a pet the adoption lifecycle reads.
type PetSummary = adoptiontypes.PetSummary

// ListFilter narrows adoption listings. Zero values are ignored.
type ListFilter struct {
	Status      *domain.Status
	ApplicantID string
}

// AdoptionRepository persists applications. Create and Update report ErrDuplicateActive
// when the write would break the one-active-application-per-pair rule.
type AdoptionRepository interface {
	Create(ctx context.Context, adoption *domain.Adoption) (*AdoptionProjection, error)
	Update(ctx context.Context, adoption *domain.Adoption) (*AdoptionProjection, error)
	Get(ctx context.Context, id string) (*AdoptionProjection, error)
	GetForUpdate(ctx context.Context, id string) (*AdoptionProjection, error)
	Delete(ctx context.Context, id string) error
	// List pages through adoptions. A non-positive page.Limit returns every match.
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]*AdoptionProjection, int64, error)
	FindActive(ctx context.Context, petID, applicantID string) (*AdoptionProjection, error)
	// HasApproved reports whether the pet has an Approved adoption other than excludeID.
	HasApproved(ctx context.Context, petID, excludeID string) (bool, error)
	CountByStatus(ctx context.Context) (map[domain.Status]int64, error)
	ApprovedPetIDs(ctx context.Context) ([]string, error)
}

// PetStore is the lifecycle's view of the pets catalog. SetAdopted is the only write.
type PetStore interface {
	Get(ctx context.Context, id string) (*PetSummary, error)
	GetForUpdate(ctx context.Context, id string) (*PetSummary, error)
	SetAdopted(ctx context.Context, id string, adopted bool) error
	SetAdoptedBulk(ctx context.Context, ids []string, adopted bool) (int64, error)
	AdoptedIDs(ctx context.Context) ([]string, error)
}

// OutboxRepository stores pending notifications.
type OutboxRepository interface {
	Add(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, id string) (*domain.Notification, error)
	Save(ctx context.Context, n *domain.Notification) error
	// ClaimDue returns up to limit pending entries due at now and pushes their
	// next attempt to now+lease so concurrent relays skip them.
	ClaimDue(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]*domain.Notification, error)
}

// Stores groups the repositories that take part in one unit of work.
type Stores interface {
	Adoptions() AdoptionRepository
	Pets() PetStore
	Outbox() OutboxRepository
}

// TransactionManager runs fn against stores bound to a single transaction.
// fn's error rolls the transaction back.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(Stores) error) error
}
