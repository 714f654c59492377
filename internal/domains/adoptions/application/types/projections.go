package types

import (
	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/domain"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
	"github.com/Apurer/pawhaven-api/internal/shared/projection"
)

// AdoptionProjection is an adoption plus persistence metadata.
type AdoptionProjection = projection.Projection[*domain.Adoption]

// PetSummary is the slice of a pet embedded in adoption responses.
type PetSummary struct {
	ID        string
	Name      string
	Category  string
	Breed     string
	Image     string
	IsAdopted bool
}

// AdoptionDetails is an adoption with its pet populated. Pet is nil when the pet no longer exists.
type AdoptionDetails struct {
	Adoption *AdoptionProjection
	Pet      *PetSummary
}

// AdoptionPage is one page of the admin listing.
type AdoptionPage struct {
	Items []*AdoptionDetails
	Meta  pagination.Meta
}

// StatusUpdateResult reports a transition and the notification outcome.
// EmailSent is only meaningful when Changed is true.
type StatusUpdateResult struct {
	Adoption  *AdoptionDetails
	Changed   bool
	EmailSent bool
}

// Stats aggregates the admin dashboard numbers.
type Stats struct {
	Total          int64
	ByStatus       map[domain.Status]int64
	RecentPending  []*AdoptionDetails
	RecentApproved []*AdoptionDetails
}

// ReconcileReport lists the pets whose availability flag was repaired.
type ReconcileReport struct {
	MarkedAdopted   []string
	MarkedAvailable []string
}

// Repaired counts the pets whose flag changed.
func (r *ReconcileReport) Repaired() int {
	return len(r.MarkedAdopted) + len(r.MarkedAvailable)
}
