package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
	"github.com/Apurer/pawhaven-api/internal/shared/projection"
)

var _ ports.AdoptionRepository = (*Repository)(nil)

// Repository is an in-memory adoption store used for demos/tests.
type Repository struct {
	mu        sync.RWMutex
	adoptions map[string]*storedAdoption
	now       func() time.Time
}

type storedAdoption struct {
	adoption *domain.Adoption
	metadata projection.Metadata
}

func NewRepository() *Repository {
	return &Repository{adoptions: map[string]*storedAdoption{}, now: time.Now}
}

// WithClock overrides the timestamp source.
func (r *Repository) WithClock(now func() time.Time) {
	if now == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *Repository) Create(_ context.Context, adoption *domain.Adoption) (*ports.AdoptionProjection, error) {
	if err := adoption.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.activeConflict(adoption) {
		return nil, ports.ErrDuplicateActive
	}
	now := r.now()
	stored := &storedAdoption{adoption: adoption.Clone(), metadata: projection.Created(now)}
	r.adoptions[adoption.ID] = stored
	return stored.project(), nil
}

func (r *Repository) Update(_ context.Context, adoption *domain.Adoption) (*ports.AdoptionProjection, error) {
	if err := adoption.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.adoptions[adoption.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if r.activeConflict(adoption) {
		return nil, ports.ErrDuplicateActive
	}
	stored.adoption = adoption.Clone()
	stored.metadata.Touch(r.now())
	return stored.project(), nil
}

func (r *Repository) Get(_ context.Context, id string) (*ports.AdoptionProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.adoptions[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return stored.project(), nil
}

// GetForUpdate equals Get; the memory transaction manager serialises writers.
func (r *Repository) GetForUpdate(ctx context.Context, id string) (*ports.AdoptionProjection, error) {
	return r.Get(ctx, id)
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.adoptions[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.adoptions, id)
	return nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter, page pagination.Params) ([]*ports.AdoptionProjection, int64, error) {
	r.mu.RLock()
	matches := make([]*storedAdoption, 0, len(r.adoptions))
	for _, stored := range r.adoptions {
		if filter.Status != nil && stored.adoption.Status != *filter.Status {
			continue
		}
		if filter.ApplicantID != "" && stored.adoption.ApplicantID != filter.ApplicantID {
			continue
		}
		matches = append(matches, stored)
	}
	r.mu.RUnlock()

	sort.SliceStable(matches, func(i, j int) bool {
		if page.Desc {
			return lessBy(page.SortField, matches[j], matches[i])
		}
		return lessBy(page.SortField, matches[i], matches[j])
	})
	total := int64(len(matches))
	start, end := page.Window(len(matches))
	matches = matches[start:end]
	out := make([]*ports.AdoptionProjection, 0, len(matches))
	for _, stored := range matches {
		out = append(out, stored.project())
	}
	return out, total, nil
}

func (r *Repository) FindActive(_ context.Context, petID, applicantID string) (*ports.AdoptionProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, stored := range r.adoptions {
		a := stored.adoption
		if a.PetID == petID && a.ApplicantID == applicantID && a.Status.Active() {
			return stored.project(), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) HasApproved(_ context.Context, petID, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, stored := range r.adoptions {
		if id != excludeID && stored.adoption.PetID == petID && stored.adoption.Status == domain.StatusApproved {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repository) CountByStatus(_ context.Context) (map[domain.Status]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := map[domain.Status]int64{}
	for _, stored := range r.adoptions {
		counts[stored.adoption.Status]++
	}
	return counts, nil
}

func (r *Repository) ApprovedPetIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]struct{}{}
	var ids []string
	for _, stored := range r.adoptions {
		if stored.adoption.Status != domain.StatusApproved {
			continue
		}
		if _, ok := seen[stored.adoption.PetID]; ok {
			continue
		}
		seen[stored.adoption.PetID] = struct{}{}
		ids = append(ids, stored.adoption.PetID)
	}
	sort.Strings(ids)
	return ids, nil
}

// activeConflict mirrors the partial unique index on (pet, applicant) for active statuses.
func (r *Repository) activeConflict(candidate *domain.Adoption) bool {
	if !candidate.Status.Active() {
		return false
	}
	for id, stored := range r.adoptions {
		a := stored.adoption
		if id != candidate.ID && a.PetID == candidate.PetID && a.ApplicantID == candidate.ApplicantID && a.Status.Active() {
			return true
		}
	}
	return false
}

func (s *storedAdoption) project() *ports.AdoptionProjection {
	return &ports.AdoptionProjection{Entity: s.adoption.Clone(), Metadata: s.metadata}
}

func lessBy(field string, a, b *storedAdoption) bool {
	switch field {
	case "status":
		if a.adoption.Status != b.adoption.Status {
			return a.adoption.Status < b.adoption.Status
		}
	case "updated_at":
		if !a.metadata.UpdatedAt.Equal(b.metadata.UpdatedAt) {
			return a.metadata.UpdatedAt.Before(b.metadata.UpdatedAt)
		}
	}
	if !a.metadata.CreatedAt.Equal(b.metadata.CreatedAt) {
		return a.metadata.CreatedAt.Before(b.metadata.CreatedAt)
	}
	return a.adoption.ID < b.adoption.ID
}
