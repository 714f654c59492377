package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/pawhaven-api/internal/domains/pets/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/pets/ports"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
	"github.com/Apurer/pawhaven-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory implementation used for demos/tests.
type Repository struct {
	mu   sync.RWMutex
	pets map[string]*storedPet
	now  func() time.Time
}

type storedPet struct {
	pet      *domain.Pet
	metadata projection.Metadata
}

// NewRepository constructs an empty in-memory store.
func NewRepository() *Repository {
	return &Repository{
		pets: map[string]*storedPet{},
		now:  time.Now,
	}
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

// Save inserts or replaces a pet while maintaining metadata.
func (r *Repository) Save(_ context.Context, pet *domain.Pet) (*projection.Projection[*domain.Pet], error) {
	if pet == nil {
		return nil, errors.New("cannot save nil pet")
	}
	if err := pet.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	timestamp := r.now()
	metadata := projection.Created(timestamp)
	if entry, ok := r.pets[pet.ID]; ok {
		metadata.CreatedAt = entry.metadata.CreatedAt
	}
	stored := &storedPet{pet: clonePet(pet), metadata: metadata}
	r.pets[pet.ID] = stored
	return projectionCopy(stored), nil
}

// GetByID fetches a pet if present.
func (r *Repository) GetByID(_ context.Context, id string) (*projection.Projection[*domain.Pet], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.pets[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projectionCopy(entry), nil
}

// GetForUpdate behaves like GetByID; callers serialise through the memory unit of work.
func (r *Repository) GetForUpdate(ctx context.Context, id string) (*projection.Projection[*domain.Pet], error) {
	return r.GetByID(ctx, id)
}

// Delete removes a pet.
func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pets[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.pets, id)
	return nil
}

// List filters, sorts and pages the catalog.
func (r *Repository) List(_ context.Context, filter ports.ListFilter, page pagination.Params) ([]*projection.Projection[*domain.Pet], int64, error) {
	r.mu.RLock()
	matches := make([]*storedPet, 0, len(r.pets))
	for _, entry := range r.pets {
		if filter.Category != nil && entry.pet.Category != *filter.Category {
			continue
		}
		if filter.Adopted != nil && entry.pet.IsAdopted != *filter.Adopted {
			continue
		}
		matches = append(matches, entry)
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
	list := make([]*projection.Projection[*domain.Pet], 0, end-start)
	for _, entry := range matches[start:end] {
		list = append(list, projectionCopy(entry))
	}
	return list, total, nil
}

// SetAdopted flips the availability flag.
func (r *Repository) SetAdopted(_ context.Context, id string, adopted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.pets[id]
	if !ok {
		return ports.ErrNotFound
	}
	if entry.pet.IsAdopted != adopted {
		entry.pet.MarkAdopted(adopted)
		entry.metadata.Touch(r.now())
	}
	return nil
}

// SetAdoptedBulk flips the flag on every listed pet and reports how many changed.
func (r *Repository) SetAdoptedBulk(_ context.Context, ids []string, adopted bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var changed int64
	for _, id := range ids {
		entry, ok := r.pets[id]
		if !ok || entry.pet.IsAdopted == adopted {
			continue
		}
		entry.pet.MarkAdopted(adopted)
		entry.metadata.Touch(r.now())
		changed++
	}
	return changed, nil
}

// AdoptedIDs lists pets currently flagged as adopted.
func (r *Repository) AdoptedIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []string
	for id, entry := range r.pets {
		if entry.pet.IsAdopted {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func lessBy(field string, a, b *storedPet) bool {
	switch field {
	case "name":
		return strings.ToLower(a.pet.Name) < strings.ToLower(b.pet.Name)
	case "age":
		return a.pet.Age < b.pet.Age
	default:
		return a.metadata.CreatedAt.Before(b.metadata.CreatedAt)
	}
}

func projectionCopy(entry *storedPet) *projection.Projection[*domain.Pet] {
	return &projection.Projection[*domain.Pet]{
		Entity:   clonePet(entry.pet),
		Metadata: entry.metadata,
	}
}

func clonePet(p *domain.Pet) *domain.Pet {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
