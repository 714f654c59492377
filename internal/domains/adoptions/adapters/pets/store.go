// Package pets adapts the pets catalog repository to the adoption lifecycle's PetStore.
package pets

import (
	"context"
	"errors"

	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
	petdomain "github.com/Apurer/pawhaven-api/internal/domains/pets/domain"
	petports "github.com/Apurer/pawhaven-api/internal/domains/pets/ports"
	"github.com/Apurer/pawhaven-api/internal/shared/projection"
)

var _ ports.PetStore = (*Store)(nil)

// Store exposes a pets repository through the lifecycle's narrow port.
type Store struct {
	repo petports.Repository
}

func New(repo petports.Repository) *Store {
	return &Store{repo: repo}
}

func (s *Store) Get(ctx context.Context, id string) (*ports.PetSummary, error) {
	proj, err := s.repo.GetByID(ctx, id)
	return summarize(proj, err)
}

func (s *Store) GetForUpdate(ctx context.Context, id string) (*ports.PetSummary, error) {
	proj, err := s.repo.GetForUpdate(ctx, id)
	return summarize(proj, err)
}

func (s *Store) SetAdopted(ctx context.Context, id string, adopted bool) error {
	return translate(s.repo.SetAdopted(ctx, id, adopted))
}

func (s *Store) SetAdoptedBulk(ctx context.Context, ids []string, adopted bool) (int64, error) {
	return s.repo.SetAdoptedBulk(ctx, ids, adopted)
}

func (s *Store) AdoptedIDs(ctx context.Context) ([]string, error) {
	return s.repo.AdoptedIDs(ctx)
}

func summarize(proj *projection.Projection[*petdomain.Pet], err error) (*ports.PetSummary, error) {
	if err != nil {
		return nil, translate(err)
	}
	p := proj.Entity
	return &ports.PetSummary{
		ID:        p.ID,
		Name:      p.Name,
		Category:  string(p.Category),
		Breed:     p.Breed,
		Image:     p.ImageURL,
		IsAdopted: p.IsAdopted,
	}, nil
}

func translate(err error) error {
	if errors.Is(err, petports.ErrNotFound) {
		return ports.ErrPetNotFound
	}
	return err
}
