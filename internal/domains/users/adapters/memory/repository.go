package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/pawhaven-api/internal/domains/users/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/users/ports"
	"github.com/Apurer/pawhaven-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps user profiles in memory.
type Repository struct {
	mu    sync.RWMutex
	users map[string]*storedUser
	now   func() time.Time
}

type storedUser struct {
	user     *domain.User
	metadata projection.Metadata
}

func NewRepository() *Repository {
	return &Repository{users: map[string]*storedUser{}, now: time.Now}
}

func (r *Repository) Save(_ context.Context, user *domain.User) (*ports.UserProjection, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	stored, ok := r.users[user.ID]
	if !ok {
		stored = &storedUser{metadata: projection.Metadata{CreatedAt: now}}
		r.users[user.ID] = stored
	}
	stored.user = user.Clone()
	stored.metadata.Touch(now)
	return &ports.UserProjection{Entity: stored.user.Clone(), Metadata: stored.metadata}, nil
}

func (r *Repository) Get(_ context.Context, id string) (*ports.UserProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &ports.UserProjection{Entity: stored.user.Clone(), Metadata: stored.metadata}, nil
}
