package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/pawhaven-api/internal/domains/store/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/store/ports"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
	"github.com/Apurer/pawhaven-api/internal/shared/projection"
)

var _ ports.OrderRepository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*storedOrder
	now    func() time.Time
}

type storedOrder struct {
	order    *domain.Order
	metadata projection.Metadata
}

func NewRepository() *Repository {
	return &Repository{orders: map[string]*storedOrder{}, now: time.Now}
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

func (r *Repository) Create(_ context.Context, order *domain.Order) (*ports.OrderProjection, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.orders {
		if stored.order.Number == order.Number {
			return nil, ports.ErrNumberTaken
		}
		if order.Payment != nil && stored.order.Payment != nil &&
			stored.order.Payment.GatewayPaymentID == order.Payment.GatewayPaymentID {
			return nil, ports.ErrPaymentRecorded
		}
	}
	now := r.now()
	stored := &storedOrder{order: order.Clone(), metadata: projection.Created(now)}
	r.orders[order.ID] = stored
	return stored.project(), nil
}

func (r *Repository) Get(_ context.Context, id string) (*ports.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return stored.project(), nil
}

func (r *Repository) GetByPaymentID(_ context.Context, gatewayPaymentID string) (*ports.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, stored := range r.orders {
		if p := stored.order.Payment; p != nil && p.GatewayPaymentID == gatewayPaymentID {
			return stored.project(), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) UpdateStatus(_ context.Context, id string, status domain.Status) (*ports.OrderProjection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	stored.order.Status = status
	stored.metadata.Touch(r.now())
	return stored.project(), nil
}

func (r *Repository) ListByUser(_ context.Context, userID string) ([]*ports.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matches []*storedOrder
	for _, stored := range r.orders {
		if stored.order.UserID == userID {
			matches = append(matches, stored)
		}
	}
	return projectNewestFirst(matches), nil
}

func (r *Repository) List(_ context.Context, page pagination.Params) ([]*ports.OrderProjection, int64, error) {
	r.mu.RLock()
	matches := make([]*storedOrder, 0, len(r.orders))
	for _, stored := range r.orders {
		matches = append(matches, stored)
	}
	r.mu.RUnlock()

	total := int64(len(matches))
	out := projectNewestFirst(matches)
	start, end := page.Window(len(out))
	out = out[start:end]
	return out, total, nil
}

func (r *Repository) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, stored := range r.orders {
		created := stored.order.CreatedAt
		if !created.Before(from) && created.Before(to) {
			n++
		}
	}
	return n, nil
}

func projectNewestFirst(matches []*storedOrder) []*ports.OrderProjection {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i].order, matches[j].order
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.Number > b.Number
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	out := make([]*ports.OrderProjection, 0, len(matches))
	for _, stored := range matches {
		out = append(out, stored.project())
	}
	return out
}

func (s *storedOrder) project() *ports.OrderProjection {
	return &ports.OrderProjection{Entity: s.order.Clone(), Metadata: s.metadata}
}
