package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
)

var _ ports.OutboxRepository = (*Outbox)(nil)

// Outbox keeps notification entries in memory.
type Outbox struct {
	mu      sync.Mutex
	entries map[string]*domain.Notification
}

func NewOutbox() *Outbox {
	return &Outbox{entries: map[string]*domain.Notification{}}
}

func (o *Outbox) Add(_ context.Context, n *domain.Notification) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries[n.ID] = n.Clone()
	return nil
}

func (o *Outbox) Get(_ context.Context, id string) (*domain.Notification, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	n, ok := o.entries[id]
	if !ok {
		return nil, ports.ErrNotificationNotFound
	}
	return n.Clone(), nil
}

func (o *Outbox) Save(_ context.Context, n *domain.Notification) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.entries[n.ID]; !ok {
		return ports.ErrNotificationNotFound
	}
	o.entries[n.ID] = n.Clone()
	return nil
}

func (o *Outbox) ClaimDue(_ context.Context, now time.Time, limit int, lease time.Duration) ([]*domain.Notification, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	var due []*domain.Notification
	for _, n := range o.entries {
		if n.State == domain.NotificationPending && !n.NextAttemptAt.After(now) {
			due = append(due, n)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].NextAttemptAt.Before(due[j].NextAttemptAt) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	out := make([]*domain.Notification, 0, len(due))
	for _, n := range due {
		n.NextAttemptAt = now.Add(lease)
		out = append(out, n.Clone())
	}
	return out, nil
}
