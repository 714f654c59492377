//go:build integration
// +build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
	petpostgres "github.com/Apurer/pawhaven-api/internal/domains/pets/adapters/persistence/postgres"
	"github.com/Apurer/pawhaven-api/internal/platform/postgres/pgtest"
)

func TestPostgresRepository_ConcurrentSubmitsKeepOneActive(t *testing.T) {
	repo := NewRepository(pgtest.Container(t, petpostgres.Migrate, Migrate))
	ctx := context.Background()

	ids := []string{
		"8c1e0d62-0000-4000-8000-000000000001",
		"8c1e0d62-0000-4000-8000-000000000002",
		"8c1e0d62-0000-4000-8000-000000000003",
		"8c1e0d62-0000-4000-8000-000000000004",
	}
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		created    int
		duplicates int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := repo.Create(ctx, newAdoption(t, id, "pet-1", "user-1"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case assert.ErrorIs(t, err, ports.ErrDuplicateActive):
				duplicates++
			}
		}(id)
	}
	wg.Wait()
	assert.Equal(t, 1, created)
	assert.Equal(t, len(ids)-1, duplicates)
}

func TestPostgresOutbox_ClaimDueSkipsLockedRows(t *testing.T) {
	db := pgtest.Container(t, Migrate)
	outbox := NewOutbox(db)
	ctx := context.Background()
	now := time.Now().UTC()

	change := domain.StatusChanged{AdoptionID: "a-1", From: domain.StatusPending, To: domain.StatusRejected}
	for _, id := range []string{
		"2f0d9c1a-0000-4000-8000-000000000001",
		"2f0d9c1a-0000-4000-8000-000000000002",
		"2f0d9c1a-0000-4000-8000-000000000003",
	} {
		require.NoError(t, outbox.Add(ctx, domain.NewNotification(id, change, domain.Recipient{Email: "asha@example.com"}, "Bruno", now.Add(-time.Hour), 0)))
	}

	var wg sync.WaitGroup
	results := make([][]*domain.Notification, 3)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			claimed, err := outbox.ClaimDue(ctx, now, 2, time.Minute)
			assert.NoError(t, err)
			results[i] = claimed
		}(i)
	}
	wg.Wait()

	seen := map[string]int{}
	for _, claimed := range results {
		for _, n := range claimed {
			seen[n.ID]++
		}
	}
	assert.Len(t, seen, 3)
	for id, count := range seen {
		assert.Equal(t, 1, count, "notification %s claimed more than once", id)
	}
}
