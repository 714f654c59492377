//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/pawhaven-api/internal/domains/store/ports"
	"github.com/Apurer/pawhaven-api/internal/platform/postgres/pgtest"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
)

func TestRepository_ConcurrentSameNumberKeepsOne(t *testing.T) {
	repo := NewRepository(pgtest.Container(t, Migrate))
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < 8; i++ {
		order := codOrder(t, fmt.Sprintf("o-%d", i), 7, "u-1", day)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, order)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ports.ErrNumberTaken):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 7, conflicts)
}

func TestRepository_PaymentReplayDetected(t *testing.T) {
	repo := NewRepository(pgtest.Container(t, Migrate))
	ctx := context.Background()

	_, err := repo.Create(ctx, paidOrder(t, "o-1", 1, "pay_xyz"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, paidOrder(t, "o-2", 2, "pay_xyz"))
	assert.ErrorIs(t, err, ports.ErrPaymentRecorded)

	n, total, err := repo.List(ctx, pagination.Params{Page: 1})
	require.NoError(t, err)
	assert.Len(t, n, 1)
	assert.EqualValues(t, 1, total)
}
