package sequence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/pawhaven-api/internal/domains/store/domain"
)

type fixedCounter struct {
	mu    sync.Mutex
	n     int64
	calls int
}

func (f *fixedCounter) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if to.Sub(from) != 24*time.Hour {
		return 0, assert.AnError
	}
	return f.n, nil
}

var day = time.Date(2025, 3, 14, 23, 30, 0, 0, time.UTC)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCounting_Next(t *testing.T) {
	seq := NewCounting(&fixedCounter{n: 3})
	n, err := seq.Next(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = NewCounting(&fixedCounter{n: domain.MaxDailySequence}).Next(context.Background(), day)
	assert.ErrorIs(t, err, domain.ErrSequenceExhausted)
}

func TestRedis_IncrementsPerDay(t *testing.T) {
	mr, client := newRedis(t)
	seq := NewRedis(client, nil)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		n, err := seq.Next(ctx, day)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	n, err := seq.Next(ctx, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, "orders:seq:250314", Key(day))
	assert.Equal(t, keyTTL, mr.TTL(Key(day)))
}

func TestRedis_SeedsFreshKeyFromStoredOrders(t *testing.T) {
	_, client := newRedis(t)
	counter := &fixedCounter{n: 5}
	seq := NewRedis(client, counter)
	ctx := context.Background()

	n, err := seq.Next(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	n, err = seq.Next(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, 1, counter.calls)
}

func TestRedis_ConcurrentCallersGetDistinctValues(t *testing.T) {
	_, client := newRedis(t)
	seq := NewRedis(client, nil)

	const workers = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int]bool{}
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := seq.Next(context.Background(), day)
			if err != nil {
				t.Errorf("next: %v", err)
				return
			}
			mu.Lock()
			seen[n] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, workers)
}

func TestRedis_ConcurrentFirstOfDayCallersSkipStoredOrders(t *testing.T) {
	mr, client := newRedis(t)
	seq := NewRedis(client, &fixedCounter{n: 5})

	const workers = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int]bool{}
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := seq.Next(context.Background(), day)
			if err != nil {
				t.Errorf("next: %v", err)
				return
			}
			mu.Lock()
			seen[n] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers)
	for n := range seen {
		assert.Greater(t, n, 5, "suffix %d collides with a stored order", n)
	}
	assert.True(t, seen[6])
	assert.True(t, seen[5+workers])
	assert.Equal(t, keyTTL, mr.TTL(Key(day)))
}

func TestRedis_Exhausted(t *testing.T) {
	mr, client := newRedis(t)
	require.NoError(t, mr.Set(Key(day), "9999"))
	_, err := NewRedis(client, nil).Next(context.Background(), day)
	assert.ErrorIs(t, err, domain.ErrSequenceExhausted)
}

func TestRedis_Unavailable(t *testing.T) {
	mr, client := newRedis(t)
	mr.Close()
	_, err := NewRedis(client, nil).Next(context.Background(), day)
	assert.Error(t, err)
}
