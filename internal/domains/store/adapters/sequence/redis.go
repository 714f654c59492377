package sequence

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/Apurer/pawhaven-api/internal/domains/store/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/store/ports"
)

const (
	keyPrefix = "orders:seq:"
	keyTTL    = 48 * time.Hour
)

var _ ports.OrderNumberSequencer = (*Redis)(nil)

// Redis hands out suffixes with INCR on a per-day key, so concurrent API replicas never collide.
type Redis struct {
	client redis.Cmdable
	seed   DayCounter
}

// NewRedis builds a Redis sequencer. When seed is set, a fresh day key starts after the orders already stored for that day.
func NewRedis(client redis.Cmdable, seed DayCounter) *Redis {
	return &Redis{client: client, seed: seed}
}

// Key is the counter key for day.
func Key(day time.Time) string {
	return keyPrefix + domain.DayKey(day)
}

func (r *Redis) Next(ctx context.Context, day time.Time) (int, error) {
	key := Key(day)
	if err := r.seedFrom(ctx, key, day); err != nil {
		return 0, err
	}
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, errors.Wrap(err, "increment order sequence")
	}
	if n == 1 {
		if err := r.client.Expire(ctx, key, keyTTL).Err(); err != nil {
			return 0, errors.Wrap(err, "expire order sequence")
		}
	}
	if n > domain.MaxDailySequence {
		return 0, domain.ErrSequenceExhausted
	}
	return int(n), nil
}

// seedFrom creates a missing day key at the count of orders written before Redis held it.
// SETNX lets exactly one of several first-of-day callers win; every caller increments afterwards.
func (r *Redis) seedFrom(ctx context.Context, key string, day time.Time) error {
	if r.seed == nil {
		return nil
	}
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return errors.Wrap(err, "check order sequence")
	}
	if exists > 0 {
		return nil
	}
	from, to := domain.DayBounds(day)
	existing, err := r.seed.CountCreatedBetween(ctx, from, to)
	if err != nil {
		return errors.Wrap(err, "seed order sequence")
	}
	if err := r.client.SetNX(ctx, key, existing, keyTTL).Err(); err != nil {
		return errors.Wrap(err, "seed order sequence")
	}
	return nil
}
