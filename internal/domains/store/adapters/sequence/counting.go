// Package sequence hands out the daily suffix of order numbers.
package sequence

import (
	"context"
	"time"

	"github.com/Apurer/pawhaven-api/internal/domains/store/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/store/ports"
)

// DayCounter counts orders created in a half-open time range.
type DayCounter interface {
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

var _ ports.OrderNumberSequencer = (*Counting)(nil)

// Counting derives the next suffix from the number of orders already placed that day.
// Two concurrent callers can receive the same value; the unique index on the order number rejects the loser.
type Counting struct {
	orders DayCounter
}

func NewCounting(orders DayCounter) *Counting {
	return &Counting{orders: orders}
}

func (c *Counting) Next(ctx context.Context, day time.Time) (int, error) {
	from, to := domain.DayBounds(day)
	n, err := c.orders.CountCreatedBetween(ctx, from, to)
	if err != nil {
		return 0, err
	}
	if n >= domain.MaxDailySequence {
		return 0, domain.ErrSequenceExhausted
	}
	return int(n) + 1, nil
}
