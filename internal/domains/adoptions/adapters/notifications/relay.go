package notifications

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
)

const (
	DefaultRelayInterval  = 15 * time.Second
	DefaultRelayBatchSize = 50
)

// Relay re-dispatches outbox entries that were not delivered on the request path.
type Relay struct {
	outbox          ports.OutboxRepository
	dispatcher      ports.NotificationDispatcher
	interval        time.Duration
	batchSize       int
	lease           time.Duration
	dispatchTimeout time.Duration
	now             func() time.Time
	logger          *slog.Logger
}

type RelayOption func(*Relay)

func WithRelayInterval(d time.Duration) RelayOption {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithRelayBatchSize(n int) RelayOption {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithRelayLease sets how long a claimed entry stays invisible to other relays.
func WithRelayLease(d time.Duration) RelayOption {
	return func(r *Relay) {
		if d > 0 {
			r.lease = d
		}
	}
}

func WithRelayDispatchTimeout(d time.Duration) RelayOption {
	return func(r *Relay) {
		if d > 0 {
			r.dispatchTimeout = d
		}
	}
}

func WithRelayClock(now func() time.Time) RelayOption {
	return func(r *Relay) {
		if now != nil {
			r.now = now
		}
	}
}

func WithRelayLogger(logger *slog.Logger) RelayOption {
	return func(r *Relay) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewRelay(outbox ports.OutboxRepository, dispatcher ports.NotificationDispatcher, opts ...RelayOption) *Relay {
	r := &Relay{
		outbox:          outbox,
		dispatcher:      dispatcher,
		interval:        DefaultRelayInterval,
		batchSize:       DefaultRelayBatchSize,
		lease:           2 * time.Minute,
		dispatchTimeout: 30 * time.Second,
		now:             time.Now,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Run polls until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	r.logger.Info("outbox relay started", slog.Duration("interval", r.interval), slog.Int("batch_size", r.batchSize))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return nil
		case <-ticker.C:
			if _, err := r.ProcessOnce(ctx); err != nil && ctx.Err() == nil {
				r.logger.LogAttrs(ctx, slog.LevelError, "outbox relay pass failed", slog.String("error", err.Error()))
			}
		}
	}
}

// ProcessOnce claims one batch of due entries and dispatches each. It returns the number delivered.
func (r *Relay) ProcessOnce(ctx context.Context) (int, error) {
	batch, err := r.outbox.ClaimDue(ctx, r.now(), r.batchSize, r.lease)
	if err != nil {
		return 0, err
	}
	delivered := 0
	for _, n := range batch {
		if ctx.Err() != nil {
			break
		}
		dispatchCtx, cancel := context.WithTimeout(ctx, r.dispatchTimeout)
		err := r.dispatcher.Dispatch(dispatchCtx, n.ID)
		cancel()
		if err != nil {
			r.logger.LogAttrs(ctx, slog.LevelWarn, "outbox entry not delivered",
				slog.String("notification.id", n.ID),
				slog.Int("attempts", n.Attempts),
				slog.String("error", err.Error()),
			)
			continue
		}
		delivered++
	}
	if len(batch) > 0 {
		r.logger.LogAttrs(ctx, slog.LevelInfo, "outbox relay pass",
			slog.Int("claimed", len(batch)),
			slog.Int("delivered", delivered),
		)
	}
	return delivered, nil
}
