// Package notifications delivers adoption status emails from the outbox.
package notifications

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
)

const DefaultMaxAttempts = 8

var _ ports.NotificationDeliverer = (*Deliverer)(nil)

// Deliverer performs one send attempt for an outbox entry and records the outcome.
// Delivered entries are skipped, so repeated calls are safe.
type Deliverer struct {
	outbox      ports.OutboxRepository
	mailer      ports.Mailer
	renderer    *Renderer
	maxAttempts int
	now         func() time.Time
	logger      *slog.Logger
}

type DelivererOption func(*Deliverer)

func WithMaxAttempts(n int) DelivererOption {
	return func(d *Deliverer) {
		if n > 0 {
			d.maxAttempts = n
		}
	}
}

func WithDelivererClock(now func() time.Time) DelivererOption {
	return func(d *Deliverer) {
		if now != nil {
			d.now = now
		}
	}
}

func WithDelivererLogger(logger *slog.Logger) DelivererOption {
	return func(d *Deliverer) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func NewDeliverer(outbox ports.OutboxRepository, mailer ports.Mailer, renderer *Renderer, opts ...DelivererOption) *Deliverer {
	d := &Deliverer{
		outbox:      outbox,
		mailer:      mailer,
		renderer:    renderer,
		maxAttempts: DefaultMaxAttempts,
		now:         time.Now,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

func (d *Deliverer) Deliver(ctx context.Context, notificationID string) error {
	n, err := d.outbox.Get(ctx, notificationID)
	if err != nil {
		return err
	}
	switch n.State {
	case domain.NotificationDelivered:
		return nil
	case domain.NotificationDead:
		return domain.ErrNotificationDead
	}

	sendErr := d.send(ctx, n)
	// The attempt is recorded even when ctx expired during the send.
	saveCtx := context.WithoutCancel(ctx)
	if sendErr != nil {
		n.MarkFailed(sendErr, d.now(), d.maxAttempts)
		if err := d.outbox.Save(saveCtx, n); err != nil {
			d.logger.LogAttrs(ctx, slog.LevelError, "failed to record notification failure",
				slog.String("notification.id", n.ID), slog.String("error", err.Error()))
		}
		d.logger.LogAttrs(ctx, slog.LevelWarn, "notification delivery failed",
			slog.String("notification.id", n.ID),
			slog.Int("attempts", n.Attempts),
			slog.String("state", string(n.State)),
			slog.String("error", sendErr.Error()),
		)
		if n.State == domain.NotificationDead {
			return errors.Wrap(domain.ErrNotificationDead, sendErr.Error())
		}
		return sendErr
	}
	n.MarkDelivered(d.now())
	if err := d.outbox.Save(saveCtx, n); err != nil {
		return errors.Wrap(err, "record notification delivery")
	}
	d.logger.LogAttrs(ctx, slog.LevelInfo, "notification delivered",
		slog.String("notification.id", n.ID),
		slog.String("adoption.id", n.AdoptionID),
		slog.String("status", string(n.Status)),
	)
	return nil
}

func (d *Deliverer) send(ctx context.Context, n *domain.Notification) error {
	msg, err := d.renderer.Render(n)
	if err != nil {
		return err
	}
	return errors.Wrap(d.mailer.Send(ctx, msg), "send notification")
}
