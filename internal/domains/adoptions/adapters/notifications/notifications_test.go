package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/adapters/memory"
	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
)

type stubMailer struct {
	mu    sync.Mutex
	sent  []ports.EmailMessage
	fails int
}

func (m *stubMailer) Send(_ context.Context, msg ports.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fails > 0 {
		m.fails--
		return errors.New("mail relay unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newEntry(id string, to domain.Status, now time.Time) *domain.Notification {
	change := domain.StatusChanged{AdoptionID: "a-" + id, From: domain.StatusPending, To: to, AdminNotes: "Visit on <Saturday>"}
	return domain.NewNotification(id, change, domain.Recipient{Email: "asha@example.com", Name: "Asha"}, "Bruno", now, 0)
}

func TestRenderer_PerStatusTemplates(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)
	now := time.Now()

	approved, err := renderer.Render(newEntry("n-1", domain.StatusApproved, now))
	require.NoError(t, err)
	assert.Equal(t, "Your adoption application for Bruno has been approved", approved.Subject)
	assert.Equal(t, "asha@example.com", approved.To)
	assert.Contains(t, approved.HTMLBody, "Asha")
	assert.Contains(t, approved.HTMLBody, "Visit on &lt;Saturday&gt;", "admin notes are escaped")

	rejected, err := renderer.Render(newEntry("n-2", domain.StatusRejected, now))
	require.NoError(t, err)
	assert.Contains(t, rejected.Subject, "Update on your adoption application")

	entry := newEntry("n-3", domain.StatusPending, now)
	entry.PetName = ""
	pending, err := renderer.Render(entry)
	require.NoError(t, err)
	assert.Contains(t, pending.Subject, "your chosen pet")
}

func TestDeliverer_DeliversOnce(t *testing.T) {
	outbox := memory.NewOutbox()
	mailer := &stubMailer{}
	renderer, err := NewRenderer()
	require.NoError(t, err)
	deliverer := NewDeliverer(outbox, mailer, renderer)
	ctx := context.Background()
	require.NoError(t, outbox.Add(ctx, newEntry("n-1", domain.StatusApproved, time.Now())))

	require.NoError(t, deliverer.Deliver(ctx, "n-1"))
	require.NoError(t, deliverer.Deliver(ctx, "n-1"))
	assert.Len(t, mailer.sent, 1)

	stored, err := outbox.Get(ctx, "n-1")
	require.NoError(t, err)
	assert.True(t, stored.Delivered())
	assert.Equal(t, 1, stored.Attempts)

	require.ErrorIs(t, deliverer.Deliver(ctx, "missing"), ports.ErrNotificationNotFound)
}

func TestDeliverer_BacksOffThenGivesUp(t *testing.T) {
	outbox := memory.NewOutbox()
	mailer := &stubMailer{fails: 10}
	renderer, err := NewRenderer()
	require.NoError(t, err)
	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	deliverer := NewDeliverer(outbox, mailer, renderer,
		WithMaxAttempts(2),
		WithDelivererClock(func() time.Time { return now }),
	)
	ctx := context.Background()
	require.NoError(t, outbox.Add(ctx, newEntry("n-1", domain.StatusRejected, now)))

	err = deliverer.Deliver(ctx, "n-1")
	require.Error(t, err)
	stored, err := outbox.Get(ctx, "n-1")
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationPending, stored.State)
	assert.Equal(t, now.Add(30*time.Second), stored.NextAttemptAt)

	err = deliverer.Deliver(ctx, "n-1")
	require.ErrorIs(t, err, domain.ErrNotificationDead)
	stored, err = outbox.Get(ctx, "n-1")
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationDead, stored.State)

	require.ErrorIs(t, deliverer.Deliver(ctx, "n-1"), domain.ErrNotificationDead)
	assert.Empty(t, mailer.sent)
}

type countingDispatcher struct {
	deliverer ports.NotificationDeliverer
	ids       []string
}

func (d *countingDispatcher) Dispatch(ctx context.Context, id string) error {
	d.ids = append(d.ids, id)
	return d.deliverer.Deliver(ctx, id)
}

func TestRelay_RetriesDueEntries(t *testing.T) {
	outbox := memory.NewOutbox()
	mailer := &stubMailer{fails: 1}
	renderer, err := NewRenderer()
	require.NoError(t, err)
	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	dispatcher := &countingDispatcher{deliverer: NewDeliverer(outbox, mailer, renderer, WithDelivererClock(clock))}
	relay := NewRelay(outbox, dispatcher, WithRelayClock(clock), WithRelayLease(time.Minute))
	ctx := context.Background()

	require.NoError(t, outbox.Add(ctx, newEntry("n-1", domain.StatusApproved, now.Add(-time.Minute))))
	require.NoError(t, outbox.Add(ctx, newEntry("n-2", domain.StatusApproved, now.Add(time.Hour))))

	delivered, err := relay.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, delivered)
	assert.Equal(t, []string{"n-1"}, dispatcher.ids)

	delivered, err = relay.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, delivered, "backoff keeps the entry out of the next pass")

	now = now.Add(time.Minute)
	delivered, err = relay.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "n-1", mailer.sent[0].NotificationID)
}
