package api

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adoptionsworkflows "github.com/Apurer/pawhaven-api/internal/domains/adoptions/adapters/workflows"
	adoptionsapp "github.com/Apurer/pawhaven-api/internal/domains/adoptions/application"
	pettypes "github.com/Apurer/pawhaven-api/internal/domains/pets/application/types"
	petsdomain "github.com/Apurer/pawhaven-api/internal/domains/pets/domain"
	platformobservability "github.com/Apurer/pawhaven-api/internal/platform/observability"
)

func TestNewServicesOverMemoryRepositories(t *testing.T) {
	ctx := context.Background()
	cfg := Config{NotificationTimeout: 5 * time.Second, OrderTimezone: time.UTC}
	instruments := platformobservability.Noop(slog.New(slog.NewTextHandler(io.Discard, nil)))

	services := NewServices(cfg, memoryRepositories(), Collaborators{}, instruments)

	created, err := services.Pets.AddPet(ctx, pettypes.AddPetInput{Profile: petsdomain.Profile{
		Name: "Misty", Category: petsdomain.CategoryCat, Breed: "Persian", Age: 1,
		Gender: petsdomain.GenderFemale, Size: petsdomain.SizeSmall, Description: "Calm",
		HealthStatus: petsdomain.HealthHealthy,
	}})
	require.NoError(t, err)
	assert.NotEmpty(t, created.Entity.ID)

	stats, err := services.Adoptions.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
}

func TestOutboxLeaseNeverBelowDefault(t *testing.T) {
	assert.Equal(t, adoptionsapp.DefaultOutboxLease, outboxLease(Config{NotificationTimeout: time.Second}))
	assert.Equal(t, 10*time.Minute, outboxLease(Config{NotificationTimeout: 5 * time.Minute}))
}

type deliveries struct{ ids []string }

func (d *deliveries) Deliver(_ context.Context, notificationID string) error {
	d.ids = append(d.ids, notificationID)
	return nil
}

func TestNewDispatcherStaysInlineForMemoryOutbox(t *testing.T) {
	instruments := platformobservability.Noop(slog.New(slog.NewTextHandler(io.Discard, nil)))
	deliverer := &deliveries{}
	cfg := Config{TemporalAddress: "localhost:7233", TemporalNamespace: "default"}

	dispatcher, closeDispatcher := NewDispatcher(cfg, memoryRepositories(), instruments, deliverer)
	defer closeDispatcher()

	require.IsType(t, &adoptionsworkflows.InlineDispatcher{}, dispatcher)
	require.NoError(t, dispatcher.Dispatch(context.Background(), "notification-1"))
	assert.Equal(t, []string{"notification-1"}, deliverer.ids)
}
