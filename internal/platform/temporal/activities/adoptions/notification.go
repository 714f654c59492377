package adoptions

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
)

// DeliverNotificationActivityName performs one delivery attempt for an outbox entry.
const DeliverNotificationActivityName = "adoptions.activities.DeliverNotification"

// DeliverNotificationInput identifies the outbox entry to deliver.
type DeliverNotificationInput struct {
	NotificationID string
}

// Activities groups activities that operate on the adoptions bounded context.
type Activities struct {
	deliverer ports.NotificationDeliverer
}

func NewActivities(deliverer ports.NotificationDeliverer) *Activities {
	return &Activities{deliverer: deliverer}
}

// DeliverNotification sends the email for an outbox entry. Exhausted entries fail without retry.
func (a *Activities) DeliverNotification(ctx context.Context, input DeliverNotificationInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.deliverer == nil {
		logger.Error("notification activity not initialized", "notificationId", input.NotificationID)
		return errors.New("notification activity not initialized")
	}

	var hb deliveryHeartbeat
	if activity.HasHeartbeatDetails(ctx) {
		_ = activity.GetHeartbeatDetails(ctx, &hb)
	}
	if hb.Delivered {
		logger.Info("DeliverNotification already completed in prior attempt; skipping", "notificationId", input.NotificationID)
		return nil
	}

	logger.Info("DeliverNotification activity started", "notificationId", input.NotificationID, "attempt", activity.GetInfo(ctx).Attempt)
	if err := a.deliverer.Deliver(ctx, input.NotificationID); err != nil {
		if errors.Is(err, domain.ErrNotificationDead) || errors.Is(err, ports.ErrNotificationNotFound) {
			logger.Error("DeliverNotification giving up", "notificationId", input.NotificationID, "error", err)
			return temporal.NewNonRetryableApplicationError(err.Error(), "NotificationUndeliverable", err)
		}
		logger.Warn("DeliverNotification attempt failed", "notificationId", input.NotificationID, "error", err)
		return err
	}
	activity.RecordHeartbeat(ctx, deliveryHeartbeat{Delivered: true})
	logger.Info("DeliverNotification activity completed", "notificationId", input.NotificationID)
	return nil
}

type deliveryHeartbeat struct {
	Delivered bool
}
