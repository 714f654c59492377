package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	adoptionactivities "github.com/Apurer/pawhaven-api/internal/platform/temporal/activities/adoptions"
)

// RunNotificationDeliverySequence retries delivery of one outbox entry with exponential backoff.
func RunNotificationDeliverySequence(ctx workflow.Context, input adoptionactivities.DeliverNotificationInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("notification delivery sequence started", "notificationId", input.NotificationID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	}
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), adoptionactivities.DeliverNotificationActivityName, input).Get(ctx, nil)
	if err != nil {
		logger.Error("notification delivery sequence failed", "notificationId", input.NotificationID, "error", err)
		return err
	}
	logger.Info("notification delivery sequence delivered", "notificationId", input.NotificationID)
	return nil
}
