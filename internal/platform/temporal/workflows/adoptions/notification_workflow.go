package adoptions

import (
	"go.temporal.io/sdk/workflow"

	adoptionactivities "github.com/Apurer/pawhaven-api/internal/platform/temporal/activities/adoptions"
	"github.com/Apurer/pawhaven-api/internal/platform/temporal/sequences"
)

const (
	// NotificationWorkflowName is the public identifier for registering the workflow.
	NotificationWorkflowName = "adoptions.workflows.Notification"
	// NotificationTaskQueue is the queue consumed by the worker delivering adoption notifications.
	NotificationTaskQueue = "ADOPTION_NOTIFICATIONS"
)

// NotificationWorkflowInput names the outbox entry to deliver.
type NotificationWorkflowInput struct {
	NotificationID string
	TraceID        string
}

// NotificationWorkflow delivers one adoption status notification.
func NotificationWorkflow(ctx workflow.Context, input NotificationWorkflowInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("NotificationWorkflow started", withTraceID(input.TraceID, "notificationId", input.NotificationID)...)
	err := sequences.RunNotificationDeliverySequence(ctx, adoptionactivities.DeliverNotificationInput{NotificationID: input.NotificationID})
	if err != nil {
		logger.Error("NotificationWorkflow failed", withTraceID(input.TraceID, "notificationId", input.NotificationID, "error", err)...)
		return err
	}
	logger.Info("NotificationWorkflow completed", withTraceID(input.TraceID, "notificationId", input.NotificationID)...)
	return nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
