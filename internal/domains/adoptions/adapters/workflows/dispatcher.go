package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
	adoptionworkflows "github.com/Apurer/pawhaven-api/internal/platform/temporal/workflows/adoptions"
)

var (
	_ ports.NotificationDispatcher = (*TemporalDispatcher)(nil)
	_ ports.NotificationDispatcher = (*InlineDispatcher)(nil)
)

// TemporalDispatcher delivers notifications through a durable Temporal workflow and
// waits, bounded by ctx, for the outcome.
type TemporalDispatcher struct {
	client    client.Client
	taskQueue string
}

func NewTemporalDispatcher(c client.Client) *TemporalDispatcher {
	return &TemporalDispatcher{client: c, taskQueue: adoptionworkflows.NotificationTaskQueue}
}

// Dispatch starts (or joins) the workflow for notificationID. The workflow id is derived
// from the outbox id so a relay re-dispatch attaches to a run that is still retrying.
func (d *TemporalDispatcher) Dispatch(ctx context.Context, notificationID string) error {
	if d == nil || d.client == nil {
		return errors.New("temporal notification dispatcher not configured")
	}
	workflowID := NotificationWorkflowID(notificationID)
	run, err := d.client.ExecuteWorkflow(
		ctx,
		client.StartWorkflowOptions{ID: workflowID, TaskQueue: d.taskQueue},
		adoptionworkflows.NotificationWorkflow,
		adoptionworkflows.NotificationWorkflowInput{NotificationID: notificationID, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return err
		}
		run = d.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	return run.Get(ctx, nil)
}

// NotificationWorkflowID is the deterministic workflow id for an outbox entry.
func NotificationWorkflowID(notificationID string) string {
	return fmt.Sprintf("adoption-notification-%s", notificationID)
}

// InlineDispatcher delivers in-process without Temporal, for tests or dev fallbacks.
type InlineDispatcher struct {
	deliverer ports.NotificationDeliverer
}

func NewInlineDispatcher(deliverer ports.NotificationDeliverer) *InlineDispatcher {
	return &InlineDispatcher{deliverer: deliverer}
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, notificationID string) error {
	if d == nil || d.deliverer == nil {
		return errors.New("inline notification dispatcher not configured")
	}
	return d.deliverer.Deliver(ctx, notificationID)
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
