package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	adoptionsnotifications "github.com/Apurer/pawhaven-api/internal/domains/adoptions/adapters/notifications"
	adoptionsworkflows "github.com/Apurer/pawhaven-api/internal/domains/adoptions/adapters/workflows"
	adoptionsports "github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
	platformobservability "github.com/Apurer/pawhaven-api/internal/platform/observability"
	adoptionactivities "github.com/Apurer/pawhaven-api/internal/platform/temporal/activities/adoptions"
	adoptionworkflows "github.com/Apurer/pawhaven-api/internal/platform/temporal/workflows/adoptions"
)

// RunWorker runs the notification workflow worker (when Temporal is reachable) and the
// outbox relay until ctx is cancelled.
func RunWorker(ctx context.Context) error {
	const serviceName = "pawhaven-worker"
	cfg, err := LoadConfig()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return errors.Wrap(err, "failed to initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repos, closeRepos, err := OpenRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepos()
	if repos.DB == nil {
		logger.Warn("worker running without postgres; the in-memory outbox only sees this process")
	}

	mailer, closeMailer, err := NewMailer(ctx, cfg, logger)
	if err != nil {
		return errors.Wrap(err, "configure mail transport")
	}
	defer closeMailer()
	deliverer, err := NewDeliverer(cfg, repos.Outbox, mailer, logger)
	if err != nil {
		return err
	}

	var dispatcher adoptionsports.NotificationDispatcher = adoptionsworkflows.NewInlineDispatcher(deliverer)
	var temporalWorker worker.Worker
	temporalClient, err := ConnectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Warn("Temporal unavailable, relay delivers notifications inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		dispatcher = adoptionsworkflows.NewTemporalDispatcher(temporalClient)
		temporalWorker = worker.New(temporalClient, adoptionworkflows.NotificationTaskQueue, worker.Options{})
		temporalWorker.RegisterWorkflowWithOptions(adoptionworkflows.NotificationWorkflow, workflow.RegisterOptions{Name: adoptionworkflows.NotificationWorkflowName})
		activities := adoptionactivities.NewActivities(deliverer)
		temporalWorker.RegisterActivityWithOptions(activities.DeliverNotification, activity.RegisterOptions{Name: adoptionactivities.DeliverNotificationActivityName})
	}

	relay := adoptionsnotifications.NewRelay(repos.Outbox, dispatcher,
		adoptionsnotifications.WithRelayInterval(cfg.RelayInterval),
		adoptionsnotifications.WithRelayBatchSize(cfg.RelayBatchSize),
		adoptionsnotifications.WithRelayLease(outboxLease(cfg)),
		adoptionsnotifications.WithRelayLogger(logger),
	)

	if temporalWorker != nil {
		if err := temporalWorker.Start(); err != nil {
			return errors.Wrap(err, "start Temporal worker")
		}
		defer temporalWorker.Stop()
		logger.Info("worker listening", slog.String("taskQueue", adoptionworkflows.NotificationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	}
	if err := relay.Run(ctx); err != nil {
		logger.Error("worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("worker stopped")
	return nil
}
