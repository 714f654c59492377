package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	pawhavenserver "github.com/Apurer/pawhaven-api/go"

	adoptionsdocuments "github.com/Apurer/pawhaven-api/internal/domains/adoptions/adapters/documents"
	adoptionsnotifications "github.com/Apurer/pawhaven-api/internal/domains/adoptions/adapters/notifications"
	adoptionsobs "github.com/Apurer/pawhaven-api/internal/domains/adoptions/adapters/observability"
	adoptionsapp "github.com/Apurer/pawhaven-api/internal/domains/adoptions/application"
	adoptionsports "github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
	petsobs "github.com/Apurer/pawhaven-api/internal/domains/pets/adapters/observability"
	petsapp "github.com/Apurer/pawhaven-api/internal/domains/pets/application"
	petsports "github.com/Apurer/pawhaven-api/internal/domains/pets/ports"
	storeobs "github.com/Apurer/pawhaven-api/internal/domains/store/adapters/observability"
	storepayments "github.com/Apurer/pawhaven-api/internal/domains/store/adapters/payments"
	storeapp "github.com/Apurer/pawhaven-api/internal/domains/store/application"
	storeports "github.com/Apurer/pawhaven-api/internal/domains/store/ports"
	usersdirectory "github.com/Apurer/pawhaven-api/internal/domains/users/adapters/directory"
	usersobs "github.com/Apurer/pawhaven-api/internal/domains/users/adapters/observability"
	usersapp "github.com/Apurer/pawhaven-api/internal/domains/users/application"
	usersports "github.com/Apurer/pawhaven-api/internal/domains/users/ports"
	"github.com/Apurer/pawhaven-api/internal/platform/auth"
	platformobservability "github.com/Apurer/pawhaven-api/internal/platform/observability"
	"github.com/Apurer/pawhaven-api/internal/platform/storage"
)

// Services are the decorated use cases of every bounded context.
type Services struct {
	Pets      petsports.Service
	Users     usersports.Service
	Adoptions adoptionsports.Service
	Store     storeports.Service
}

// Collaborators are the optional adapters the adoption lifecycle needs beyond its repositories.
type Collaborators struct {
	Documents  adoptionsports.DocumentStore
	Dispatcher adoptionsports.NotificationDispatcher
}

// NewServices wires the application services over repos and decorates them with observability.
func NewServices(cfg Config, repos *Repositories, collab Collaborators, instruments *platformobservability.Instruments) Services {
	logger := effectiveLogger(instruments)

	pets := petsobs.New(
		petsapp.NewService(repos.Pets),
		petsobs.WithLogger(logger),
		petsobs.WithTracer(instruments.Tracer("internal.pets.application")),
		petsobs.WithMeter(instruments.Meter("internal.pets.application")),
	)
	users := usersobs.New(
		usersapp.NewService(repos.Users),
		usersobs.WithLogger(logger),
		usersobs.WithTracer(instruments.Tracer("internal.users.application")),
		usersobs.WithMeter(instruments.Meter("internal.users.application")),
	)

	adoptionOpts := []adoptionsapp.Option{
		adoptionsapp.WithDirectory(usersdirectory.NewApplicants(repos.Users)),
		adoptionsapp.WithLogger(logger),
		adoptionsapp.WithNotificationTimeout(cfg.NotificationTimeout),
		adoptionsapp.WithOutboxLease(outboxLease(cfg)),
	}
	if collab.Documents != nil {
		adoptionOpts = append(adoptionOpts, adoptionsapp.WithDocuments(collab.Documents))
	}
	if collab.Dispatcher != nil {
		adoptionOpts = append(adoptionOpts, adoptionsapp.WithDispatcher(collab.Dispatcher))
	}
	adoptions := adoptionsobs.New(
		adoptionsapp.NewService(repos.AdoptionStores, repos.AdoptionTx, adoptionOpts...),
		adoptionsobs.WithLogger(logger),
		adoptionsobs.WithTracer(instruments.Tracer("internal.adoptions.application")),
		adoptionsobs.WithMeter(instruments.Meter("internal.adoptions.application")),
	)

	storeOpts := []storeapp.Option{
		storeapp.WithLogger(logger),
		storeapp.WithLocation(cfg.OrderTimezone),
	}
	if cfg.PaymentKeyID != "" {
		storeOpts = append(storeOpts, storeapp.WithGateway(storepayments.NewRazorpay(cfg.PaymentKeyID, cfg.PaymentKeySecret), cfg.PaymentKeySecret))
	} else {
		logger.Warn("PAYMENT_KEY_ID not set, online payments are unavailable")
	}
	store := storeobs.New(
		storeapp.NewService(repos.Orders, repos.Catalog, repos.Sequencer, storeOpts...),
		storeobs.WithLogger(logger),
		storeobs.WithTracer(instruments.Tracer("internal.store.application")),
		storeobs.WithMeter(instruments.Meter("internal.store.application")),
	)

	return Services{Pets: pets, Users: users, Adoptions: adoptions, Store: store}
}

// outboxLease keeps the relay away from an entry while the request path may still be delivering it.
func outboxLease(cfg Config) time.Duration {
	lease := 2 * cfg.NotificationTimeout
	if lease < adoptionsapp.DefaultOutboxLease {
		return adoptionsapp.DefaultOutboxLease
	}
	return lease
}

// Run boots the PawHaven HTTP API and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	const serviceName = "pawhaven-api"
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

	verifier, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		return errors.Wrap(err, "JWT_SECRET")
	}

	repos, closeRepos, err := OpenRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	bucket, err := storage.OpenBucket(ctx, cfg.UploadsBucketURL, logger)
	if err != nil {
		return err
	}
	defer bucket.Close()

	mailer, closeMailer, err := NewMailer(ctx, cfg, logger)
	if err != nil {
		return errors.Wrap(err, "configure mail transport")
	}
	defer closeMailer()
	deliverer, err := NewDeliverer(cfg, repos.Outbox, mailer, logger)
	if err != nil {
		return err
	}
	dispatcher, closeDispatcher := NewDispatcher(cfg, repos, instruments, deliverer)
	defer closeDispatcher()
	if repos.DB == nil {
		// No worker can reach this outbox, so retries happen here.
		relay := adoptionsnotifications.NewRelay(repos.Outbox, dispatcher,
			adoptionsnotifications.WithRelayInterval(cfg.RelayInterval),
			adoptionsnotifications.WithRelayBatchSize(cfg.RelayBatchSize),
			adoptionsnotifications.WithRelayLease(outboxLease(cfg)),
			adoptionsnotifications.WithRelayLogger(logger),
		)
		go func() {
			if err := relay.Run(ctx); err != nil {
				logger.Error("in-process outbox relay stopped", slog.String("error", err.Error()))
			}
		}()
	}

	services := NewServices(cfg, repos, Collaborators{
		Documents:  adoptionsdocuments.NewStore(bucket),
		Dispatcher: dispatcher,
	}, instruments)

	handlers := pawhavenserver.ApiHandleFunctions{
		PetAPI:      pawhavenserver.NewPetAPI(services.Pets),
		AdoptionAPI: pawhavenserver.NewAdoptionAPI(services.Adoptions),
		OrderAPI:    pawhavenserver.NewOrderAPI(services.Store),
		PaymentAPI:  pawhavenserver.NewPaymentAPI(services.Store),
		UserAPI:     pawhavenserver.NewUserAPI(services.Users),
		HealthAPI:   pawhavenserver.NewHealthAPI(readinessChecks(repos)),
	}
	router := pawhavenserver.NewRouter(handlers, pawhavenserver.RouterOptions{
		ServiceName:  serviceName,
		Verifier:     verifier,
		PaymentRate:  rate.Limit(float64(cfg.PaymentRatePerMinute) / 60),
		PaymentBurst: cfg.PaymentBurst,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("PawHaven API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("PawHaven API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("PawHaven API shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func readinessChecks(repos *Repositories) map[string]pawhavenserver.ReadinessCheck {
	checks := map[string]pawhavenserver.ReadinessCheck{}
	if repos.DB != nil {
		checks["postgres"] = func(ctx context.Context) error {
			sqlDB, err := repos.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if repos.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return repos.Redis.Ping(ctx).Err()
		}
	}
	return checks
}
