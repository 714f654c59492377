package api

import (
	"context"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	adoptionsmemory "github.com/Apurer/pawhaven-api/internal/domains/adoptions/adapters/memory"
	adoptionsnotifications "github.com/Apurer/pawhaven-api/internal/domains/adoptions/adapters/notifications"
	adoptionspostgres "github.com/Apurer/pawhaven-api/internal/domains/adoptions/adapters/persistence/postgres"
	adoptionspets "github.com/Apurer/pawhaven-api/internal/domains/adoptions/adapters/pets"
	adoptionsworkflows "github.com/Apurer/pawhaven-api/internal/domains/adoptions/adapters/workflows"
	adoptionsports "github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
	petsmemory "github.com/Apurer/pawhaven-api/internal/domains/pets/adapters/memory"
	petspostgres "github.com/Apurer/pawhaven-api/internal/domains/pets/adapters/persistence/postgres"
	petsports "github.com/Apurer/pawhaven-api/internal/domains/pets/ports"
	storememory "github.com/Apurer/pawhaven-api/internal/domains/store/adapters/memory"
	storepostgres "github.com/Apurer/pawhaven-api/internal/domains/store/adapters/persistence/postgres"
	storesequence "github.com/Apurer/pawhaven-api/internal/domains/store/adapters/sequence"
	storeports "github.com/Apurer/pawhaven-api/internal/domains/store/ports"
	usersmemory "github.com/Apurer/pawhaven-api/internal/domains/users/adapters/memory"
	userspostgres "github.com/Apurer/pawhaven-api/internal/domains/users/adapters/persistence/postgres"
	usersports "github.com/Apurer/pawhaven-api/internal/domains/users/ports"
	"github.com/Apurer/pawhaven-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/pawhaven-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/pawhaven-api/internal/platform/postgres"
	platformredis "github.com/Apurer/pawhaven-api/internal/platform/redis"
)

// Repositories bundles the persistence adapters of every bounded context.
type Repositories struct {
	Pets           petsports.Repository
	Users          usersports.Repository
	Orders         storeports.OrderRepository
	Catalog        storeports.ProductCatalog
	Sequencer      storeports.OrderNumberSequencer
	AdoptionStores adoptionsports.Stores
	AdoptionTx     adoptionsports.TransactionManager
	Outbox         adoptionsports.OutboxRepository

	DB    *gorm.DB
	Redis *goredis.Client
}

// OpenRepositories connects postgres and redis when configured and falls back to
// in-memory adapters otherwise. The returned cleanup closes every connection.
func OpenRepositories(ctx context.Context, cfg Config, logger *slog.Logger) (*Repositories, func(), error) {
	db, closeDB := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	rdb, closeRedis := platformredis.ConnectOptional(ctx, cfg.RedisAddr, logger)
	cleanup := func() {
		closeRedis()
		closeDB()
	}

	var repos *Repositories
	if db != nil {
		if err := migrations.Run(db); err != nil {
			cleanup()
			return nil, nil, errors.Wrap(err, "run migrations")
		}
		repos = postgresRepositories(db)
	} else {
		repos = memoryRepositories()
	}
	repos.Redis = rdb

	counting := storesequence.NewCounting(repos.Orders)
	repos.Sequencer = counting
	if rdb != nil {
		repos.Sequencer = storesequence.NewRedis(rdb, repos.Orders)
	}
	return repos, cleanup, nil
}

func postgresRepositories(db *gorm.DB) *Repositories {
	petStore := func(tx *gorm.DB) adoptionsports.PetStore {
		return adoptionspets.New(petspostgres.NewRepository(tx))
	}
	stores := adoptionspostgres.NewStores(db, petStore)
	return &Repositories{
		Pets:           petspostgres.NewRepository(db),
		Users:          userspostgres.NewRepository(db),
		Orders:         storepostgres.NewRepository(db),
		Catalog:        storepostgres.NewCatalog(db),
		AdoptionStores: stores,
		AdoptionTx:     adoptionspostgres.NewTransactionManager(db, petStore),
		Outbox:         stores.Outbox(),
		DB:             db,
	}
}

func memoryRepositories() *Repositories {
	pets := petsmemory.NewRepository()
	outbox := adoptionsmemory.NewOutbox()
	stores := adoptionsmemory.NewStores(adoptionsmemory.NewRepository(), adoptionspets.New(pets), outbox)
	return &Repositories{
		Pets:           pets,
		Users:          usersmemory.NewRepository(),
		Orders:         storememory.NewRepository(),
		Catalog:        storememory.NewCatalog(),
		AdoptionStores: stores,
		AdoptionTx:     adoptionsmemory.NewTransactionManager(stores),
		Outbox:         outbox,
	}
}

// NewMailer builds the transport selected by MAIL_TRANSPORT.
func NewMailer(ctx context.Context, cfg Config, logger *slog.Logger) (adoptionsports.Mailer, func(), error) {
	switch cfg.MailTransport {
	case MailTransportSMTP:
		mailer, err := adoptionsnotifications.NewSMTPMailer(adoptionsnotifications.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
		if err != nil {
			return nil, nil, err
		}
		return mailer, func() {}, nil
	case MailTransportPubSub:
		mailer, err := adoptionsnotifications.NewPubSubMailer(ctx, cfg.PubSubProjectID, cfg.PubSubTopicID, logger)
		if err != nil {
			return nil, nil, err
		}
		return mailer, func() { _ = mailer.Close() }, nil
	default:
		return adoptionsnotifications.NewLogMailer(logger), func() {}, nil
	}
}

// NewDeliverer renders and sends outbox entries through mailer.
func NewDeliverer(cfg Config, outbox adoptionsports.OutboxRepository, mailer adoptionsports.Mailer, logger *slog.Logger) (*adoptionsnotifications.Deliverer, error) {
	renderer, err := adoptionsnotifications.NewRenderer()
	if err != nil {
		return nil, errors.Wrap(err, "load notification templates")
	}
	return adoptionsnotifications.NewDeliverer(outbox, mailer, renderer,
		adoptionsnotifications.WithMaxAttempts(cfg.RelayMaxAttempts),
		adoptionsnotifications.WithDelivererLogger(logger),
	), nil
}

// NewDispatcher prefers Temporal and falls back to inline delivery when it is disabled or unreachable.
// An in-memory outbox is only visible to this process, so it is always delivered inline.
func NewDispatcher(cfg Config, repos *Repositories, instruments *platformobservability.Instruments, deliverer adoptionsports.NotificationDeliverer) (adoptionsports.NotificationDispatcher, func()) {
	logger := effectiveLogger(instruments)
	if repos == nil || repos.DB == nil {
		logger.Warn("outbox is in memory, delivering notifications inline")
		return adoptionsworkflows.NewInlineDispatcher(deliverer), func() {}
	}
	temporalClient, err := ConnectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Warn("Temporal workflows unavailable, delivering notifications inline", slog.String("error", err.Error()))
		return adoptionsworkflows.NewInlineDispatcher(deliverer), func() {}
	}
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return adoptionsworkflows.NewTemporalDispatcher(temporalClient), temporalClient.Close
}

// ConnectTemporalClient dials Temporal with tracing and structured logging.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
