package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	petsapp "github.com/Apurer/pawhaven-api/internal/domains/pets/application"
	pettypes "github.com/Apurer/pawhaven-api/internal/domains/pets/application/types"
	"github.com/Apurer/pawhaven-api/internal/domains/pets/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/pets/ports"
)

const tracerName = "github.com/Apurer/pawhaven-api/internal/domains/pets/adapters/observability/service"

// Service decorates the pets catalog port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) AddPet(ctx context.Context, input pettypes.AddPetInput) (*pettypes.PetProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.AddPet", attribute.String("pet.category", string(input.Profile.Category)))
	defer span.End()

	result, err := s.inner.AddPet(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add pet", slog.String("pet.name", input.Profile.Name))
	}
	if result != nil && result.Entity != nil {
		span.SetAttributes(attribute.String("pet.id", result.Entity.ID))
		s.metrics.recordCreated(ctx, result.Entity.Category)
		s.logInfo(ctx, "pet added", slog.String("pet.id", result.Entity.ID), slog.String("category", string(result.Entity.Category)))
	}
	return result, nil
}

func (s *Service) UpdatePet(ctx context.Context, input pettypes.UpdatePetInput) (*pettypes.PetProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdatePet", attribute.String("pet.id", input.ID))
	defer span.End()

	result, err := s.inner.UpdatePet(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update pet", slog.String("pet.id", input.ID))
	}
	s.metrics.recordUpdated(ctx)
	s.logInfo(ctx, "pet updated", slog.String("pet.id", input.ID))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, input pettypes.PetIdentifier) (*pettypes.PetProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.GetByID", attribute.String("pet.id", input.ID))
	defer span.End()

	result, err := s.inner.GetByID(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load pet", slog.String("pet.id", input.ID))
	}
	return result, nil
}

// List records the page size on the span; listing is too chatty to log at info.
func (s *Service) List(ctx context.Context, input pettypes.ListPetsInput) (*pettypes.PetPage, error) {
	ctx, span := s.startSpan(ctx, "Service.List",
		attribute.String("pet.filter.category", input.Category),
		attribute.Int("page", input.Page),
	)
	defer span.End()

	result, err := s.inner.List(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list pets")
	}
	span.SetAttributes(attribute.Int("pet.result.count", len(result.Items)), attribute.Int64("pet.result.total", result.Meta.TotalItems))
	return result, nil
}

func (s *Service) Delete(ctx context.Context, input pettypes.PetIdentifier) error {
	ctx, span := s.startSpan(ctx, "Service.Delete", attribute.String("pet.id", input.ID))
	defer span.End()

	if err := s.inner.Delete(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to delete pet", slog.String("pet.id", input.ID))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "pet deleted", slog.String("pet.id", input.ID))
	return nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// handleError keeps caller mistakes out of the error level and span status.
func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	attrs = append(attrs, slog.String("error", err.Error()))
	if errors.Is(err, ports.ErrNotFound) || errors.Is(err, petsapp.ErrInvalidInput) {
		s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
		return err
	}
	span.SetStatus(codes.Error, err.Error())
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	petsCreated metric.Int64Counter
	petsUpdated metric.Int64Counter
	petsDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	petsCreated, _ := m.Int64Counter("pets.service.created", metric.WithDescription("Number of pets listed"))
	petsUpdated, _ := m.Int64Counter("pets.service.updated", metric.WithDescription("Number of pet profile updates"))
	petsDeleted, _ := m.Int64Counter("pets.service.deleted", metric.WithDescription("Number of pets removed"))
	return serviceMetrics{petsCreated: petsCreated, petsUpdated: petsUpdated, petsDeleted: petsDeleted}
}

func (m serviceMetrics) recordCreated(ctx context.Context, category domain.Category) {
	addCounter(ctx, m.petsCreated, attribute.String("pet.category", string(category)))
}

func (m serviceMetrics) recordUpdated(ctx context.Context) {
	addCounter(ctx, m.petsUpdated)
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	addCounter(ctx, m.petsDeleted)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
