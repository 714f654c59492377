package observability

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	adoptiontypes "github.com/Apurer/pawhaven-api/internal/domains/adoptions/application/types"
	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
)

const tracerName = "github.com/Apurer/pawhaven-api/internal/domains/adoptions/adapters/observability/service"

// Service decorates the adoption lifecycle with tracing, logging, and metrics.
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

func (s *Service) Submit(ctx context.Context, input adoptiontypes.SubmitInput) (*adoptiontypes.AdoptionDetails, error) {
	ctx, span := s.startSpan(ctx, "Service.Submit",
		attribute.String("adoption.pet_id", input.PetID),
		attribute.String("adoption.applicant_id", input.ApplicantID),
	)
	defer span.End()

	result, err := s.inner.Submit(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to submit adoption application",
			slog.String("pet.id", input.PetID), slog.String("applicant.id", input.ApplicantID))
	}
	id := result.Adoption.Entity.ID
	span.SetAttributes(attribute.String("adoption.id", id))
	s.metrics.recordSubmitted(ctx)
	s.logInfo(ctx, "adoption application submitted", slog.String("adoption.id", id), slog.String("pet.id", input.PetID))
	return result, nil
}

func (s *Service) Get(ctx context.Context, input adoptiontypes.GetInput) (*adoptiontypes.AdoptionDetails, error) {
	ctx, span := s.startSpan(ctx, "Service.Get", attribute.String("adoption.id", input.ID))
	defer span.End()

	result, err := s.inner.Get(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load adoption", slog.String("adoption.id", input.ID))
	}
	return result, nil
}

func (s *Service) List(ctx context.Context, input adoptiontypes.ListInput) (*adoptiontypes.AdoptionPage, error) {
	ctx, span := s.startSpan(ctx, "Service.List",
		attribute.String("adoption.filter.status", input.Status),
		attribute.Int("page", input.Page),
	)
	defer span.End()

	result, err := s.inner.List(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list adoptions")
	}
	span.SetAttributes(attribute.Int("adoption.result.count", len(result.Items)), attribute.Int64("adoption.result.total", result.Meta.TotalItems))
	return result, nil
}

func (s *Service) ListMine(ctx context.Context, applicantID string) ([]*adoptiontypes.AdoptionDetails, error) {
	ctx, span := s.startSpan(ctx, "Service.ListMine", attribute.String("adoption.applicant_id", applicantID))
	defer span.End()

	result, err := s.inner.ListMine(ctx, applicantID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list applicant adoptions", slog.String("applicant.id", applicantID))
	}
	span.SetAttributes(attribute.Int("adoption.result.count", len(result)))
	return result, nil
}

// UpdateStatus logs a failed notification at warn: the transition itself succeeded.
func (s *Service) UpdateStatus(ctx context.Context, input adoptiontypes.UpdateStatusInput) (*adoptiontypes.StatusUpdateResult, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateStatus",
		attribute.String("adoption.id", input.ID),
		attribute.String("adoption.status", input.Status),
	)
	defer span.End()

	result, err := s.inner.UpdateStatus(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update adoption status",
			slog.String("adoption.id", input.ID), slog.String("status", input.Status))
	}
	span.SetAttributes(attribute.Bool("adoption.changed", result.Changed), attribute.Bool("adoption.email_sent", result.EmailSent))
	if !result.Changed {
		return result, nil
	}
	to := result.Adoption.Adoption.Entity.Status
	s.metrics.recordStatusChanged(ctx, to)
	s.metrics.recordNotification(ctx, result.EmailSent)
	attrs := []slog.Attr{
		slog.String("adoption.id", input.ID),
		slog.String("status", string(to)),
		slog.Bool("email_sent", result.EmailSent),
	}
	s.logInfo(ctx, "adoption status changed", attrs...)
	if !result.EmailSent {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "status notification not sent, left to the outbox relay", attrs...)
	}
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := s.startSpan(ctx, "Service.Delete", attribute.String("adoption.id", id))
	defer span.End()

	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete adoption", slog.String("adoption.id", id))
	}
	s.logInfo(ctx, "adoption deleted", slog.String("adoption.id", id))
	return nil
}

func (s *Service) Stats(ctx context.Context) (*adoptiontypes.Stats, error) {
	ctx, span := s.startSpan(ctx, "Service.Stats")
	defer span.End()

	result, err := s.inner.Stats(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to compute adoption stats")
	}
	span.SetAttributes(attribute.Int64("adoption.total", result.Total))
	return result, nil
}

func (s *Service) Reconcile(ctx context.Context) (*adoptiontypes.ReconcileReport, error) {
	ctx, span := s.startSpan(ctx, "Service.Reconcile")
	defer span.End()

	report, err := s.inner.Reconcile(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to reconcile pet availability")
	}
	span.SetAttributes(attribute.Int("adoption.repaired", report.Repaired()))
	level := slog.LevelInfo
	if report.Repaired() > 0 {
		level = slog.LevelWarn
	}
	s.logger.LogAttrs(ctx, level, "pet availability reconciled",
		slog.Any("marked_adopted", report.MarkedAdopted),
		slog.Any("marked_available", report.MarkedAvailable),
	)
	return report, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	submitted     metric.Int64Counter
	statusChanged metric.Int64Counter
	notifications metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	submitted, _ := m.Int64Counter("adoptions.service.submitted", metric.WithDescription("Number of adoption applications submitted"))
	statusChanged, _ := m.Int64Counter("adoptions.service.status_changed", metric.WithDescription("Number of adoption status transitions"))
	notifications, _ := m.Int64Counter("adoptions.service.notifications", metric.WithDescription("Status notifications attempted in the request path"))
	return serviceMetrics{submitted: submitted, statusChanged: statusChanged, notifications: notifications}
}

func (m serviceMetrics) recordSubmitted(ctx context.Context) {
	addCounter(ctx, m.submitted)
}

func (m serviceMetrics) recordStatusChanged(ctx context.Context, to domain.Status) {
	addCounter(ctx, m.statusChanged, attribute.String("to", string(to)))
}

func (m serviceMetrics) recordNotification(ctx context.Context, sent bool) {
	addCounter(ctx, m.notifications, attribute.String("sent", strconv.FormatBool(sent)))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
