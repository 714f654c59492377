package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	usersapp "github.com/Apurer/pawhaven-api/internal/domains/users/application"
	usertypes "github.com/Apurer/pawhaven-api/internal/domains/users/application/types"
	userports "github.com/Apurer/pawhaven-api/internal/domains/users/ports"
)

const tracerName = "github.com/Apurer/pawhaven-api/internal/domains/users/adapters/observability/service"

// Service decorates the user service with tracing, logging, and metrics.
type Service struct {
	inner   userports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core user service.
func New(inner userports.Service, opts ...Option) userports.Service {
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

func (s *Service) GetProfile(ctx context.Context, userID string) (*usertypes.UserProjection, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetProfile", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()
	result, err := s.inner.GetProfile(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load profile", slog.String("user.id", userID))
	}
	return result, nil
}

func (s *Service) UpsertProfile(ctx context.Context, input usertypes.UpsertProfileInput) (*usertypes.ProfileResult, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.UpsertProfile", trace.WithAttributes(attribute.String("user.id", input.UserID)))
	defer span.End()
	result, err := s.inner.UpsertProfile(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to save profile", slog.String("user.id", input.UserID))
	}
	span.SetAttributes(attribute.Bool("user.created", result.Created))
	s.metrics.recordSaved(ctx, result.Created)
	s.logInfo(ctx, "profile saved", slog.String("user.id", input.UserID), slog.Bool("created", result.Created))
	return result, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	// A missing profile is the normal first-visit path.
	if errors.Is(err, userports.ErrNotFound) || errors.Is(err, usersapp.ErrInvalidInput) {
		s.logger.LogAttrs(ctx, slog.LevelDebug, msg, append(attrs, slog.String("error", err.Error()))...)
		return err
	}
	span.SetStatus(codes.Error, err.Error())
	s.logError(ctx, msg, err, attrs...)
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

type serviceMetrics struct {
	profilesSaved metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	saved, _ := m.Int64Counter("users.service.profiles_saved", metric.WithDescription("Number of profile writes"))
	return serviceMetrics{profilesSaved: saved}
}

func (m serviceMetrics) recordSaved(ctx context.Context, created bool) {
	if m.profilesSaved != nil {
		m.profilesSaved.Add(ctx, 1, metric.WithAttributes(attribute.String("created", strconv.FormatBool(created))))
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ userports.Service = (*Service)(nil)
