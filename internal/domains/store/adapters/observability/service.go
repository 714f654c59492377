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

	storeapp "github.com/Apurer/pawhaven-api/internal/domains/store/application"
	storetypes "github.com/Apurer/pawhaven-api/internal/domains/store/application/types"
	storedomain "github.com/Apurer/pawhaven-api/internal/domains/store/domain"
	storeports "github.com/Apurer/pawhaven-api/internal/domains/store/ports"
)

const tracerName = "github.com/Apurer/pawhaven-api/internal/domains/store/adapters/observability/service"

// Service decorates the store service with tracing, logging, and metrics.
type Service struct {
	inner   storeports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

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
func New(inner storeports.Service, opts ...Option) storeports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
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
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, input storetypes.CreateOrderInput) (*storetypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateOrder",
		attribute.String("order.user_id", input.UserID),
		attribute.Int("order.items", len(input.Items)),
	)
	defer span.End()

	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.String("user.id", input.UserID))
	}
	s.orderCreated(ctx, span, result)
	return result, nil
}

func (s *Service) CreatePaymentOrder(ctx context.Context, input storetypes.PaymentOrderInput) (*storeports.GatewayOrder, error) {
	ctx, span := s.startSpan(ctx, "Service.CreatePaymentOrder",
		attribute.Int64("payment.amount", input.Amount),
		attribute.String("payment.currency", input.Currency),
	)
	defer span.End()

	result, err := s.inner.CreatePaymentOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create gateway order", slog.Int64("payment.amount", input.Amount))
	}
	span.SetAttributes(attribute.String("payment.gateway_order_id", result.ID))
	s.logInfo(ctx, "gateway order created", slog.String("payment.gateway_order_id", result.ID))
	return result, nil
}

// VerifyPayment never logs the submitted signature.
func (s *Service) VerifyPayment(ctx context.Context, input storetypes.VerifyPaymentInput) (*storetypes.VerifyPaymentResult, error) {
	ctx, span := s.startSpan(ctx, "Service.VerifyPayment",
		attribute.String("payment.gateway_order_id", input.OrderCreationID),
		attribute.String("payment.gateway_payment_id", input.RazorpayPaymentID),
	)
	defer span.End()

	result, err := s.inner.VerifyPayment(ctx, input)
	if err != nil {
		if errors.Is(err, storeapp.ErrSecurity) {
			s.metrics.recordSignatureMismatch(ctx)
			span.SetStatus(codes.Error, "payment verification rejected")
			s.logger.LogAttrs(ctx, slog.LevelWarn, "payment verification rejected",
				slog.String("user.id", input.UserID),
				slog.String("payment.gateway_order_id", input.OrderCreationID),
				slog.String("payment.gateway_payment_id", input.RazorpayPaymentID),
			)
			return nil, err
		}
		return nil, s.handleError(ctx, span, err, "failed to verify payment",
			slog.String("payment.gateway_payment_id", input.RazorpayPaymentID))
	}
	span.SetAttributes(attribute.Bool("payment.replayed", result.Replayed))
	if result.Replayed {
		s.logInfo(ctx, "payment verification replayed", slog.String("order.id", result.Order.Entity.ID))
		return result, nil
	}
	s.metrics.recordPaymentVerified(ctx)
	s.orderCreated(ctx, span, result.Order)
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, input storetypes.GetOrderInput) (*storetypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrder", attribute.String("order.id", input.ID))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to get order", slog.String("order.id", input.ID))
	}
	return result, nil
}

func (s *Service) ListMyOrders(ctx context.Context, userID string) ([]*storetypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.ListMyOrders", attribute.String("order.user_id", userID))
	defer span.End()

	result, err := s.inner.ListMyOrders(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list user orders", slog.String("user.id", userID))
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, input storetypes.ListOrdersInput) (*storetypes.OrderPage, error) {
	ctx, span := s.startSpan(ctx, "Service.ListOrders", attribute.Bool("paginate", input.Paginate), attribute.Int("page", input.Page))
	defer span.End()

	result, err := s.inner.ListOrders(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result.Items)))
	return result, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, input storetypes.UpdateOrderStatusInput) (*storetypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateOrderStatus",
		attribute.String("order.id", input.ID),
		attribute.String("order.status", input.Status),
	)
	defer span.End()

	result, err := s.inner.UpdateOrderStatus(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.String("order.id", input.ID))
	}
	s.logInfo(ctx, "order status updated", slog.String("order.id", input.ID), slog.String("order.status", string(result.Entity.Status)))
	return result, nil
}

func (s *Service) orderCreated(ctx context.Context, span trace.Span, order *storetypes.OrderProjection) {
	o := order.Entity
	span.SetAttributes(attribute.String("order.id", o.ID), attribute.String("order.number", o.Number))
	s.metrics.recordOrderCreated(ctx, o.PaymentMethod)
	s.logInfo(ctx, "order created",
		slog.String("order.id", o.ID),
		slog.String("order.number", o.Number),
		slog.String("order.payment_method", string(o.PaymentMethod)),
		slog.String("order.total", o.TotalAmount.StringFixed(2)),
	)
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

type serviceMetrics struct {
	ordersCreated     metric.Int64Counter
	paymentsVerified  metric.Int64Counter
	signatureMismatch metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("store.service.orders_created", metric.WithDescription("Number of orders created"))
	verified, _ := m.Int64Counter("store.service.payments_verified", metric.WithDescription("Number of online payments verified"))
	mismatches, _ := m.Int64Counter("store.service.signature_mismatches", metric.WithDescription("Payment verifications rejected for a bad signature"))
	return serviceMetrics{ordersCreated: created, paymentsVerified: verified, signatureMismatch: mismatches}
}

func (m serviceMetrics) recordOrderCreated(ctx context.Context, method storedomain.PaymentMethod) {
	addCounter(ctx, m.ordersCreated, attribute.String("payment_method", string(method)))
}

func (m serviceMetrics) recordPaymentVerified(ctx context.Context) {
	addCounter(ctx, m.paymentsVerified)
}

func (m serviceMetrics) recordSignatureMismatch(ctx context.Context) {
	addCounter(ctx, m.signatureMismatch)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

var _ storeports.Service = (*Service)(nil)
