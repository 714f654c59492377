package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/Apurer/pawhaven-api/internal/domains/store/application/types"
	"github.com/Apurer/pawhaven-api/internal/domains/store/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/store/ports"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
	"github.com/Apurer/pawhaven-api/internal/shared/validation"
)

const defaultCurrency = "INR"

var listSort = pagination.SortSpec{
	Allowed:      map[string]string{"createdAt": "created_at"},
	DefaultField: "createdAt",
	DefaultDesc:  true,
}

// Service orchestrates orders and payments.
type Service struct {
	orders    ports.OrderRepository
	catalog   ports.ProductCatalog
	sequencer ports.OrderNumberSequencer
	gateway   ports.PaymentGateway
	secret    []byte
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
	location  *time.Location
	newID     func() string
}

type Option func(*Service)

// WithGateway enables online payments.
func WithGateway(gateway ports.PaymentGateway, secret string) Option {
	return func(s *Service) {
		s.gateway = gateway
		s.secret = []byte(secret)
	}
}

// WithSigningSecret sets the HMAC secret without a gateway, e.g. for verification-only deployments.
func WithSigningSecret(secret string) Option {
	return func(s *Service) { s.secret = []byte(secret) }
}

// WithLocation sets the calendar used for the daily order sequence.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(orders ports.OrderRepository, catalog ports.ProductCatalog, sequencer ports.OrderNumberSequencer, opts ...Option) *Service {
	s := &Service{
		orders:    orders,
		catalog:   catalog,
		sequencer: sequencer,
		validator: validation.New(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
		location:  time.UTC,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateOrder places a cash-on-delivery order priced from the catalog.
func (s *Service) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*types.OrderProjection, error) {
	method, err := domain.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, mapError(err)
	}
	if method != domain.PaymentCOD {
		return nil, invalid("paymentMethod", "online orders are created by payment verification")
	}
	if err := s.validator.Struct(input); err != nil {
		return nil, mapError(err)
	}
	items, err := s.priceItems(ctx, input.Items)
	if err != nil {
		return nil, mapError(err)
	}
	now := s.now()
	number, err := s.nextNumber(ctx, now)
	if err != nil {
		return nil, mapError(err)
	}
	order, err := domain.NewCODOrder(s.newID(), number, input.UserID, items, toShipping(input.ShippingAddress), now)
	if err != nil {
		return nil, mapError(err)
	}
	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	return created, nil
}

// CreatePaymentOrder asks the gateway for an order object.
func (s *Service) CreatePaymentOrder(ctx context.Context, input types.PaymentOrderInput) (*ports.GatewayOrder, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, mapError(err)
	}
	if s.gateway == nil {
		return nil, fmt.Errorf("%w: gateway not configured", ErrUpstream)
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	order, err := s.gateway.CreateOrder(ctx, ports.GatewayOrderRequest{
		Amount:   input.Amount,
		Currency: currency,
		Receipt:  strings.TrimSpace(input.Receipt),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return order, nil
}

// VerifyPayment commits a paid order only when the gateway signature verifies.
// Replaying a verified payment returns the order it created.
func (s *Service) VerifyPayment(ctx context.Context, input types.VerifyPaymentInput) (*types.VerifyPaymentResult, error) {
	input.OrderCreationID = strings.TrimSpace(input.OrderCreationID)
	input.RazorpayOrderID = strings.TrimSpace(input.RazorpayOrderID)
	input.RazorpayPaymentID = strings.TrimSpace(input.RazorpayPaymentID)
	input.RazorpaySignature = strings.TrimSpace(input.RazorpaySignature)
	if err := s.validator.Struct(input); err != nil {
		return nil, mapError(err)
	}
	if input.RazorpayOrderID != "" && input.RazorpayOrderID != input.OrderCreationID {
		return nil, fmt.Errorf("%w: gateway order mismatch", ErrSecurity)
	}
	if !domain.VerifyPaymentSignature(s.secret, input.OrderCreationID, input.RazorpayPaymentID, input.RazorpaySignature) {
		return nil, ErrSecurity
	}

	if existing, err := s.orders.GetByPaymentID(ctx, input.RazorpayPaymentID); err == nil {
		return s.replay(existing, input)
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}

	items, err := s.priceItems(ctx, input.OrderData.Items)
	if err != nil {
		return nil, mapError(err)
	}
	now := s.now()
	number, err := s.nextNumber(ctx, now)
	if err != nil {
		return nil, mapError(err)
	}
	order, err := domain.NewPaidOrder(s.newID(), number, input.UserID, items, toShipping(input.OrderData.ShippingAddress), domain.PaymentDetails{
		GatewayOrderID:   input.OrderCreationID,
		GatewayPaymentID: input.RazorpayPaymentID,
		GatewaySignature: input.RazorpaySignature,
	}, now)
	if err != nil {
		return nil, mapError(err)
	}
	created, err := s.orders.Create(ctx, order)
	if errors.Is(err, ports.ErrPaymentRecorded) {
		existing, getErr := s.orders.GetByPaymentID(ctx, input.RazorpayPaymentID)
		if getErr != nil {
			return nil, getErr
		}
		return s.replay(existing, input)
	}
	if err != nil {
		return nil, mapError(err)
	}
	return &types.VerifyPaymentResult{Order: created}, nil
}

func (s *Service) replay(existing *types.OrderProjection, input types.VerifyPaymentInput) (*types.VerifyPaymentResult, error) {
	if !existing.Entity.Owner(input.UserID) {
		return nil, fmt.Errorf("%w: payment belongs to another order", ErrSecurity)
	}
	return &types.VerifyPaymentResult{Order: existing, Replayed: true}, nil
}

// GetOrder returns an order to its owner or an admin.
func (s *Service) GetOrder(ctx context.Context, input types.GetOrderInput) (*types.OrderProjection, error) {
	order, err := s.orders.Get(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	if !input.Actor.Admin && !order.Entity.Owner(input.Actor.UserID) {
		return nil, ErrForbidden
	}
	return order, nil
}

// ListMyOrders returns the caller's orders, newest first.
func (s *Service) ListMyOrders(ctx context.Context, userID string) ([]*types.OrderProjection, error) {
	return s.orders.ListByUser(ctx, userID)
}

// ListOrders returns every order, or one page when input.Paginate is set.
func (s *Service) ListOrders(ctx context.Context, input types.ListOrdersInput) (*types.OrderPage, error) {
	if !input.Paginate {
		items, _, err := s.orders.List(ctx, pagination.Params{Page: 1, SortField: "created_at", Desc: true})
		if err != nil {
			return nil, err
		}
		return &types.OrderPage{Items: items}, nil
	}
	params := pagination.Normalize(pagination.Request{Page: input.Page, Limit: input.Limit}, listSort)
	items, total, err := s.orders.List(ctx, params)
	if err != nil {
		return nil, err
	}
	meta := pagination.NewMeta(params, total)
	return &types.OrderPage{Items: items, Meta: &meta}, nil
}

// UpdateOrderStatus applies an admin fulfilment transition.
func (s *Service) UpdateOrderStatus(ctx context.Context, input types.UpdateOrderStatusInput) (*types.OrderProjection, error) {
	next, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	current, err := s.orders.Get(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	changed, err := current.Entity.Transition(next)
	if err != nil {
		return nil, mapError(err)
	}
	if !changed {
		return current, nil
	}
	updated, err := s.orders.UpdateStatus(ctx, input.ID, next)
	if err != nil {
		return nil, mapError(err)
	}
	return updated, nil
}

// priceItems snapshots name and price from the catalog. Client-supplied values are only compared and logged.
func (s *Service) priceItems(ctx context.Context, requested []types.ItemInput) ([]domain.Item, error) {
	ids := make([]string, 0, len(requested))
	for _, item := range requested {
		ids = append(ids, strings.TrimSpace(item.ProductID))
	}
	products, err := s.catalog.Products(ctx, ids)
	if err != nil {
		return nil, err
	}
	var missing []string
	items := make([]domain.Item, 0, len(requested))
	for i, req := range requested {
		product, ok := products[ids[i]]
		if !ok || !product.Active {
			missing = append(missing, ids[i])
			continue
		}
		if (req.Price != nil && !req.Price.Equal(product.Price)) || (req.Name != "" && req.Name != product.Name) {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "client item snapshot differs from catalog, using catalog",
				slog.String("product.id", product.ID),
				slog.String("catalog.price", product.Price.String()),
			)
		}
		items = append(items, domain.Item{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  req.Quantity,
			Price:     product.Price,
		})
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ports.ErrProductNotFound, strings.Join(missing, ", "))
	}
	return items, nil
}

func (s *Service) nextNumber(ctx context.Context, now time.Time) (string, error) {
	day := now.In(s.location)
	seq, err := s.sequencer.Next(ctx, day)
	if err != nil {
		return "", err
	}
	return domain.FormatOrderNumber(day, seq)
}

func toShipping(in *types.ShippingAddressInput) domain.ShippingAddress {
	if in == nil {
		return domain.ShippingAddress{}
	}
	return domain.ShippingAddress{
		FullName: strings.TrimSpace(in.FullName),
		Phone:    strings.TrimSpace(in.Phone),
		Email:    strings.TrimSpace(in.Email),
		Address:  strings.TrimSpace(in.Address),
	}
}

var _ ports.Service = (*Service)(nil)
