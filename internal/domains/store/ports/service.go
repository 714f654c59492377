package ports

import (
	"context"

	storetypes "github.com/Apurer/pawhaven-api/internal/domains/store/application/types"
)

// Service exposes order and payment use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, input storetypes.CreateOrderInput) (*storetypes.OrderProjection, error)
	CreatePaymentOrder(ctx context.Context, input storetypes.PaymentOrderInput) (*GatewayOrder, error)
	VerifyPayment(ctx context.Context, input storetypes.VerifyPaymentInput) (*storetypes.VerifyPaymentResult, error)
	GetOrder(ctx context.Context, input storetypes.GetOrderInput) (*storetypes.OrderProjection, error)
	ListMyOrders(ctx context.Context, userID string) ([]*storetypes.OrderProjection, error)
	ListOrders(ctx context.Context, input storetypes.ListOrdersInput) (*storetypes.OrderPage, error)
	UpdateOrderStatus(ctx context.Context, input storetypes.UpdateOrderStatusInput) (*storetypes.OrderProjection, error)
}
