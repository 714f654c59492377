package types

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/pawhaven-api/internal/domains/store/domain"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
	"github.com/Apurer/pawhaven-api/internal/shared/projection"
)

// OrderProjection is an order plus persistence metadata.
type OrderProjection = projection.Projection[*domain.Order]

// ItemInput is a requested line. Name and Price are informational; the catalog prices the order.
type ItemInput struct {
	ProductID string           `json:"productId" validate:"required"`
	Quantity  int              `json:"quantity" validate:"gte=1"`
	Name      string           `json:"name"`
	Price     *decimal.Decimal `json:"price"`
}

type ShippingAddressInput struct {
	FullName string `json:"fullName" validate:"required"`
	Phone    string `json:"phone" validate:"required,indian_mobile"`
	Email    string `json:"email" validate:"required,email"`
	Address  string `json:"address" validate:"required"`
}

// CreateOrderInput places a cash-on-delivery order.
type CreateOrderInput struct {
	UserID          string                `json:"-" validate:"-"`
	Items           []ItemInput           `json:"items" validate:"required,min=1,dive"`
	ShippingAddress *ShippingAddressInput `json:"shippingAddress" validate:"required"`
	PaymentMethod   string                `json:"paymentMethod"`
}

// PaymentOrderInput requests a gateway order. Amount is in the smallest currency unit.
type PaymentOrderInput struct {
	Amount   int64  `json:"amount" validate:"gt=0"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt" validate:"max=40"`
}

// OrderData is the cart submitted alongside a payment verification.
type OrderData struct {
	Items           []ItemInput           `json:"items" validate:"required,min=1,dive"`
	ShippingAddress *ShippingAddressInput `json:"shippingAddress" validate:"required"`
}

// VerifyPaymentInput carries the gateway callback. OrderCreationID is the gateway order id that was signed.
type VerifyPaymentInput struct {
	UserID            string     `json:"-" validate:"-"`
	OrderCreationID   string     `json:"orderCreationId" validate:"required"`
	RazorpayPaymentID string     `json:"razorpayPaymentId" validate:"required"`
	RazorpayOrderID   string     `json:"razorpayOrderId"`
	RazorpaySignature string     `json:"razorpaySignature" validate:"required"`
	OrderData         *OrderData `json:"orderData" validate:"required"`
}

// VerifyPaymentResult is the committed order. Replayed is true when the payment was already recorded.
type VerifyPaymentResult struct {
	Order    *OrderProjection
	Replayed bool
}

// Actor is the authenticated caller.
type Actor struct {
	UserID string
	Admin  bool
}

type GetOrderInput struct {
	ID    string
	Actor Actor
}

// ListOrdersInput pages the admin listing when Paginate is set, otherwise returns everything.
type ListOrdersInput struct {
	Paginate bool
	Page     int
	Limit    int
}

// OrderPage is the admin listing. Meta is nil for unpaginated results.
type OrderPage struct {
	Items []*OrderProjection
	Meta  *pagination.Meta
}

type UpdateOrderStatusInput struct {
	ID     string
	Status string
}
