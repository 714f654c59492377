package ports

import "context"

// GatewayOrderRequest asks the payment gateway for an order. Amount is in the smallest currency unit.
type GatewayOrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
}

// GatewayOrder is the gateway's order object, passed through to the client.
type GatewayOrder struct {
	ID       string         `json:"id"`
	Amount   int64          `json:"amount"`
	Currency string         `json:"currency"`
	Receipt  string         `json:"receipt,omitempty"`
	Status   string         `json:"status"`
	Raw      map[string]any `json:"-"`
}

// PaymentGateway creates gateway-side orders for online payments.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req GatewayOrderRequest) (*GatewayOrder, error)
}
