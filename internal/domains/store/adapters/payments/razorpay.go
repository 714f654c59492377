// Package payments adapts the Razorpay API to the store's payment gateway port.
package payments

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	razorpay "github.com/razorpay/razorpay-go"

	"github.com/Apurer/pawhaven-api/internal/domains/store/ports"
)

// OrderCreator is the slice of the Razorpay SDK the gateway calls.
type OrderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

var _ ports.PaymentGateway = (*Razorpay)(nil)

// Razorpay creates gateway orders through the Razorpay Orders API.
type Razorpay struct {
	orders OrderCreator
}

// NewRazorpay builds a gateway using the key pair issued by Razorpay.
func NewRazorpay(keyID, keySecret string) *Razorpay {
	client := razorpay.NewClient(keyID, keySecret)
	return &Razorpay{orders: client.Order}
}

// NewRazorpayWithCreator wraps an existing orders resource.
func NewRazorpayWithCreator(orders OrderCreator) *Razorpay {
	return &Razorpay{orders: orders}
}

// CreateOrder calls the SDK, which does not accept a context; cancellation is checked before the call.
func (r *Razorpay) CreateOrder(ctx context.Context, req ports.GatewayOrderRequest) (*ports.GatewayOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload := map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
	}
	if req.Receipt != "" {
		payload["receipt"] = req.Receipt
	}
	body, err := r.orders.Create(payload, nil)
	if err != nil {
		return nil, errors.Wrap(err, "razorpay create order")
	}
	id, _ := body["id"].(string)
	if id == "" {
		return nil, errors.New("razorpay create order: response has no id")
	}
	return &ports.GatewayOrder{
		ID:       id,
		Amount:   toInt64(body["amount"]),
		Currency: fmt.Sprint(valueOr(body["currency"], req.Currency)),
		Receipt:  fmt.Sprint(valueOr(body["receipt"], "")),
		Status:   fmt.Sprint(valueOr(body["status"], "created")),
		Raw:      body,
	}, nil
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	}
	return 0
}

func valueOr(v, fallback any) any {
	if v == nil {
		return fallback
	}
	return v
}
