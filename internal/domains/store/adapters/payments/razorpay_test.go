package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/pawhaven-api/internal/domains/store/ports"
)

type stubOrders struct {
	got  map[string]interface{}
	resp map[string]interface{}
	err  error
}

func (s *stubOrders) Create(data map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	s.got = data
	return s.resp, s.err
}

func TestRazorpay_CreateOrder(t *testing.T) {
	stub := &stubOrders{resp: map[string]interface{}{
		"id":       "order_abc",
		"amount":   float64(48800),
		"currency": "INR",
		"receipt":  "cart-1",
		"status":   "created",
	}}
	gateway := NewRazorpayWithCreator(stub)

	order, err := gateway.CreateOrder(context.Background(), ports.GatewayOrderRequest{Amount: 48800, Currency: "INR", Receipt: "cart-1"})
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.EqualValues(t, 48800, order.Amount)
	assert.Equal(t, "created", order.Status)
	assert.Equal(t, int64(48800), stub.got["amount"])
	assert.Equal(t, "cart-1", stub.got["receipt"])
}

func TestRazorpay_CreateOrderFailures(t *testing.T) {
	_, err := NewRazorpayWithCreator(&stubOrders{err: assert.AnError}).
		CreateOrder(context.Background(), ports.GatewayOrderRequest{Amount: 100, Currency: "INR"})
	assert.ErrorIs(t, err, assert.AnError)

	_, err = NewRazorpayWithCreator(&stubOrders{resp: map[string]interface{}{}}).
		CreateOrder(context.Background(), ports.GatewayOrderRequest{Amount: 100, Currency: "INR"})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stub := &stubOrders{}
	_, err = NewRazorpayWithCreator(stub).CreateOrder(ctx, ports.GatewayOrderRequest{Amount: 100})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, stub.got)
}
