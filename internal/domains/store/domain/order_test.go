package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shipping = ShippingAddress{FullName: "Asha Rao", Phone: "9876543210", Email: "asha@example.com", Address: "12 MG Road, Pune"}

func items() []Item {
	return []Item{
		{ProductID: "prod-1", Name: "Flea drops", Quantity: 2, Price: decimal.RequireFromString("199.50")},
		{ProductID: "prod-2", Name: "Dewormer", Quantity: 1, Price: decimal.RequireFromString("89")},
	}
}

func TestNewCODOrder_SnapshotsTotal(t *testing.T) {
	order, err := NewCODOrder("o-1", "ORD-260301-0001", "u-1", items(), shipping, time.Now())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, PaymentCOD, order.PaymentMethod)
	assert.True(t, decimal.RequireFromString("488").Equal(order.TotalAmount))
}

func TestNewOrder_Validation(t *testing.T) {
	bad := items()
	bad[0].Quantity = 0
	_, err := NewCODOrder("o-1", "ORD-260301-0001", "u-1", bad, shipping, time.Now())
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewCODOrder("o-1", "ORD-260301-0001", "u-1", nil, shipping, time.Now())
	require.ErrorIs(t, err, ErrEmptyItems)

	_, err = NewCODOrder("o-1", "ORD-26031-1", "u-1", items(), shipping, time.Now())
	require.ErrorIs(t, err, ErrInvalidOrderNumber)

	_, err = NewCODOrder("o-1", "ORD-260301-0001", "u-1", items(), ShippingAddress{FullName: "Asha"}, time.Now())
	require.ErrorIs(t, err, ErrMissingShipping)

	_, err = NewPaidOrder("o-1", "ORD-260301-0001", "u-1", items(), shipping, PaymentDetails{}, time.Now())
	require.ErrorIs(t, err, ErrMissingPayment)
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusDelivered, true},
		{StatusPending, StatusCancelled, true},
		{StatusPaid, StatusDelivered, true},
		{StatusPaid, StatusPending, false},
		{StatusDelivered, StatusCancelled, true},
		{StatusDelivered, StatusPaid, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCancelled, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}

	order, err := NewCODOrder("o-1", "ORD-260301-0001", "u-1", items(), shipping, time.Now())
	require.NoError(t, err)
	changed, err := order.Transition(StatusDelivered)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = order.Transition(StatusDelivered)
	require.NoError(t, err)
	assert.False(t, changed)
	_, err = order.Transition("shipped")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestFormatOrderNumber(t *testing.T) {
	day := time.Date(2026, 3, 7, 23, 59, 0, 0, time.UTC)
	number, err := FormatOrderNumber(day, 7)
	require.NoError(t, err)
	assert.Equal(t, "ORD-260307-0007", number)
	assert.True(t, ValidOrderNumber(number))

	_, err = FormatOrderNumber(day, MaxDailySequence+1)
	require.ErrorIs(t, err, ErrSequenceExhausted)

	start, end := DayBounds(day)
	assert.Equal(t, time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), end)
}

func TestVerifyPaymentSignature(t *testing.T) {
	secret := []byte("test_secret")
	signature := SignPayment(secret, "order_abc", "pay_xyz")
	assert.Len(t, signature, 64)
	assert.True(t, VerifyPaymentSignature(secret, "order_abc", "pay_xyz", signature))

	for i := range signature {
		mutated := []byte(signature)
		if mutated[i] == 'a' {
			mutated[i] = 'b'
		} else {
			mutated[i] = 'a'
		}
		assert.False(t, VerifyPaymentSignature(secret, "order_abc", "pay_xyz", string(mutated)), "mutation at %d", i)
	}
	assert.False(t, VerifyPaymentSignature(nil, "order_abc", "pay_xyz", signature))
	assert.False(t, VerifyPaymentSignature(secret, "order_abc", "pay_other", signature))
}
