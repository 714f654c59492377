package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentOnline PaymentMethod = "online"
)

var (
	ErrEmptyID              = errors.New("order id is required")
	ErrEmptyUser            = errors.New("order user is required")
	ErrEmptyItems           = errors.New("order must contain at least one item")
	ErrInvalidQuantity      = errors.New("item quantity must be at least 1")
	ErrInvalidPrice         = errors.New("item price must not be negative")
	ErrEmptyProduct         = errors.New("item product is required")
	ErrMissingShipping      = errors.New("shipping address is incomplete")
	ErrInvalidStatus        = errors.New("order status must be one of pending, paid, delivered, cancelled")
	ErrInvalidPaymentMethod = errors.New("payment method must be cod or online")
	ErrInvalidTransition    = errors.New("order status transition is not allowed")
	ErrMissingPayment       = errors.New("online orders require payment details")
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusPaid, StatusDelivered, StatusCancelled},
	StatusPaid:      {StatusDelivered, StatusCancelled},
	StatusDelivered: {StatusCancelled},
}

// ParseStatus converts raw input into a Status.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusPending, StatusPaid, StatusDelivered, StatusCancelled:
		return s, nil
	default:
		return "", ErrInvalidStatus
	}
}

// CanTransitionTo reports whether next is reachable from s. Cancelled is terminal.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	for _, candidate := range transitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParsePaymentMethod defaults an empty value to cash on delivery.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(raw))); m {
	case "":
		return PaymentCOD, nil
	case PaymentCOD, PaymentOnline:
		return m, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

// Item is a line of an order. Name and Price are snapshots taken at order time.
type Item struct {
	ProductID string
	Name      string
	Quantity  int
	Price     decimal.Decimal
}

// Subtotal is Price times Quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type ShippingAddress struct {
	FullName string
	Phone    string
	Email    string
	Address  string
}

func (a ShippingAddress) complete() bool {
	return strings.TrimSpace(a.FullName) != "" &&
		strings.TrimSpace(a.Phone) != "" &&
		strings.TrimSpace(a.Email) != "" &&
		strings.TrimSpace(a.Address) != ""
}

// PaymentDetails are the gateway identifiers of a verified online payment.
type PaymentDetails struct {
	GatewayOrderID   string
	GatewayPaymentID string
	GatewaySignature string
}

// Order is a pharmacy purchase.
type Order struct {
	ID            string
	Number        string
	UserID        string
	Items         []Item
	Shipping      ShippingAddress
	PaymentMethod PaymentMethod
	Payment       *PaymentDetails
	Status        Status
	TotalAmount   decimal.Decimal
	CreatedAt     time.Time
}

// Total sums the item subtotals.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// NewCODOrder builds a pending cash-on-delivery order and snapshots its total.
func NewCODOrder(id, number, userID string, items []Item, shipping ShippingAddress, now time.Time) (*Order, error) {
	o := newOrder(id, number, userID, items, shipping, now)
	o.PaymentMethod = PaymentCOD
	o.Status = StatusPending
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// NewPaidOrder builds an online order whose payment was already verified.
func NewPaidOrder(id, number, userID string, items []Item, shipping ShippingAddress, payment PaymentDetails, now time.Time) (*Order, error) {
	o := newOrder(id, number, userID, items, shipping, now)
	o.PaymentMethod = PaymentOnline
	o.Status = StatusPaid
	o.Payment = &payment
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func newOrder(id, number, userID string, items []Item, shipping ShippingAddress, now time.Time) *Order {
	return &Order{
		ID:          strings.TrimSpace(id),
		Number:      number,
		UserID:      strings.TrimSpace(userID),
		Items:       append([]Item(nil), items...),
		Shipping:    shipping,
		TotalAmount: Total(items),
		CreatedAt:   now,
	}
}

// Validate enforces the aggregate invariants, including the total snapshot.
func (o *Order) Validate() error {
	switch {
	case o.ID == "":
		return ErrEmptyID
	case o.UserID == "":
		return ErrEmptyUser
	case len(o.Items) == 0:
		return ErrEmptyItems
	case !o.Shipping.complete():
		return ErrMissingShipping
	}
	if !ValidOrderNumber(o.Number) {
		return ErrInvalidOrderNumber
	}
	for _, item := range o.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return ErrEmptyProduct
		}
		if item.Quantity < 1 {
			return ErrInvalidQuantity
		}
		if item.Price.IsNegative() {
			return ErrInvalidPrice
		}
	}
	if _, err := ParseStatus(string(o.Status)); err != nil {
		return err
	}
	switch o.PaymentMethod {
	case PaymentCOD:
	case PaymentOnline:
		if o.Payment == nil || o.Payment.GatewayPaymentID == "" {
			return ErrMissingPayment
		}
	default:
		return ErrInvalidPaymentMethod
	}
	return nil
}

// Transition moves the order to next and reports whether the status changed.
func (o *Order) Transition(next Status) (bool, error) {
	if _, err := ParseStatus(string(next)); err != nil {
		return false, err
	}
	if !o.Status.CanTransitionTo(next) {
		return false, ErrInvalidTransition
	}
	changed := o.Status != next
	o.Status = next
	return changed, nil
}

// Owner reports whether userID placed the order.
func (o *Order) Owner(userID string) bool {
	return userID != "" && o.UserID == userID
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Items = append([]Item(nil), o.Items...)
	if o.Payment != nil {
		p := *o.Payment
		cp.Payment = &p
	}
	return &cp
}
