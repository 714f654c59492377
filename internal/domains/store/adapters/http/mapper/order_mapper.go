package mapper

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	storetypes "github.com/Apurer/pawhaven-api/internal/domains/store/application/types"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
)

// Item is an order line as returned to clients.
type Item struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	Price     json.Number `json:"price"`
	Subtotal  json.Number `json:"subtotal"`
}

type ShippingAddress struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
}

// PaymentDetails omits the gateway signature.
type PaymentDetails struct {
	GatewayOrderID   string `json:"gatewayOrderId"`
	GatewayPaymentID string `json:"gatewayPaymentId"`
}

type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	UserID          string          `json:"user"`
	Items           []Item          `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentDetails  *PaymentDetails `json:"paymentDetails,omitempty"`
	Status          string          `json:"status"`
	TotalAmount     json.Number     `json:"totalAmount"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderList is the paginated admin envelope.
type OrderList struct {
	Orders     []Order          `json:"orders"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
}

// VerifyResult answers a payment verification.
type VerifyResult struct {
	Success     bool   `json:"success"`
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Replayed    bool   `json:"replayed,omitempty"`
}

// StatusPayload is the admin fulfilment body.
type StatusPayload struct {
	Status string `json:"status"`
}

func FromOrder(p *storetypes.OrderProjection) Order {
	if p == nil || p.Entity == nil {
		return Order{}
	}
	o := p.Entity
	items := make([]Item, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, Item{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     money(item.Price),
			Subtotal:  money(item.Subtotal()),
		})
	}
	out := Order{
		ID:          o.ID,
		OrderNumber: o.Number,
		UserID:      o.UserID,
		Items:       items,
		ShippingAddress: ShippingAddress{
			FullName: o.Shipping.FullName,
			Phone:    o.Shipping.Phone,
			Email:    o.Shipping.Email,
			Address:  o.Shipping.Address,
		},
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		TotalAmount:   money(o.TotalAmount),
		CreatedAt:     p.Metadata.CreatedAt,
		UpdatedAt:     p.Metadata.UpdatedAt,
	}
	if o.Payment != nil {
		out.PaymentDetails = &PaymentDetails{
			GatewayOrderID:   o.Payment.GatewayOrderID,
			GatewayPaymentID: o.Payment.GatewayPaymentID,
		}
	}
	return out
}

func FromOrders(items []*storetypes.OrderProjection) []Order {
	out := make([]Order, 0, len(items))
	for _, item := range items {
		out = append(out, FromOrder(item))
	}
	return out
}

// FromPage keeps Pagination nil for unpaginated listings.
func FromPage(page *storetypes.OrderPage) OrderList {
	return OrderList{Orders: FromOrders(page.Items), Pagination: page.Meta}
}

func FromVerifyResult(result *storetypes.VerifyPaymentResult) VerifyResult {
	return VerifyResult{
		Success:     true,
		OrderID:     result.Order.Entity.ID,
		OrderNumber: result.Order.Entity.Number,
		Replayed:    result.Replayed,
	}
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}
