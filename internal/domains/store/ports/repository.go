package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/pawhaven-api/internal/domains/store/domain"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
	"github.com/Apurer/pawhaven-api/internal/shared/projection"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	// ErrNumberTaken reports a unique violation on the order number.
	ErrNumberTaken = errors.New("order number already taken")
	// ErrPaymentRecorded reports a unique violation on the gateway payment id.
	ErrPaymentRecorded = errors.New("payment already recorded")
)

// OrderProjection is an order plus persistence metadata.
type OrderProjection = projection.Projection[*domain.Order]

// OrderRepository persists orders. Orders are never deleted.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*OrderProjection, error)
	Get(ctx context.Context, id string) (*OrderProjection, error)
	GetByPaymentID(ctx context.Context, gatewayPaymentID string) (*OrderProjection, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*OrderProjection, error)
	ListByUser(ctx context.Context, userID string) ([]*OrderProjection, error)
	// List returns orders newest first. A non-positive page.Limit returns every order.
	List(ctx context.Context, page pagination.Params) ([]*OrderProjection, int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// ProductCatalog resolves products for pricing. Unknown ids are absent from the result.
type ProductCatalog interface {
	Products(ctx context.Context, ids []string) (map[string]*domain.Product, error)
}

// OrderNumberSequencer hands out the per-day sequence behind order numbers.
type OrderNumberSequencer interface {
	Next(ctx context.Context, day time.Time) (int, error)
}
