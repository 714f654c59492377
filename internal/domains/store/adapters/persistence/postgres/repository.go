package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/pawhaven-api/internal/domains/store/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/store/ports"
	platformpostgres "github.com/Apurer/pawhaven-api/internal/platform/postgres"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
	"github.com/Apurer/pawhaven-api/internal/shared/projection"
)

var _ ports.OrderRepository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the orders and products tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&orderRecord{}, &productRecord{})
}

type itemDoc struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type shippingDoc struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
}

// orderRecord maps the order aggregate to a relational table. Items and shipping are stored as documents.
type orderRecord struct {
	ID               string          `gorm:"primaryKey;column:id;type:varchar(36)"`
	Number           string          `gorm:"column:number;type:varchar(16);not null;uniqueIndex:ux_orders_number"`
	UserID           string          `gorm:"column:user_id;type:varchar(64);not null;index"`
	Items            []itemDoc       `gorm:"column:items;type:jsonb;serializer:json"`
	Shipping         shippingDoc     `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	PaymentMethod    string          `gorm:"column:payment_method;type:varchar(16);not null"`
	GatewayOrderID   *string         `gorm:"column:gateway_order_id;type:varchar(64)"`
	GatewayPaymentID *string         `gorm:"column:gateway_payment_id;type:varchar(64);uniqueIndex:ux_orders_payment"`
	GatewaySignature *string         `gorm:"column:gateway_signature;type:varchar(128)"`
	Status           string          `gorm:"column:status;type:varchar(16);not null;index"`
	TotalAmount      decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`
	CreatedAt        time.Time       `gorm:"column:created_at;index"`
	UpdatedAt        time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if platformpostgres.IsUniqueViolation(err) {
			return nil, r.classifyConflict(ctx, order)
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// classifyConflict tells a replayed payment apart from a number collision.
func (r *Repository) classifyConflict(ctx context.Context, order *domain.Order) error {
	if order.Payment != nil {
		if _, err := r.GetByPaymentID(ctx, order.Payment.GatewayPaymentID); err == nil {
			return ports.ErrPaymentRecorded
		}
	}
	return ports.ErrNumberTaken
}

func (r *Repository) Get(ctx context.Context, id string) (*ports.OrderProjection, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetByPaymentID(ctx context.Context, gatewayPaymentID string) (*ports.OrderProjection, error) {
	return r.first(ctx, "gateway_payment_id = ?", gatewayPaymentID)
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).Where(query, arg).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.Status) (*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", id).Update("status", string(status))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Order("number DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return toProjections(records), nil
}

func (r *Repository) List(ctx context.Context, page pagination.Params) ([]*ports.OrderProjection, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.WithContext(ctx).Model(&orderRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("number DESC")
	if page.Limit > 0 {
		query = query.Offset(page.Offset()).Limit(page.Limit)
	}
	var records []orderRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return toProjections(records), total, nil
}

func (r *Repository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&n).Error
	return n, err
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	items := make([]itemDoc, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, itemDoc{ProductID: item.ProductID, Name: item.Name, Quantity: item.Quantity, Price: item.Price})
	}
	rec := orderRecord{
		ID:     order.ID,
		Number: order.Number,
		UserID: order.UserID,
		Items:  items,
		Shipping: shippingDoc{
			FullName: order.Shipping.FullName,
			Phone:    order.Shipping.Phone,
			Email:    order.Shipping.Email,
			Address:  order.Shipping.Address,
		},
		PaymentMethod: string(order.PaymentMethod),
		Status:        string(order.Status),
		TotalAmount:   order.TotalAmount,
		CreatedAt:     order.CreatedAt,
	}
	if p := order.Payment; p != nil {
		rec.GatewayOrderID = &p.GatewayOrderID
		rec.GatewayPaymentID = &p.GatewayPaymentID
		rec.GatewaySignature = &p.GatewaySignature
	}
	return rec
}

func (r *orderRecord) toProjection() *ports.OrderProjection {
	items := make([]domain.Item, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.Item{ProductID: item.ProductID, Name: item.Name, Quantity: item.Quantity, Price: item.Price})
	}
	order := &domain.Order{
		ID:     r.ID,
		Number: r.Number,
		UserID: r.UserID,
		Items:  items,
		Shipping: domain.ShippingAddress{
			FullName: r.Shipping.FullName,
			Phone:    r.Shipping.Phone,
			Email:    r.Shipping.Email,
			Address:  r.Shipping.Address,
		},
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		Status:        domain.Status(r.Status),
		TotalAmount:   r.TotalAmount,
		CreatedAt:     r.CreatedAt,
	}
	if r.GatewayPaymentID != nil {
		order.Payment = &domain.PaymentDetails{
			GatewayOrderID:   deref(r.GatewayOrderID),
			GatewayPaymentID: *r.GatewayPaymentID,
			GatewaySignature: deref(r.GatewaySignature),
		}
	}
	return &ports.OrderProjection{
		Entity:   order,
		Metadata: projection.Metadata{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
	}
}

func toProjections(records []orderRecord) []*ports.OrderProjection {
	out := make([]*ports.OrderProjection, 0, len(records))
	for i := range records {
		out = append(out, records[i].toProjection())
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
