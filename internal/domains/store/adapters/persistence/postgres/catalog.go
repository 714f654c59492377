package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/pawhaven-api/internal/domains/store/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/store/ports"
)

var _ ports.ProductCatalog = (*Catalog)(nil)

// Catalog reads pharmacy products from the products table.
type Catalog struct {
	db *gorm.DB
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

type productRecord struct {
	ID        string          `gorm:"primaryKey;column:id;type:varchar(64)"`
	Name      string          `gorm:"column:name;type:varchar(255);not null"`
	Category  string          `gorm:"column:category;type:varchar(64);index"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	ImageURL  string          `gorm:"column:image_url;type:text"`
	Active    bool            `gorm:"column:active;not null;default:true"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Save upserts a product. It backs seeding and admin tooling.
func (c *Catalog) Save(ctx context.Context, product domain.Product) error {
	if err := c.ensureDB(); err != nil {
		return err
	}
	if err := product.Validate(); err != nil {
		return err
	}
	record := productRecord{
		ID:       product.ID,
		Name:     product.Name,
		Category: product.Category,
		Price:    product.Price,
		ImageURL: product.ImageURL,
		Active:   product.Active,
	}
	return c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "category", "price", "image_url", "active", "updated_at"}),
	}).Create(&record).Error
}

func (c *Catalog) Products(ctx context.Context, ids []string) (map[string]*domain.Product, error) {
	if err := c.ensureDB(); err != nil {
		return nil, err
	}
	out := make(map[string]*domain.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var records []productRecord
	if err := c.db.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	for _, r := range records {
		out[r.ID] = &domain.Product{
			ID:       r.ID,
			Name:     r.Name,
			Category: r.Category,
			Price:    r.Price,
			ImageURL: r.ImageURL,
			Active:   r.Active,
		}
	}
	return out, nil
}

func (c *Catalog) ensureDB() error {
	if c == nil || c.db == nil {
		return errors.New("postgres product catalog not configured")
	}
	return nil
}
