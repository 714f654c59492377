package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/pawhaven-api/internal/domains/users/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/users/ports"
	"github.com/Apurer/pawhaven-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists user profiles in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the users table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&userRecord{})
}

type userRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	Name      string    `gorm:"column:name;type:varchar(100);not null"`
	Email     string    `gorm:"column:email;type:varchar(255);not null;index"`
	Phone     string    `gorm:"column:phone;type:varchar(16)"`
	Role      string    `gorm:"column:role;type:varchar(16);not null;default:user"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Save inserts or updates a user keyed by id.
func (r *Repository) Save(ctx context.Context, user *domain.User) (*ports.UserProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	record := userRecord{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
		Role:  string(user.Role),
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "phone", "role", "updated_at"}),
		}).
		Create(&record).Error; err != nil {
		return nil, err
	}
	return r.Get(ctx, user.ID)
}

// Get fetches a user by id.
func (r *Repository) Get(ctx context.Context, id string) (*ports.UserProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record userRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return &ports.UserProjection{
		Entity: &domain.User{
			ID:    record.ID,
			Name:  record.Name,
			Email: record.Email,
			Phone: record.Phone,
			Role:  domain.Role(record.Role),
		},
		Metadata: projection.Metadata{CreatedAt: record.CreatedAt, UpdatedAt: record.UpdatedAt},
	}, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres user repository not configured")
	}
	return nil
}
