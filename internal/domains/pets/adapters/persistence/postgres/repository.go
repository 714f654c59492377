package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/pawhaven-api/internal/domains/pets/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/pets/ports"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
	"github.com/Apurer/pawhaven-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists pets in PostgreSQL using GORM-mapped columns.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository wires a PostgreSQL-backed repository. The caller owns the DB lifecycle
// and runs migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Migrate creates or updates the pets table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&petRecord{})
}

type petRecord struct {
	ID           string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	Name         string    `gorm:"column:name;not null"`
	Category     string    `gorm:"column:category;type:varchar(32);index"`
	Breed        string    `gorm:"column:breed"`
	Age          int       `gorm:"column:age"`
	Gender       string    `gorm:"column:gender;type:varchar(16)"`
	Size         string    `gorm:"column:size;type:varchar(16)"`
	Description  string    `gorm:"column:description;type:text"`
	ImageURL     string    `gorm:"column:image_url"`
	HealthStatus string    `gorm:"column:health_status;type:varchar(32)"`
	IsAdopted    bool      `gorm:"column:is_adopted;index"`
	CreatedAt    time.Time `gorm:"column:created_at;index"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (petRecord) TableName() string { return "pets" }

func newPetRecord(p *domain.Pet) petRecord {
	return petRecord{
		ID:           p.ID,
		Name:         p.Name,
		Category:     string(p.Category),
		Breed:        p.Breed,
		Age:          p.Age,
		Gender:       string(p.Gender),
		Size:         string(p.Size),
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		HealthStatus: string(p.HealthStatus),
		IsAdopted:    p.IsAdopted,
	}
}

// Save inserts or updates a pet.
func (r *Repository) Save(ctx context.Context, pet *domain.Pet) (*projection.Projection[*domain.Pet], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, errors.New("cannot save nil pet")
	}
	if err := pet.Validate(); err != nil {
		return nil, err
	}
	record := newPetRecord(pet)
	now := r.now()
	record.CreatedAt = now
	record.UpdatedAt = now
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":          record.Name,
				"category":      record.Category,
				"breed":         record.Breed,
				"age":           record.Age,
				"gender":        record.Gender,
				"size":          record.Size,
				"description":   record.Description,
				"image_url":     record.ImageURL,
				"health_status": record.HealthStatus,
				"is_adopted":    record.IsAdopted,
				"updated_at":    now,
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, pet.ID)
}

// GetByID fetches a pet by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Pet], error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate fetches a pet and locks its row for the surrounding transaction.
func (r *Repository) GetForUpdate(ctx context.Context, id string) (*projection.Projection[*domain.Pet], error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *Repository) get(query *gorm.DB, id string) (*projection.Projection[*domain.Pet], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record petRecord
	if err := query.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// Delete removes a pet by identifier.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&petRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List filters, sorts and pages the catalog.
func (r *Repository) List(ctx context.Context, filter ports.ListFilter, page pagination.Params) ([]*projection.Projection[*domain.Pet], int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	query := r.db.WithContext(ctx).Model(&petRecord{})
	if filter.Category != nil {
		query = query.Where("category = ?", string(*filter.Category))
	}
	if filter.Adopted != nil {
		query = query.Where("is_adopted = ?", *filter.Adopted)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	sortField := page.SortField
	if sortField == "" {
		sortField = "created_at"
	}
	var records []petRecord
	if err := query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: sortField}, Desc: page.Desc}).
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	list := make([]*projection.Projection[*domain.Pet], 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, total, nil
}

// SetAdopted flips the availability flag of one pet.
func (r *Repository) SetAdopted(ctx context.Context, id string, adopted bool) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&petRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_adopted": adopted, "updated_at": r.now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// SetAdoptedBulk flips the flag on every listed pet whose flag differs.
func (r *Repository) SetAdoptedBulk(ctx context.Context, ids []string, adopted bool) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&petRecord{}).
		Where("id = ANY(?) AND is_adopted <> ?", pq.Array(ids), adopted).
		Updates(map[string]any{"is_adopted": adopted, "updated_at": r.now()})
	return result.RowsAffected, result.Error
}

// AdoptedIDs lists pets currently flagged as adopted.
func (r *Repository) AdoptedIDs(ctx context.Context) ([]string, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var ids []string
	err := r.db.WithContext(ctx).Model(&petRecord{}).
		Where("is_adopted = ?", true).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres pet repository not configured")
	}
	return nil
}

func (r *petRecord) toProjection() *projection.Projection[*domain.Pet] {
	return &projection.Projection[*domain.Pet]{
		Entity: &domain.Pet{
			ID:           r.ID,
			Name:         r.Name,
			Category:     domain.Category(r.Category),
			Breed:        r.Breed,
			Age:          r.Age,
			Gender:       domain.Gender(r.Gender),
			Size:         domain.Size(r.Size),
			Description:  r.Description,
			ImageURL:     r.ImageURL,
			HealthStatus: domain.HealthStatus(r.HealthStatus),
			IsAdopted:    r.IsAdopted,
		},
		Metadata: projection.Metadata{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
	}
}
