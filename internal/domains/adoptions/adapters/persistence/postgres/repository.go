package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
	platformpostgres "github.com/Apurer/pawhaven-api/internal/platform/postgres"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
	"github.com/Apurer/pawhaven-api/internal/shared/projection"
)

var _ ports.AdoptionRepository = (*Repository)(nil)

// Repository persists adoption applications in PostgreSQL.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// WithClock overrides the timestamp source.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	if now != nil {
		r.now = now
	}
	return r
}

// activeIndex enforces at most one Pending or Approved application per pet and applicant.
const activeIndex = `CREATE UNIQUE INDEX IF NOT EXISTS ux_adoptions_active
ON adoptions (pet_id, applicant_id) WHERE status IN ('Pending', 'Approved')`

// Migrate creates the adoptions and notification outbox tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&adoptionRecord{}, &notificationRecord{}); err != nil {
		return err
	}
	return db.Exec(activeIndex).Error
}

type personalDetailsDoc struct {
	Phone       string `json:"phone"`
	IDProofType string `json:"idProofType"`
	IDProofFile string `json:"idProofFile"`
}

type livingSituationDoc struct {
	HomeType         string `json:"homeType"`
	HasYard          bool   `json:"hasYard"`
	OtherPets        bool   `json:"otherPets"`
	OtherPetsDetails string `json:"otherPetsDetails,omitempty"`
}

type experienceDoc struct {
	HasExperience     bool   `json:"hasExperience"`
	ExperienceDetails string `json:"experienceDetails,omitempty"`
}

type adoptionRecord struct {
	ID                string             `gorm:"primaryKey;column:id;type:varchar(36)"`
	PetID             string             `gorm:"column:pet_id;type:varchar(36);not null;index"`
	ApplicantID       string             `gorm:"column:applicant_id;type:varchar(64);not null;index"`
	Status            string             `gorm:"column:status;type:varchar(16);not null;index"`
	PersonalDetails   personalDetailsDoc `gorm:"column:personal_details;type:jsonb;serializer:json"`
	LivingSituation   livingSituationDoc `gorm:"column:living_situation;type:jsonb;serializer:json"`
	Experience        experienceDoc      `gorm:"column:experience;type:jsonb;serializer:json"`
	ReasonForAdoption string             `gorm:"column:reason_for_adoption;type:text"`
	AdditionalNotes   string             `gorm:"column:additional_notes;type:text"`
	AdminNotes        string             `gorm:"column:admin_notes;type:text"`
	CreatedAt         time.Time          `gorm:"column:created_at;index"`
	UpdatedAt         time.Time          `gorm:"column:updated_at"`
}

func (adoptionRecord) TableName() string { return "adoptions" }

func newAdoptionRecord(a *domain.Adoption) adoptionRecord {
	return adoptionRecord{
		ID:          a.ID,
		PetID:       a.PetID,
		ApplicantID: a.ApplicantID,
		Status:      string(a.Status),
		PersonalDetails: personalDetailsDoc{
			Phone:       a.PersonalDetails.Phone,
			IDProofType: string(a.PersonalDetails.IDProofType),
			IDProofFile: a.PersonalDetails.IDProofFile,
		},
		LivingSituation: livingSituationDoc{
			HomeType:         string(a.LivingSituation.HomeType),
			HasYard:          a.LivingSituation.HasYard,
			OtherPets:        a.LivingSituation.OtherPets,
			OtherPetsDetails: a.LivingSituation.OtherPetsDetails,
		},
		Experience: experienceDoc{
			HasExperience:     a.Experience.HasExperience,
			ExperienceDetails: a.Experience.ExperienceDetails,
		},
		ReasonForAdoption: a.ReasonForAdoption,
		AdditionalNotes:   a.AdditionalNotes,
		AdminNotes:        a.AdminNotes,
	}
}

func (r *adoptionRecord) toProjection() *ports.AdoptionProjection {
	return &ports.AdoptionProjection{
		Entity: &domain.Adoption{
			ID:          r.ID,
			PetID:       r.PetID,
			ApplicantID: r.ApplicantID,
			Status:      domain.Status(r.Status),
			PersonalDetails: domain.PersonalDetails{
				Phone:       r.PersonalDetails.Phone,
				IDProofType: domain.IDProofType(r.PersonalDetails.IDProofType),
				IDProofFile: r.PersonalDetails.IDProofFile,
			},
			LivingSituation: domain.LivingSituation{
				HomeType:         domain.HomeType(r.LivingSituation.HomeType),
				HasYard:          r.LivingSituation.HasYard,
				OtherPets:        r.LivingSituation.OtherPets,
				OtherPetsDetails: r.LivingSituation.OtherPetsDetails,
			},
			Experience: domain.Experience{
				HasExperience:     r.Experience.HasExperience,
				ExperienceDetails: r.Experience.ExperienceDetails,
			},
			ReasonForAdoption: r.ReasonForAdoption,
			AdditionalNotes:   r.AdditionalNotes,
			AdminNotes:        r.AdminNotes,
		},
		Metadata: projection.Metadata{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
	}
}

func (r *Repository) Create(ctx context.Context, adoption *domain.Adoption) (*ports.AdoptionProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if err := adoption.Validate(); err != nil {
		return nil, err
	}
	record := newAdoptionRecord(adoption)
	now := r.now()
	record.CreatedAt = now
	record.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, translate(err)
	}
	return record.toProjection(), nil
}

// Update writes every mutable column. created_at is preserved.
func (r *Repository) Update(ctx context.Context, adoption *domain.Adoption) (*ports.AdoptionProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if err := adoption.Validate(); err != nil {
		return nil, err
	}
	record := newAdoptionRecord(adoption)
	record.UpdatedAt = r.now()
	result := r.db.WithContext(ctx).Model(&adoptionRecord{}).
		Where("id = ?", adoption.ID).
		Select("*").Omit("id", "created_at").
		Updates(&record)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.Get(ctx, adoption.ID)
}

func (r *Repository) Get(ctx context.Context, id string) (*ports.AdoptionProjection, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate locks the row for the surrounding transaction.
func (r *Repository) GetForUpdate(ctx context.Context, id string) (*ports.AdoptionProjection, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *Repository) get(query *gorm.DB, id string) (*ports.AdoptionProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record adoptionRecord
	if err := query.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&adoptionRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter, page pagination.Params) ([]*ports.AdoptionProjection, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	query := r.db.WithContext(ctx).Model(&adoptionRecord{})
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.ApplicantID != "" {
		query = query.Where("applicant_id = ?", filter.ApplicantID)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	sortField := page.SortField
	if sortField == "" {
		sortField = "created_at"
	}
	query = query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: sortField}, Desc: page.Desc}).
		Order("id")
	if page.Limit > 0 {
		query = query.Limit(page.Limit).Offset(page.Offset())
	}
	var records []adoptionRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*ports.AdoptionProjection, 0, len(records))
	for i := range records {
		out = append(out, records[i].toProjection())
	}
	return out, total, nil
}

func (r *Repository) FindActive(ctx context.Context, petID, applicantID string) (*ports.AdoptionProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record adoptionRecord
	err := r.db.WithContext(ctx).
		Where("pet_id = ? AND applicant_id = ? AND status IN ?", petID, applicantID, activeStatuses()).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

func (r *Repository) HasApproved(ctx context.Context, petID, excludeID string) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&adoptionRecord{}).
		Where("pet_id = ? AND status = ? AND id <> ?", petID, string(domain.StatusApproved), excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []struct {
		Status string
		Total  int64
	}
	if err := r.db.WithContext(ctx).Model(&adoptionRecord{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[domain.Status]int64, len(rows))
	for _, row := range rows {
		counts[domain.Status(row.Status)] = row.Total
	}
	return counts, nil
}

func (r *Repository) ApprovedPetIDs(ctx context.Context) ([]string, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var ids []string
	err := r.db.WithContext(ctx).Model(&adoptionRecord{}).
		Where("status = ?", string(domain.StatusApproved)).
		Distinct("pet_id").
		Order("pet_id").
		Pluck("pet_id", &ids).Error
	return ids, err
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres adoption repository not configured")
	}
	return nil
}

func activeStatuses() []string {
	return []string{string(domain.StatusPending), string(domain.StatusApproved)}
}

func translate(err error) error {
	if platformpostgres.IsUniqueViolation(err) {
		return ports.ErrDuplicateActive
	}
	return err
}
