package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
)

var _ ports.OutboxRepository = (*Outbox)(nil)

// Outbox stores status-change notifications next to the adoptions they describe.
type Outbox struct {
	db *gorm.DB
}

func NewOutbox(db *gorm.DB) *Outbox {
	return &Outbox{db: db}
}

type notificationRecord struct {
	ID             string     `gorm:"primaryKey;column:id;type:varchar(36)"`
	AdoptionID     string     `gorm:"column:adoption_id;type:varchar(36);index"`
	RecipientEmail string     `gorm:"column:recipient_email"`
	RecipientName  string     `gorm:"column:recipient_name"`
	PetName        string     `gorm:"column:pet_name"`
	PreviousStatus string     `gorm:"column:previous_status;type:varchar(16)"`
	Status         string     `gorm:"column:status;type:varchar(16)"`
	AdminNotes     string     `gorm:"column:admin_notes;type:text"`
	State          string     `gorm:"column:state;type:varchar(16);index:idx_notifications_due,priority:1"`
	Attempts       int        `gorm:"column:attempts"`
	NextAttemptAt  time.Time  `gorm:"column:next_attempt_at;index:idx_notifications_due,priority:2"`
	LastError      string     `gorm:"column:last_error;type:text"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	DeliveredAt    *time.Time `gorm:"column:delivered_at"`
}

func (notificationRecord) TableName() string { return "adoption_notifications" }

func newNotificationRecord(n *domain.Notification) notificationRecord {
	return notificationRecord{
		ID:             n.ID,
		AdoptionID:     n.AdoptionID,
		RecipientEmail: n.Recipient.Email,
		RecipientName:  n.Recipient.Name,
		PetName:        n.PetName,
		PreviousStatus: string(n.PreviousStatus),
		Status:         string(n.Status),
		AdminNotes:     n.AdminNotes,
		State:          string(n.State),
		Attempts:       n.Attempts,
		NextAttemptAt:  n.NextAttemptAt,
		LastError:      n.LastError,
		CreatedAt:      n.CreatedAt,
		DeliveredAt:    n.DeliveredAt,
	}
}

func (r *notificationRecord) toDomain() *domain.Notification {
	return &domain.Notification{
		ID:             r.ID,
		AdoptionID:     r.AdoptionID,
		Recipient:      domain.Recipient{Email: r.RecipientEmail, Name: r.RecipientName},
		PetName:        r.PetName,
		PreviousStatus: domain.Status(r.PreviousStatus),
		Status:         domain.Status(r.Status),
		AdminNotes:     r.AdminNotes,
		State:          domain.NotificationState(r.State),
		Attempts:       r.Attempts,
		NextAttemptAt:  r.NextAttemptAt,
		LastError:      r.LastError,
		CreatedAt:      r.CreatedAt,
		DeliveredAt:    r.DeliveredAt,
	}
}

func (o *Outbox) Add(ctx context.Context, n *domain.Notification) error {
	if err := o.ensureDB(); err != nil {
		return err
	}
	record := newNotificationRecord(n)
	return o.db.WithContext(ctx).Create(&record).Error
}

func (o *Outbox) Get(ctx context.Context, id string) (*domain.Notification, error) {
	if err := o.ensureDB(); err != nil {
		return nil, err
	}
	var record notificationRecord
	if err := o.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotificationNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Save records the delivery outcome.
func (o *Outbox) Save(ctx context.Context, n *domain.Notification) error {
	if err := o.ensureDB(); err != nil {
		return err
	}
	result := o.db.WithContext(ctx).Model(&notificationRecord{}).
		Where("id = ?", n.ID).
		Updates(map[string]any{
			"state":           string(n.State),
			"attempts":        n.Attempts,
			"next_attempt_at": n.NextAttemptAt,
			"last_error":      n.LastError,
			"delivered_at":    n.DeliveredAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotificationNotFound
	}
	return nil
}

// ClaimDue locks due rows with SKIP LOCKED so parallel relays split the backlog,
// then pushes each claimed row's next attempt out by lease.
func (o *Outbox) ClaimDue(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]*domain.Notification, error) {
	if err := o.ensureDB(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	var claimed []*domain.Notification
	err := o.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var records []notificationRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("state = ? AND next_attempt_at <= ?", string(domain.NotificationPending), now).
			Order("next_attempt_at").
			Limit(limit).
			Find(&records).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		ids := make([]string, 0, len(records))
		for i := range records {
			ids = append(ids, records[i].ID)
		}
		next := now.Add(lease)
		if err := tx.Model(&notificationRecord{}).
			Where("id IN ?", ids).
			Update("next_attempt_at", next).Error; err != nil {
			return err
		}
		claimed = make([]*domain.Notification, 0, len(records))
		for i := range records {
			records[i].NextAttemptAt = next
			claimed = append(claimed, records[i].toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (o *Outbox) ensureDB() error {
	if o == nil || o.db == nil {
		return errors.New("postgres notification outbox not configured")
	}
	return nil
}
