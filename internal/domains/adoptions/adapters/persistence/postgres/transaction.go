package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
)

var (
	_ ports.Stores             = (*Stores)(nil)
	_ ports.TransactionManager = (*TransactionManager)(nil)
)

// PetStoreFactory binds the pets catalog to a connection or transaction.
type PetStoreFactory func(db *gorm.DB) ports.PetStore

// Stores exposes the repositories bound to one *gorm.DB.
type Stores struct {
	adoptions *Repository
	pets      ports.PetStore
	outbox    *Outbox
}

func NewStores(db *gorm.DB, pets PetStoreFactory) *Stores {
	return &Stores{
		adoptions: NewRepository(db),
		pets:      pets(db),
		outbox:    NewOutbox(db),
	}
}

func (s *Stores) Adoptions() ports.AdoptionRepository { return s.adoptions }
func (s *Stores) Pets() ports.PetStore                { return s.pets }
func (s *Stores) Outbox() ports.OutboxRepository      { return s.outbox }

// TransactionManager runs units of work inside a database transaction.
type TransactionManager struct {
	db   *gorm.DB
	pets PetStoreFactory
}

func NewTransactionManager(db *gorm.DB, pets PetStoreFactory) *TransactionManager {
	return &TransactionManager{db: db, pets: pets}
}

func (m *TransactionManager) Execute(ctx context.Context, fn func(ports.Stores) error) error {
	if m == nil || m.db == nil {
		return errors.New("postgres transaction manager not configured")
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStores(tx, m.pets))
	})
}
