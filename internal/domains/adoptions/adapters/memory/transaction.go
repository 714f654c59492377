package memory

import (
	"context"
	"sync"

	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
)

var (
	_ ports.Stores             = (*Stores)(nil)
	_ ports.TransactionManager = (*TransactionManager)(nil)
)

// Stores bundles the in-memory repositories.
type Stores struct {
	adoptions *Repository
	pets      ports.PetStore
	outbox    *Outbox
}

func NewStores(adoptions *Repository, pets ports.PetStore, outbox *Outbox) *Stores {
	return &Stores{adoptions: adoptions, pets: pets, outbox: outbox}
}

func (s *Stores) Adoptions() ports.AdoptionRepository { return s.adoptions }
func (s *Stores) Pets() ports.PetStore                { return s.pets }
func (s *Stores) Outbox() ports.OutboxRepository      { return s.outbox }

// TransactionManager serialises units of work. Writes are applied as they happen;
// an error part-way does not undo earlier writes.
type TransactionManager struct {
	mu     sync.Mutex
	stores *Stores
}

func NewTransactionManager(stores *Stores) *TransactionManager {
	return &TransactionManager{stores: stores}
}

func (m *TransactionManager) Execute(ctx context.Context, fn func(ports.Stores) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(m.stores)
}
