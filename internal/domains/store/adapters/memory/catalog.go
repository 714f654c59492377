package memory

import (
	"context"
	"sync"

	"github.com/Apurer/pawhaven-api/internal/domains/store/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/store/ports"
)

var _ ports.ProductCatalog = (*Catalog)(nil)

// Catalog is a fixed product list held in memory.
type Catalog struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewCatalog(products ...domain.Product) *Catalog {
	c := &Catalog{products: map[string]domain.Product{}}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

// Put adds or replaces a product.
func (c *Catalog) Put(product domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[product.ID] = product
	return nil
}

func (c *Catalog) Products(_ context.Context, ids []string) (map[string]*domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]*domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			cp := p
			out[id] = &cp
		}
	}
	return out, nil
}
