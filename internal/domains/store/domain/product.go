package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyProductName = errors.New("product name is required")
)

// Product is a catalog entry. Orders copy Name and Price at order time.
type Product struct {
	ID       string
	Name     string
	Category string
	Price    decimal.Decimal
	ImageURL string
	Active   bool
}

func (p *Product) Validate() error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return ErrEmptyProduct
	case strings.TrimSpace(p.Name) == "":
		return ErrEmptyProductName
	case p.Price.IsNegative():
		return ErrInvalidPrice
	}
	return nil
}
