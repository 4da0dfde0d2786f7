package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo (solo lectura para el motor de stock).
// MinQuantity es el punto de reorden; nil si el producto no tiene umbral.
type Product struct {
	ID             string
	Name           string
	SKU            string // único
	Barcode        string
	CategoryID     string
	Price          decimal.Decimal
	MinQuantity    *int64
	ExpirationDate *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsLowStock indica si la cantidad dada está por debajo del punto de reorden.
func (p *Product) IsLowStock(quantity int64) bool {
	return p.MinQuantity != nil && quantity < *p.MinQuantity
}
