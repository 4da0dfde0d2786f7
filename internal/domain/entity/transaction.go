package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tipo de transacción de stock.
type TransactionType string

// Tipos de transacción.
const (
	TransactionPurchase TransactionType = "purchase" // entrada a bodega destino
	TransactionSale     TransactionType = "sale"     // salida de bodega origen
	TransactionTransfer TransactionType = "transfer" // traslado origen -> destino
)

// Valid indica si el tipo es uno de los soportados.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionPurchase, TransactionSale, TransactionTransfer:
		return true
	}
	return false
}

// LineItem línea de una transacción. Price solo se usa para reportes, nunca afecta el stock.
type LineItem struct {
	ProductID string
	Quantity  int64
	Price     decimal.Decimal
}

// Transaction registro inmutable de una compra, venta o traslado.
// Solo puede eliminarse completo (con reverso de stock).
type Transaction struct {
	ID                string
	Type              TransactionType
	Date              time.Time
	PartyID           string
	SourceWarehouseID string
	TargetWarehouseID string
	Items             []LineItem
	Notes             string
	CreatedAt         time.Time
	CreatedBy         string
}

// Total suma cantidad * precio de todas las líneas.
func (t *Transaction) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range t.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return total
}

// ProductIDs devuelve los IDs de producto de las líneas, sin repetir y en orden de aparición.
func (t *Transaction) ProductIDs() []string {
	seen := make(map[string]struct{}, len(t.Items))
	ids := make([]string, 0, len(t.Items))
	for _, it := range t.Items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}
