package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Availability resultado de una verificación de disponibilidad.
type Availability struct {
	OK         bool
	Shortfalls []domain.Shortfall
}

// AvailabilityChecker verifica (sin bloquear) que una bodega tenga stock para un conjunto de líneas.
// Es una verificación temprana: la garantía bajo concurrencia la da el guard del libro al aplicar.
type AvailabilityChecker struct {
	ledger repository.StockLedger
}

// NewAvailabilityChecker construye el verificador sobre el libro de stock.
func NewAvailabilityChecker(ledger repository.StockLedger) *AvailabilityChecker {
	return &AvailabilityChecker{ledger: ledger}
}

// Check compara la cantidad actual contra la requerida por producto. Un producto repetido en
// varias líneas se valida contra la suma.
func (c *AvailabilityChecker) Check(ctx context.Context, warehouseID string, items []entity.LineItem) (Availability, error) {
	order, required, err := inventory.Requirements(items)
	if err != nil {
		return Availability{}, err
	}
	current, err := c.ledger.CurrentQuantities(ctx, warehouseID, order)
	if err != nil {
		return Availability{}, err
	}
	var shortfalls []domain.Shortfall
	for _, productID := range order {
		if available := current[productID]; available < required[productID] {
			shortfalls = append(shortfalls, domain.Shortfall{
				ProductID: productID,
				Available: available,
				Required:  required[productID],
			})
		}
	}
	return Availability{OK: len(shortfalls) == 0, Shortfalls: shortfalls}, nil
}
