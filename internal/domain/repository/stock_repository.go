package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockLedger puerto del libro de stock por (bodega, producto).
// Adjust debe ejecutarse dentro de la unidad de trabajo del llamador.
type StockLedger interface {
	// Adjust aplica delta (con signo) y devuelve la nueva cantidad. Crea la fila en 0 si no existe.
	// Si un decremento deja la cantidad negativa devuelve *domain.InsufficientStockError y no escribe nada.
	Adjust(ctx context.Context, warehouseID, productID string, delta int64) (int64, error)
	// CurrentQuantity devuelve 0 si no hay fila.
	CurrentQuantity(ctx context.Context, warehouseID, productID string) (int64, error)
	// CurrentQuantities lectura en lote; todo producto pedido aparece en el mapa (0 por defecto).
	CurrentQuantities(ctx context.Context, warehouseID string, productIDs []string) (map[string]int64, error)
}

// StockLevelReader lecturas de niveles de stock para listados y alertas.
type StockLevelReader interface {
	// List devuelve los niveles existentes; warehouseID vacío = todas las bodegas.
	List(ctx context.Context, warehouseID string) ([]*entity.StockLevel, error)
}
