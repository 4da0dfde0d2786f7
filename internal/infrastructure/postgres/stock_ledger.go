package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.StockLedger      = (*StockLedger)(nil)
	_ repository.StockLevelReader = (*StockLedger)(nil)
)

// StockLedger libro de stock sobre la tabla stock_levels (usable con pool o tx).
type StockLedger struct {
	q Querier
}

// NewStockLedger construye el adaptador. Pasar pool o tx (Querier).
func NewStockLedger(q Querier) *StockLedger {
	return &StockLedger{q: q}
}

// Adjust aplica delta de forma atómica en una sola sentencia.
// Incremento: upsert. Decremento: UPDATE condicionado a que el resultado no sea negativo; si no
// actualiza ninguna fila se lee la cantidad actual para reportar el faltante.
func (r *StockLedger) Adjust(ctx context.Context, warehouseID, productID string, delta int64) (int64, error) {
	if delta == 0 {
		return r.CurrentQuantity(ctx, warehouseID, productID)
	}

	var qty int64
	if delta > 0 {
		query := `
			INSERT INTO stock_levels (product_id, warehouse_id, quantity, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (product_id, warehouse_id)
			DO UPDATE SET quantity = stock_levels.quantity + EXCLUDED.quantity, updated_at = now()
			RETURNING quantity`
		if err := r.q.QueryRow(ctx, query, productID, warehouseID, delta).Scan(&qty); err != nil {
			return 0, classify(fmt.Errorf("increase stock: %w", err))
		}
		return qty, nil
	}

	query := `
		UPDATE stock_levels SET quantity = quantity + $3, updated_at = now()
		WHERE product_id = $1 AND warehouse_id = $2 AND quantity + $3 >= 0
		RETURNING quantity`
	err := r.q.QueryRow(ctx, query, productID, warehouseID, delta).Scan(&qty)
	if err == nil {
		return qty, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, classify(fmt.Errorf("decrease stock: %w", err))
	}

	available, err := r.CurrentQuantity(ctx, warehouseID, productID)
	if err != nil {
		return 0, err
	}
	return available, &domain.InsufficientStockError{
		WarehouseID: warehouseID,
		Shortfalls:  []domain.Shortfall{{ProductID: productID, Available: available, Required: -delta}},
	}
}

// CurrentQuantity devuelve 0 si no hay fila.
func (r *StockLedger) CurrentQuantity(ctx context.Context, warehouseID, productID string) (int64, error) {
	query := `SELECT quantity FROM stock_levels WHERE product_id = $1 AND warehouse_id = $2`
	var qty int64
	err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, classify(fmt.Errorf("get stock: %w", err))
	}
	return qty, nil
}

// CurrentQuantities lectura en lote de una bodega.
func (r *StockLedger) CurrentQuantities(ctx context.Context, warehouseID string, productIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(productIDs))
	for _, id := range productIDs {
		out[id] = 0
	}
	if len(productIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT product_id, quantity FROM stock_levels
		WHERE warehouse_id = $1 AND product_id = ANY($2)`
	rows, err := r.q.Query(ctx, query, warehouseID, productIDs)
	if err != nil {
		return nil, classify(fmt.Errorf("list stock: %w", err))
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var qty int64
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out[id] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// List niveles existentes ordenados por bodega y producto; warehouseID vacío = todas.
func (r *StockLedger) List(ctx context.Context, warehouseID string) ([]*entity.StockLevel, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock_levels
		WHERE ($1 = '' OR warehouse_id = $1)
		ORDER BY warehouse_id, product_id`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, classify(fmt.Errorf("list stock levels: %w", err))
	}
	defer rows.Close()
	var list []*entity.StockLevel
	for rows.Next() {
		var s entity.StockLevel
		if err := rows.Scan(&s.ProductID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		list = append(list, &s)
	}
	return list, classify(rows.Err())
}
