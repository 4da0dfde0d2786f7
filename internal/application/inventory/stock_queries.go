package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// StockQueries niveles de stock por bodega y alertas de stock bajo (cantidad < punto de reorden).
type StockQueries struct {
	levels     repository.StockLevelReader
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
}

// NewStockQueries construye el caso de uso de consultas de stock.
func NewStockQueries(
	levels repository.StockLevelReader,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
) *StockQueries {
	return &StockQueries{levels: levels, products: products, warehouses: warehouses}
}

// Levels devuelve los niveles de stock; warehouseID vacío = todas las bodegas.
func (q *StockQueries) Levels(ctx context.Context, warehouseID string) (*dto.StockLevelListResponse, error) {
	items, err := q.load(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	return &dto.StockLevelListResponse{Items: items, Count: len(items)}, nil
}

// Alerts devuelve solo los niveles por debajo del punto de reorden del producto,
// ordenados por mayor déficit primero.
func (q *StockQueries) Alerts(ctx context.Context, warehouseID string) (*dto.StockLevelListResponse, error) {
	all, err := q.load(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	low := make([]dto.StockLevelDTO, 0)
	for _, it := range all {
		if it.IsLowStock {
			low = append(low, it)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		return *low[i].MinQuantity-low[i].Quantity > *low[j].MinQuantity-low[j].Quantity
	})
	return &dto.StockLevelListResponse{Items: low, Count: len(low)}, nil
}

func (q *StockQueries) load(ctx context.Context, warehouseID string) ([]dto.StockLevelDTO, error) {
	levels, err := q.levels.List(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	var productIDs, warehouseIDs []string
	for _, l := range levels {
		productIDs = append(productIDs, l.ProductID)
		warehouseIDs = append(warehouseIDs, l.WarehouseID)
	}
	products, err := q.products.GetByIDs(ctx, unique(productIDs))
	if err != nil {
		return nil, err
	}
	warehouses, err := q.warehouses.GetByIDs(ctx, unique(warehouseIDs))
	if err != nil {
		return nil, err
	}

	out := make([]dto.StockLevelDTO, 0, len(levels))
	for _, l := range levels {
		out = append(out, toStockLevelDTO(l, products[l.ProductID], warehouses[l.WarehouseID]))
	}
	return out, nil
}

func toStockLevelDTO(l *entity.StockLevel, p *entity.Product, w *entity.Warehouse) dto.StockLevelDTO {
	item := dto.StockLevelDTO{
		ProductID:   l.ProductID,
		WarehouseID: l.WarehouseID,
		Quantity:    l.Quantity,
		UpdatedAt:   l.UpdatedAt,
	}
	if p != nil {
		item.ProductName = p.Name
		item.SKU = p.SKU
		item.MinQuantity = p.MinQuantity
		item.IsLowStock = p.IsLowStock(l.Quantity)
	}
	if w != nil {
		item.WarehouseName = w.Name
	}
	return item
}
