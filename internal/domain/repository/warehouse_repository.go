package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// WarehouseRepository lecturas de bodegas (DIP).
type WarehouseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Warehouse, error)
}
