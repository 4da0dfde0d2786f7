package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductRepository lecturas del catálogo de productos (DIP).
type ProductRepository interface {
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDs omite los IDs inexistentes.
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error)
}
