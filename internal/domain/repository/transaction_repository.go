package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// TransactionFilter filtros del listado de transacciones.
type TransactionFilter struct {
	Type        entity.TransactionType // vacío = todos
	WarehouseID string                 // coincide con origen o destino
	Limit       int
}

// TransactionRepository puerto de persistencia del registro de transacciones.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	// GetForUpdate como GetByID pero bloquea el registro hasta el fin de la unidad de trabajo.
	GetForUpdate(ctx context.Context, id string) (*entity.Transaction, error)
	// Delete devuelve domain.ErrNotFound si no había registro.
	Delete(ctx context.Context, id string) error
	// List ordena de la más reciente a la más antigua.
	List(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, error)
}
