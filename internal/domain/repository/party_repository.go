package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// PartyRepository lecturas de proveedores y clientes.
type PartyRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Party, error)
}
