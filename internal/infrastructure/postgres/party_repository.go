package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.PartyRepository = (*PartyRepo)(nil)

// PartyRepo proveedores y clientes (usable con pool o tx).
type PartyRepo struct {
	q Querier
}

// NewPartyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartyRepository(q Querier) *PartyRepo {
	return &PartyRepo{q: q}
}

// Create persiste un nuevo tercero.
func (r *PartyRepo) Create(ctx context.Context, p *entity.Party) error {
	query := `
		INSERT INTO parties (id, type, name, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Type, p.Name, p.Email, p.Phone, p.Address, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return classify(fmt.Errorf("insert party: %w", err))
	}
	return nil
}

// GetByID obtiene un tercero por ID.
func (r *PartyRepo) GetByID(ctx context.Context, id string) (*entity.Party, error) {
	query := `
		SELECT id, type, name, email, phone, address, created_at, updated_at
		FROM parties WHERE id = $1`
	var p entity.Party
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Type, &p.Name, &p.Email, &p.Phone, &p.Address, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(fmt.Errorf("get party: %w", err))
	}
	return &p, nil
}
