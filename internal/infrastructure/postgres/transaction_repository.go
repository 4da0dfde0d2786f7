package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo registro de transacciones sobre transactions + transaction_items (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const transactionColumns = `
	id, type, date, COALESCE(party_id, ''), COALESCE(source_warehouse_id, ''),
	COALESCE(target_warehouse_id, ''), notes, created_at, created_by`

// Create persiste la cabecera y sus líneas en orden (line_no).
func (r *TransactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, type, date, party_id, source_warehouse_id, target_warehouse_id, notes, created_at, created_by)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, string(tx.Type), tx.Date, tx.PartyID, tx.SourceWarehouseID, tx.TargetWarehouseID,
		tx.Notes, tx.CreatedAt, tx.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transacción %s ya existe", domain.ErrConflict, tx.ID)
		}
		return classify(fmt.Errorf("insert transaction: %w", err))
	}

	itemQuery := `
		INSERT INTO transaction_items (transaction_id, line_no, product_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)`
	for i, it := range tx.Items {
		if _, err := r.q.Exec(ctx, itemQuery, tx.ID, i, it.ProductID, it.Quantity, it.Price); err != nil {
			return classify(fmt.Errorf("insert transaction item %d: %w", i, err))
		}
	}
	return nil
}

// GetByID obtiene una transacción con sus líneas; nil, nil si no existe.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate como GetByID bloqueando la cabecera (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *TransactionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transaction, error) {
	return r.get(ctx, id, true)
}

func (r *TransactionRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	tx, err := scanTransaction(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(fmt.Errorf("get transaction: %w", err))
	}
	items, err := r.items(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	tx.Items = items[id]
	return tx, nil
}

// Delete elimina la cabecera; las líneas caen por ON DELETE CASCADE.
func (r *TransactionRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return classify(fmt.Errorf("delete transaction: %w", err))
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List más recientes primero, con filtro opcional por tipo y bodega (origen o destino).
func (r *TransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	var (
		where []string
		args  []any
	)
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.WarehouseID != "" {
		args = append(args, filter.WarehouseID)
		where = append(where, fmt.Sprintf("(source_warehouse_id = $%d OR target_warehouse_id = $%d)", len(args), len(args)))
	}
	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date DESC, created_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("list transactions: %w", err))
	}
	var (
		list []*entity.Transaction
		ids  []string
	)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, tx)
		ids = append(ids, tx.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	if len(ids) == 0 {
		return list, nil
	}

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, tx := range list {
		tx.Items = items[tx.ID]
	}
	return list, nil
}

func (r *TransactionRepo) items(ctx context.Context, ids []string) (map[string][]entity.LineItem, error) {
	query := `
		SELECT transaction_id, product_id, quantity, price
		FROM transaction_items
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, line_no`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, classify(fmt.Errorf("list transaction items: %w", err))
	}
	defer rows.Close()
	out := make(map[string][]entity.LineItem, len(ids))
	for rows.Next() {
		var txID string
		var it entity.LineItem
		if err := rows.Scan(&txID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("scan transaction item: %w", err)
		}
		out[txID] = append(out[txID], it)
	}
	return out, classify(rows.Err())
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var tx entity.Transaction
	var txType string
	err := row.Scan(
		&tx.ID, &txType, &tx.Date, &tx.PartyID, &tx.SourceWarehouseID,
		&tx.TargetWarehouseID, &tx.Notes, &tx.CreatedAt, &tx.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	tx.Type = entity.TransactionType(txType)
	return &tx, nil
}
