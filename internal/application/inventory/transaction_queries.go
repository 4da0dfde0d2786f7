package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// MaxListLimit tope del listado de transacciones.
const MaxListLimit = 200

// TransactionQueries lecturas del registro de transacciones y enriquecimiento con el catálogo.
// El enriquecimiento es solo presentación: si una búsqueda falla se devuelve el ID sin nombre.
type TransactionQueries struct {
	txs        repository.TransactionRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	parties    repository.PartyRepository
	log        *logger.Logger
}

// NewTransactionQueries construye el caso de uso de consultas.
func NewTransactionQueries(
	txs repository.TransactionRepository,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	parties repository.PartyRepository,
	log *logger.Logger,
) *TransactionQueries {
	if log == nil {
		log = logger.Nop()
	}
	return &TransactionQueries{
		txs:        txs,
		products:   products,
		warehouses: warehouses,
		parties:    parties,
		log:        log.Named("transaction_queries"),
	}
}

// Get obtiene una transacción por ID.
func (q *TransactionQueries) Get(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	tx, err := q.txs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	return q.Enrich(ctx, tx), nil
}

// List devuelve las transacciones más recientes primero. Limit fuera de rango se ajusta a MaxListLimit.
func (q *TransactionQueries) List(ctx context.Context, filter repository.TransactionFilter) (*dto.TransactionListResponse, error) {
	if filter.Limit <= 0 || filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	list, err := q.txs.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, tx := range q.EnrichAll(ctx, list) {
		items = append(items, *tx)
	}
	return &dto.TransactionListResponse{Items: items, Count: len(items)}, nil
}

// Enrich convierte una transacción a DTO resolviendo productos, bodegas y tercero.
func (q *TransactionQueries) Enrich(ctx context.Context, tx *entity.Transaction) *dto.TransactionResponse {
	return q.EnrichAll(ctx, []*entity.Transaction{tx})[0]
}

// EnrichAll como Enrich pero con una sola consulta de productos y bodegas para todo el lote.
func (q *TransactionQueries) EnrichAll(ctx context.Context, list []*entity.Transaction) []*dto.TransactionResponse {
	var productIDs, warehouseIDs []string
	for _, tx := range list {
		productIDs = append(productIDs, tx.ProductIDs()...)
		for _, w := range []string{tx.SourceWarehouseID, tx.TargetWarehouseID} {
			if w != "" {
				warehouseIDs = append(warehouseIDs, w)
			}
		}
	}

	products, err := q.products.GetByIDs(ctx, unique(productIDs))
	if err != nil {
		q.log.Warn().Err(err).Msg("resolver productos para la respuesta")
		products = nil
	}
	warehouses, err := q.warehouses.GetByIDs(ctx, unique(warehouseIDs))
	if err != nil {
		q.log.Warn().Err(err).Msg("resolver bodegas para la respuesta")
		warehouses = nil
	}

	out := make([]*dto.TransactionResponse, 0, len(list))
	for _, tx := range list {
		out = append(out, q.toResponse(ctx, tx, products, warehouses))
	}
	return out
}

func (q *TransactionQueries) toResponse(
	ctx context.Context,
	tx *entity.Transaction,
	products map[string]*entity.Product,
	warehouses map[string]*entity.Warehouse,
) *dto.TransactionResponse {
	resp := &dto.TransactionResponse{
		ID:              tx.ID,
		Type:            string(tx.Type),
		Date:            tx.Date,
		SourceWarehouse: warehouseRef(tx.SourceWarehouseID, warehouses),
		TargetWarehouse: warehouseRef(tx.TargetWarehouseID, warehouses),
		Items:           make([]dto.TransactionItemResponse, 0, len(tx.Items)),
		Notes:           tx.Notes,
		Total:           tx.Total(),
		CreatedAt:       tx.CreatedAt,
		CreatedBy:       tx.CreatedBy,
	}
	if tx.PartyID != "" {
		resp.Party = &dto.RefDTO{ID: tx.PartyID}
		party, err := q.parties.GetByID(ctx, tx.PartyID)
		if err != nil {
			q.log.Warn().Err(err).Str("party_id", tx.PartyID).Msg("resolver tercero para la respuesta")
		} else if party != nil {
			resp.Party.Name = party.Name
		}
	}
	for _, it := range tx.Items {
		item := dto.TransactionItemResponse{
			Product:  dto.RefDTO{ID: it.ProductID},
			Quantity: it.Quantity,
			Price:    it.Price,
			Subtotal: it.Price.Mul(decimal.NewFromInt(it.Quantity)),
		}
		if p, ok := products[it.ProductID]; ok {
			item.Product.Name = p.Name
			item.SKU = p.SKU
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

func warehouseRef(id string, warehouses map[string]*entity.Warehouse) *dto.RefDTO {
	if id == "" {
		return nil
	}
	ref := &dto.RefDTO{ID: id}
	if w, ok := warehouses[id]; ok {
		ref.Name = w.Name
	}
	return ref
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ProductNames nombres de producto por ID para detallar faltantes. Errores se registran y se ignoran.
func (q *TransactionQueries) ProductNames(ctx context.Context, ids []string) map[string]string {
	out := make(map[string]string, len(ids))
	products, err := q.products.GetByIDs(ctx, unique(ids))
	if err != nil {
		q.log.Warn().Err(err).Msg("resolver nombres de productos")
		return out
	}
	for id, p := range products {
		out[id] = p.Name
	}
	return out
}
