// Package memory implementa los puertos del motor de stock en memoria.
// Se usa en tests y con store.driver=memory; no persiste entre reinicios.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

type stockKey struct{ warehouseID, productID string }

// state foto completa de los datos mutables. Cada unidad de trabajo trabaja sobre una copia
// que se publica solo si la función termina sin error.
type state struct {
	stock map[stockKey]entity.StockLevel
	txs   map[string]*entity.Transaction
}

func newState() *state {
	return &state{
		stock: make(map[stockKey]entity.StockLevel),
		txs:   make(map[string]*entity.Transaction),
	}
}

func (s *state) clone() *state {
	c := &state{
		stock: make(map[stockKey]entity.StockLevel, len(s.stock)),
		txs:   make(map[string]*entity.Transaction, len(s.txs)),
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.txs {
		c.txs[k] = v
	}
	return c
}

// Store guarda stock, transacciones y catálogo en memoria.
// Las unidades de trabajo se serializan con writeMu; las lecturas ven el último estado confirmado.
type Store struct {
	writeMu sync.Mutex

	mu    sync.RWMutex
	state *state

	catalogMu  sync.RWMutex
	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse
	parties    map[string]*entity.Party

	now func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		state:      newState(),
		products:   make(map[string]*entity.Product),
		warehouses: make(map[string]*entity.Warehouse),
		parties:    make(map[string]*entity.Party),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

var (
	_ repository.StockLedger           = (*Store)(nil)
	_ repository.StockLevelReader      = (*Store)(nil)
	_ repository.TransactionRepository = transactionView{}
)

// Run ejecuta fn en una unidad de trabajo. Si fn devuelve error no queda ningún cambio visible.
func (s *Store) Run(ctx context.Context, fn func(ledger repository.StockLedger, txs repository.TransactionRepository) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	work := &unit{st: s.state.clone(), now: s.now}
	s.mu.RUnlock()

	if err := fn(work, work); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = work.st
	s.mu.Unlock()
	return nil
}

func (s *Store) committed() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Adjust fuera de una unidad de trabajo: se aplica en una propia.
func (s *Store) Adjust(ctx context.Context, warehouseID, productID string, delta int64) (int64, error) {
	var qty int64
	err := s.Run(ctx, func(ledger repository.StockLedger, _ repository.TransactionRepository) error {
		var err error
		qty, err = ledger.Adjust(ctx, warehouseID, productID, delta)
		return err
	})
	return qty, err
}

func (s *Store) CurrentQuantity(ctx context.Context, warehouseID, productID string) (int64, error) {
	return (&unit{st: s.committed()}).CurrentQuantity(ctx, warehouseID, productID)
}

func (s *Store) CurrentQuantities(ctx context.Context, warehouseID string, productIDs []string) (map[string]int64, error) {
	return (&unit{st: s.committed()}).CurrentQuantities(ctx, warehouseID, productIDs)
}

// List niveles confirmados ordenados por bodega y producto.
func (s *Store) List(ctx context.Context, warehouseID string) ([]*entity.StockLevel, error) {
	st := s.committed()
	out := make([]*entity.StockLevel, 0, len(st.stock))
	for k, v := range st.stock {
		if warehouseID != "" && k.warehouseID != warehouseID {
			continue
		}
		level := v
		out = append(out, &level)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WarehouseID != out[j].WarehouseID {
			return out[i].WarehouseID < out[j].WarehouseID
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, nil
}

func (s *Store) Create(ctx context.Context, tx *entity.Transaction) error {
	return s.Run(ctx, func(_ repository.StockLedger, txs repository.TransactionRepository) error {
		return txs.Create(ctx, tx)
	})
}

func (s *Store) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	return (&unit{st: s.committed()}).GetByID(ctx, id)
}

// GetForUpdate fuera de una unidad de trabajo equivale a GetByID.
func (s *Store) GetForUpdate(ctx context.Context, id string) (*entity.Transaction, error) {
	return s.GetByID(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.Run(ctx, func(_ repository.StockLedger, txs repository.TransactionRepository) error {
		return txs.Delete(ctx, id)
	})
}

func (s *Store) ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	return (&unit{st: s.committed()}).List(ctx, filter)
}

// Transactions vista del registro con la firma de repository.TransactionRepository.
func (s *Store) Transactions() repository.TransactionRepository { return transactionView{s} }

type transactionView struct{ *Store }

func (v transactionView) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	return v.ListTransactions(ctx, filter)
}

// unit estado de trabajo de una unidad de trabajo en curso.
type unit struct {
	st  *state
	now func() time.Time
}

func (u *unit) Adjust(_ context.Context, warehouseID, productID string, delta int64) (int64, error) {
	k := stockKey{warehouseID, productID}
	level, ok := u.st.stock[k]
	if !ok {
		level = entity.StockLevel{WarehouseID: warehouseID, ProductID: productID}
	}
	next, ok := inventory.AddQuantity(level.Quantity, delta)
	if !ok {
		return level.Quantity, domain.NewValidationError("quantity", "el stock resultante excede el máximo representable")
	}
	if next < 0 {
		return level.Quantity, &domain.InsufficientStockError{
			WarehouseID: warehouseID,
			Shortfalls:  []domain.Shortfall{{ProductID: productID, Available: level.Quantity, Required: -delta}},
		}
	}
	level.Quantity = next
	level.UpdatedAt = u.now()
	u.st.stock[k] = level
	return next, nil
}

func (u *unit) CurrentQuantity(_ context.Context, warehouseID, productID string) (int64, error) {
	return u.st.stock[stockKey{warehouseID, productID}].Quantity, nil
}

func (u *unit) CurrentQuantities(_ context.Context, warehouseID string, productIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(productIDs))
	for _, id := range productIDs {
		out[id] = u.st.stock[stockKey{warehouseID, id}].Quantity
	}
	return out, nil
}

func (u *unit) Create(_ context.Context, tx *entity.Transaction) error {
	if _, ok := u.st.txs[tx.ID]; ok {
		return domain.ErrConflict
	}
	u.st.txs[tx.ID] = copyTransaction(tx)
	return nil
}

func (u *unit) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	tx, ok := u.st.txs[id]
	if !ok {
		return nil, nil
	}
	return copyTransaction(tx), nil
}

// GetForUpdate la unidad ya tiene acceso exclusivo al estado.
func (u *unit) GetForUpdate(ctx context.Context, id string) (*entity.Transaction, error) {
	return u.GetByID(ctx, id)
}

func (u *unit) Delete(_ context.Context, id string) error {
	if _, ok := u.st.txs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(u.st.txs, id)
	return nil
}

func (u *unit) List(_ context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	out := make([]*entity.Transaction, 0)
	for _, tx := range u.st.txs {
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if filter.WarehouseID != "" && tx.SourceWarehouseID != filter.WarehouseID && tx.TargetWarehouseID != filter.WarehouseID {
			continue
		}
		out = append(out, copyTransaction(tx))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func copyTransaction(tx *entity.Transaction) *entity.Transaction {
	c := *tx
	c.Items = append([]entity.LineItem(nil), tx.Items...)
	return &c
}
