package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// AddProduct registra o reemplaza un producto del catálogo.
func (s *Store) AddProduct(p *entity.Product) {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()
	c := *p
	s.products[p.ID] = &c
}

// AddWarehouse registra o reemplaza una bodega.
func (s *Store) AddWarehouse(w *entity.Warehouse) {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()
	c := *w
	s.warehouses[w.ID] = &c
}

// AddParty registra o reemplaza un proveedor o cliente.
func (s *Store) AddParty(p *entity.Party) {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()
	c := *p
	s.parties[p.ID] = &c
}

// SetStock fija la cantidad de (bodega, producto) sin pasar por el registro de transacciones.
// Solo para cargar datos iniciales.
func (s *Store) SetStock(warehouseID, productID string, quantity int64) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.clone()
	next.stock[stockKey{warehouseID, productID}] = entity.StockLevel{
		WarehouseID: warehouseID,
		ProductID:   productID,
		Quantity:    quantity,
		UpdatedAt:   s.now(),
	}
	s.state = next
}

// Products repositorio de productos.
func (s *Store) Products() repository.ProductRepository { return productRepo{s} }

// Warehouses repositorio de bodegas.
func (s *Store) Warehouses() repository.WarehouseRepository { return warehouseRepo{s} }

// Parties repositorio de terceros.
func (s *Store) Parties() repository.PartyRepository { return partyRepo{s} }

type productRepo struct{ s *Store }

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.catalogMu.RLock()
	defer r.s.catalogMu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r productRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	r.s.catalogMu.RLock()
	defer r.s.catalogMu.RUnlock()
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			c := *p
			out[id] = &c
		}
	}
	return out, nil
}

type warehouseRepo struct{ s *Store }

func (r warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	r.s.catalogMu.RLock()
	defer r.s.catalogMu.RUnlock()
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	c := *w
	return &c, nil
}

func (r warehouseRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Warehouse, error) {
	r.s.catalogMu.RLock()
	defer r.s.catalogMu.RUnlock()
	out := make(map[string]*entity.Warehouse, len(ids))
	for _, id := range ids {
		if w, ok := r.s.warehouses[id]; ok {
			c := *w
			out[id] = &c
		}
	}
	return out, nil
}

type partyRepo struct{ s *Store }

func (r partyRepo) GetByID(_ context.Context, id string) (*entity.Party, error) {
	r.s.catalogMu.RLock()
	defer r.s.catalogMu.RUnlock()
	p, ok := r.s.parties[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}
