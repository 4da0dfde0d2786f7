package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionItemRequest línea del body de POST /api/transactions.
type TransactionItemRequest struct {
	Product  string           `json:"product" validate:"required"`
	Quantity int64            `json:"quantity" validate:"required,min=1,max=1000000000"`
	Price    *decimal.Decimal `json:"price" validate:"required"`
}

// CreateTransactionRequest body para POST /api/transactions.
// Compra: target_warehouse. Venta: source_warehouse. Traslado: ambas y distintas.
type CreateTransactionRequest struct {
	Type            string                   `json:"type" validate:"required,oneof=purchase sale transfer"`
	Date            *time.Time               `json:"date,omitempty"`
	Party           string                   `json:"party,omitempty"`
	SourceWarehouse string                   `json:"source_warehouse,omitempty"`
	TargetWarehouse string                   `json:"target_warehouse,omitempty"`
	Items           []TransactionItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes           string                   `json:"notes,omitempty" validate:"max=2000"`
}

// TransactionItemResponse línea de una transacción con el producto resuelto.
type TransactionItemResponse struct {
	Product  RefDTO          `json:"product"`
	SKU      string          `json:"sku,omitempty"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// TransactionResponse salida de una transacción (enriquecida con nombres del catálogo).
type TransactionResponse struct {
	ID              string                    `json:"id"`
	Type            string                    `json:"type"`
	Date            time.Time                 `json:"date"`
	Party           *RefDTO                   `json:"party,omitempty"`
	SourceWarehouse *RefDTO                   `json:"source_warehouse,omitempty"`
	TargetWarehouse *RefDTO                   `json:"target_warehouse,omitempty"`
	Items           []TransactionItemResponse `json:"items"`
	Notes           string                    `json:"notes,omitempty"`
	Total           decimal.Decimal           `json:"total"`
	CreatedAt       time.Time                 `json:"created_at"`
	CreatedBy       string                    `json:"created_by,omitempty"`
}

// TransactionListResponse listado de transacciones (más recientes primero).
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Count int                   `json:"count"`
}

// StockLevelDTO nivel de stock de un producto en una bodega.
type StockLevelDTO struct {
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name,omitempty"`
	SKU           string    `json:"sku,omitempty"`
	WarehouseID   string    `json:"warehouse_id"`
	WarehouseName string    `json:"warehouse_name,omitempty"`
	Quantity      int64     `json:"quantity"`
	MinQuantity   *int64    `json:"min_quantity,omitempty"`
	IsLowStock    bool      `json:"is_low_stock"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StockLevelListResponse listado de niveles de stock.
type StockLevelListResponse struct {
	Items []StockLevelDTO `json:"items"`
	Count int             `json:"count"`
}
