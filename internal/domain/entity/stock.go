package entity

import "time"

// StockLevel cantidad actual de un producto en una bodega (una fila por par producto+bodega).
// La ausencia de fila equivale a cantidad 0.
type StockLevel struct {
	ProductID   string
	WarehouseID string
	Quantity    int64
	UpdatedAt   time.Time
}
