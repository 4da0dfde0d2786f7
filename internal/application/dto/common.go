package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ShortfallDTO faltante de un producto en una validación de disponibilidad.
type ShortfallDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Available   int64  `json:"available"`
	Required    int64  `json:"required"`
}

// StockErrorResponse error de stock insuficiente o conflicto con detalle por producto.
type StockErrorResponse struct {
	Code        string         `json:"code"`
	Message     string         `json:"message"`
	WarehouseID string         `json:"warehouse_id,omitempty"`
	Shortfalls  []ShortfallDTO `json:"shortfalls,omitempty"`
	Retryable   bool           `json:"retryable"`
}

// RefDTO referencia a una entidad del catálogo con su nombre resuelto (si se encontró).
type RefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}
