package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrStoreUnavailable  = errors.New("almacenamiento no disponible")
)

// ValidationError describe qué invariante de negocio no se cumple en la solicitud.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un error de validación para un campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Shortfall déficit de un producto: disponible vs requerido en una bodega.
type Shortfall struct {
	ProductID string `json:"product_id"`
	Available int64  `json:"available"`
	Required  int64  `json:"required"`
}

// InsufficientStockError lista detallada de faltantes en una bodega.
type InsufficientStockError struct {
	WarehouseID string
	Shortfalls  []Shortfall
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s (disponible %d, requerido %d)", s.ProductID, s.Available, s.Required))
	}
	return fmt.Sprintf("stock insuficiente en bodega %s: %s", e.WarehouseID, strings.Join(parts, ", "))
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// ShortfallsOf extrae los faltantes de un error (vacío si no es de stock insuficiente).
func ShortfallsOf(err error) []Shortfall {
	var se *InsufficientStockError
	if errors.As(err, &se) {
		return se.Shortfalls
	}
	return nil
}
