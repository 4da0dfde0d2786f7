package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// productNamer resuelve nombres de producto para detallar faltantes (puede ser nil).
type productNamer func(ctx context.Context, ids []string) map[string]string

// respondError traduce errores de dominio a la respuesta HTTP.
// El orden importa: un faltante detectado al aplicar es ErrConflict y ErrInsufficientStock a la vez.
func respondError(c *fiber.Ctx, err error, log *logger.Logger, names productNamer) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: ve.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrConflict):
		resp := stockError(c.Context(), err, names)
		resp.Code = "CONFLICT"
		resp.Message = "el stock cambió durante la operación, reintente"
		resp.Retryable = true
		return c.Status(fiber.StatusConflict).JSON(resp)
	case errors.Is(err, domain.ErrInsufficientStock):
		resp := stockError(c.Context(), err, names)
		resp.Code = "INSUFFICIENT_STOCK"
		resp.Message = "stock insuficiente"
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "transacción no encontrada"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrStoreUnavailable):
		log.Error().Err(err).Str("path", c.Path()).Msg("almacenamiento no disponible")
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "almacenamiento no disponible, intente más tarde"})
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("error no controlado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}

func stockError(ctx context.Context, err error, names productNamer) dto.StockErrorResponse {
	var resp dto.StockErrorResponse
	var se *domain.InsufficientStockError
	if !errors.As(err, &se) {
		return resp
	}
	resp.WarehouseID = se.WarehouseID
	ids := make([]string, 0, len(se.Shortfalls))
	for _, s := range se.Shortfalls {
		ids = append(ids, s.ProductID)
	}
	var resolved map[string]string
	if names != nil && len(ids) > 0 {
		resolved = names(ctx, ids)
	}
	for _, s := range se.Shortfalls {
		resp.Shortfalls = append(resp.Shortfalls, dto.ShortfallDTO{
			ProductID:   s.ProductID,
			ProductName: resolved[s.ProductID],
			Available:   s.Available,
			Required:    s.Required,
		})
	}
	return resp
}
