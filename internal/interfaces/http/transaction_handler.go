package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// TransactionHandler maneja las peticiones HTTP de transacciones de stock (protegido).
type TransactionHandler struct {
	processor *inventory.TransactionProcessor
	queries   *inventory.TransactionQueries
	log       *logger.Logger
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(processor *inventory.TransactionProcessor, queries *inventory.TransactionQueries, log *logger.Logger) *TransactionHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &TransactionHandler{processor: processor, queries: queries, log: log.Named("transaction_handler")}
}

// Create godoc
// @Summary      Crear transacción de stock
// @Description  Compra (entra a target_warehouse), venta (sale de source_warehouse) o traslado (source -> target).
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "type, bodegas según el tipo, items"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.StockErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.StockErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validateRequest(in); err != nil {
		return h.fail(c, err)
	}
	tx, err := h.processor.CreateFromRequest(c.Context(), userID, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.queries.Enrich(c.Context(), tx))
}

// Delete godoc
// @Summary      Eliminar transacción
// @Description  Revierte los ajustes de stock de la transacción y la elimina, de forma atómica.
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.StockErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	tx, err := h.processor.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.queries.Enrich(c.Context(), tx))
}

// GetByID godoc
// @Summary      Obtener transacción
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.queries.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// List godoc
// @Summary      Listar transacciones
// @Description  Más recientes primero. limit por defecto y máximo 200.
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        type       query  string  false  "purchase | sale | transfer"
// @Param        warehouse  query  string  false  "Bodega origen o destino"
// @Param        limit      query  int     false  "Máximo de resultados (1-200)"
// @Success      200  {object}  dto.TransactionListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	filter := repository.TransactionFilter{
		Type:        entity.TransactionType(c.Query("type")),
		WarehouseID: c.Query("warehouse"),
		Limit:       c.QueryInt("limit", 0),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return h.fail(c, domain.NewValidationError("type", "debe ser purchase, sale o transfer"))
	}
	if filter.Limit < 0 {
		return h.fail(c, domain.NewValidationError("limit", "debe ser positivo"))
	}
	resp, err := h.queries.List(c.Context(), filter)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

func (h *TransactionHandler) fail(c *fiber.Ctx, err error) error {
	return respondError(c, err, h.log, h.queries.ProductNames)
}
