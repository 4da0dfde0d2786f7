package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// StockHandler consultas de niveles de stock y alertas de stock bajo.
type StockHandler struct {
	queries *inventory.StockQueries
	log     *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(queries *inventory.StockQueries, log *logger.Logger) *StockHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &StockHandler{queries: queries, log: log.Named("stock_handler")}
}

// Levels godoc
// @Summary      Niveles de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse  query  string  false  "Filtrar por bodega. Vacío = todas."
// @Success      200  {object}  dto.StockLevelListResponse
// @Router       /api/stock [get]
func (h *StockHandler) Levels(c *fiber.Ctx) error {
	resp, err := h.queries.Levels(c.Context(), c.Query("warehouse"))
	if err != nil {
		return respondError(c, err, h.log, nil)
	}
	return c.JSON(resp)
}

// Alerts godoc
// @Summary      Alertas de stock bajo
// @Description  Niveles por debajo del punto de reorden del producto, mayor déficit primero.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse  query  string  false  "Filtrar por bodega. Vacío = todas."
// @Success      200  {object}  dto.StockLevelListResponse
// @Router       /api/stock/alerts [get]
func (h *StockHandler) Alerts(c *fiber.Ctx) error {
	resp, err := h.queries.Alerts(c.Context(), c.Query("warehouse"))
	if err != nil {
		return respondError(c, err, h.log, nil)
	}
	return c.JSON(resp)
}
