package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Processor    *inventory.TransactionProcessor
	Transactions *inventory.TransactionQueries
	Stock        *inventory.StockQueries
	JWTSecret    string
	Log          *logger.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token; crear y eliminar
// transacciones además requiere rol admin o manager.
func Router(app *fiber.App, deps RouterDeps) {
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	writers := RequireRole(jwt.RoleAdmin, jwt.RoleManager)

	txHandler := NewTransactionHandler(deps.Processor, deps.Transactions, deps.Log)
	transactions := protected.Group("/transactions")
	transactions.Post("/", writers, txHandler.Create)
	transactions.Get("/", txHandler.List)
	transactions.Get("/:id", txHandler.GetByID)
	transactions.Delete("/:id", writers, txHandler.Delete)

	stockHandler := NewStockHandler(deps.Stock, deps.Log)
	stock := protected.Group("/stock")
	stock.Get("/", stockHandler.Levels)
	stock.Get("/alerts", stockHandler.Alerts)
}
