package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una unidad de trabajo atómica, pasando el libro de stock
// y el registro de transacciones atados a ella. Commit si fn devuelve nil; Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ledger repository.StockLedger,
		txs repository.TransactionRepository,
	) error) error
}

// Tipos de evento publicados tras el commit.
const (
	EventTransactionCreated  = "transaction.created"
	EventTransactionReversed = "transaction.reversed"
)

// TransactionEvent evento de dominio emitido después de una unidad de trabajo confirmada.
type TransactionEvent struct {
	Type        string
	Transaction *entity.Transaction
	OccurredAt  time.Time
}

// EventPublisher publica eventos de transacciones (Kafka o no-op).
type EventPublisher interface {
	Publish(ctx context.Context, event TransactionEvent) error
}

// Metrics registra el resultado de cada operación del procesador.
type Metrics interface {
	TransactionProcessed(op string, txType entity.TransactionType, outcome string, elapsed time.Duration)
	ShortfallsDetected(warehouseID string, count int)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, TransactionEvent) error { return nil }

type nopMetrics struct{}

func (nopMetrics) TransactionProcessed(string, entity.TransactionType, string, time.Duration) {}
func (nopMetrics) ShortfallsDetected(string, int)                                          {}
