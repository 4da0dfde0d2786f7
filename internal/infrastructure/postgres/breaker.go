package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

var _ inventory.TxRunner = (*BreakerTxRunner)(nil)

// BreakerTxRunner decora un TxRunner con un circuit breaker. Solo ErrStoreUnavailable cuenta
// como fallo: stock insuficiente, validación o conflictos son respuestas normales del almacén.
type BreakerTxRunner struct {
	inner inventory.TxRunner
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerTxRunner construye el decorador con la configuración del breaker.
func NewBreakerTxRunner(inner inventory.TxRunner, cfg config.BreakerConfig, log *logger.Logger) *BreakerTxRunner {
	if log == nil {
		log = logger.Nop()
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	settings := gobreaker.Settings{
		Name:        "stock-store",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, domain.ErrStoreUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("cambio de estado del circuit breaker")
		},
	}
	return &BreakerTxRunner{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Run ejecuta la unidad de trabajo a través del breaker. Abierto: ErrStoreUnavailable sin tocar la DB.
func (b *BreakerTxRunner) Run(ctx context.Context, fn func(
	ledger repository.StockLedger,
	txs repository.TransactionRepository,
) error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.inner.Run(ctx, fn)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return err
}

// State estado actual del breaker (closed, half-open, open).
func (b *BreakerTxRunner) State() string {
	return b.cb.State().String()
}
