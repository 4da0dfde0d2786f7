package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Operaciones y resultados reportados a métricas.
const (
	OpCreate = "create"
	OpDelete = "delete"

	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"  // error del cliente, nada escrito
	OutcomeAborted   = "aborted"   // falla en escritura, rollback completo
	OutcomeNotFound  = "not_found" // eliminación de una transacción inexistente
)

// DefaultPublishTimeout tope para publicar un evento después del commit.
const DefaultPublishTimeout = 2 * time.Second

// ProcessorOption configura opciones del procesador.
type ProcessorOption func(*TransactionProcessor)

// WithPublishTimeout fija el tope de publicación; d <= 0 deja el valor por defecto.
func WithPublishTimeout(d time.Duration) ProcessorOption {
	return func(p *TransactionProcessor) {
		if d > 0 {
			p.publishTimeout = d
		}
	}
}

// TransactionProcessor crea y elimina transacciones de stock de forma atómica.
// Flujo de creación: Validating -> CheckingAvailability -> Committing -> Committed;
// termina en Rejected (nada escrito) o AbortedOnWrite (rollback de la unidad de trabajo).
type TransactionProcessor struct {
	txRunner  TxRunner
	checker   *AvailabilityChecker
	publisher EventPublisher
	metrics   Metrics
	log       *logger.Logger

	publishTimeout time.Duration
}

// NewTransactionProcessor construye el procesador. ledger se usa solo para lecturas fuera de la
// unidad de trabajo (verificación de disponibilidad). publisher y metrics pueden ser nil.
func NewTransactionProcessor(
	txRunner TxRunner,
	ledger repository.StockLedger,
	publisher EventPublisher,
	metrics Metrics,
	log *logger.Logger,
	opts ...ProcessorOption,
) *TransactionProcessor {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	p := &TransactionProcessor{
		txRunner:       txRunner,
		checker:        NewAvailabilityChecker(ledger),
		publisher:      publisher,
		metrics:        metrics,
		log:            log.Named("transaction_processor"),
		publishTimeout: DefaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CreateTransactionInput entrada del caso de uso de creación.
// Date en cero toma la hora actual.
type CreateTransactionInput struct {
	UserID            string
	Type              entity.TransactionType
	Date              time.Time
	PartyID           string
	SourceWarehouseID string
	TargetWarehouseID string
	Items             []entity.LineItem
	Notes             string
}

// Create valida, verifica disponibilidad (venta/traslado) y persiste el registro junto con los
// ajustes de stock en una sola unidad de trabajo.
func (p *TransactionProcessor) Create(ctx context.Context, input CreateTransactionInput) (*entity.Transaction, error) {
	start := time.Now()
	tx, err := p.create(ctx, input)
	p.metrics.TransactionProcessed(OpCreate, input.Type, outcomeOf(err), time.Since(start))
	if err != nil {
		p.logFailure(err, OpCreate, "").Str("type", string(input.Type)).Msg("transacción no creada")
		return nil, err
	}
	p.log.Info().Str("tx_id", tx.ID).Str("type", string(tx.Type)).Int("items", len(tx.Items)).Msg("transacción creada")
	p.publish(ctx, EventTransactionCreated, tx)
	return tx, nil
}

func (p *TransactionProcessor) create(ctx context.Context, input CreateTransactionInput) (*entity.Transaction, error) {
	route, err := inventory.ParseRoute(input.Type, input.SourceWarehouseID, input.TargetWarehouseID)
	if err != nil {
		return nil, err
	}
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	if source := route.Source(); source != "" {
		availability, err := p.checker.Check(ctx, source, input.Items)
		if err != nil {
			return nil, err
		}
		if !availability.OK {
			p.metrics.ShortfallsDetected(source, len(availability.Shortfalls))
			return nil, &domain.InsufficientStockError{WarehouseID: source, Shortfalls: availability.Shortfalls}
		}
	}

	now := time.Now().UTC()
	date := input.Date
	if date.IsZero() {
		date = now
	}
	tx := &entity.Transaction{
		ID:                uuid.New().String(),
		Type:              route.Type(),
		Date:              date,
		PartyID:           input.PartyID,
		SourceWarehouseID: route.Source(),
		TargetWarehouseID: route.Target(),
		Items:             append([]entity.LineItem(nil), input.Items...),
		Notes:             input.Notes,
		CreatedAt:         now,
		CreatedBy:         input.UserID,
	}
	deltas := inventory.Deltas(route, tx.Items)

	err = p.txRunner.Run(ctx, func(ledger repository.StockLedger, txs repository.TransactionRepository) error {
		if err := txs.Create(ctx, tx); err != nil {
			return err
		}
		return applyDeltas(ctx, ledger, deltas)
	})
	if err != nil {
		return nil, abortError(err)
	}
	return tx, nil
}

// Delete elimina una transacción aplicando el reverso de sus ajustes en la misma unidad de trabajo.
// El reverso no repite la verificación de disponibilidad: si revertir una compra deja stock
// negativo, el guard del libro lo rechaza y se devuelve ErrConflict.
func (p *TransactionProcessor) Delete(ctx context.Context, id string) (*entity.Transaction, error) {
	start := time.Now()
	tx, err := p.delete(ctx, id)
	var txType entity.TransactionType
	if tx != nil {
		txType = tx.Type
	}
	p.metrics.TransactionProcessed(OpDelete, txType, outcomeOf(err), time.Since(start))
	if err != nil {
		p.logFailure(err, OpDelete, id).Msg("transacción no eliminada")
		return nil, err
	}
	p.log.Info().Str("tx_id", tx.ID).Str("type", string(tx.Type)).Msg("transacción revertida y eliminada")
	p.publish(ctx, EventTransactionReversed, tx)
	return tx, nil
}

func (p *TransactionProcessor) delete(ctx context.Context, id string) (*entity.Transaction, error) {
	if id == "" {
		return nil, domain.NewValidationError("id", "requerido")
	}
	var deleted *entity.Transaction
	err := p.txRunner.Run(ctx, func(ledger repository.StockLedger, txs repository.TransactionRepository) error {
		existing, err := txs.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		route, err := inventory.RouteOf(existing)
		if err != nil {
			return fmt.Errorf("transacción %s con bodegas inconsistentes: %v", id, err)
		}
		if err := applyDeltas(ctx, ledger, inventory.ReversalDeltas(route, existing.Items)); err != nil {
			return err
		}
		if err := txs.Delete(ctx, id); err != nil {
			return err
		}
		deleted = existing
		return nil
	})
	if err != nil {
		return nil, abortError(err)
	}
	return deleted, nil
}

func applyDeltas(ctx context.Context, ledger repository.StockLedger, deltas []inventory.Delta) error {
	for _, d := range deltas {
		if _, err := ledger.Adjust(ctx, d.WarehouseID, d.ProductID, d.Amount); err != nil {
			return err
		}
	}
	return nil
}

func validateItems(items []entity.LineItem) error {
	if len(items) == 0 {
		return domain.NewValidationError("items", "debe tener al menos una línea")
	}
	for i, it := range items {
		field := fmt.Sprintf("items[%d]", i)
		if it.ProductID == "" {
			return domain.NewValidationError(field+".product", "requerido")
		}
		if it.Quantity < 1 {
			return domain.NewValidationError(field+".quantity", "debe ser un entero mayor o igual a 1")
		}
		if it.Quantity > inventory.MaxLineQuantity {
			return domain.NewValidationError(field+".quantity", fmt.Sprintf("debe ser menor o igual a %d", inventory.MaxLineQuantity))
		}
		if it.Price.LessThan(decimal.Zero) {
			return domain.NewValidationError(field+".price", "no puede ser negativo")
		}
	}
	return nil
}

// abortError un faltante detectado al aplicar (otra transacción concurrente consumió el stock)
// se reporta como conflicto reintentable, conservando el detalle de faltantes.
func abortError(err error) error {
	if errors.Is(err, domain.ErrInsufficientStock) && !errors.Is(err, domain.ErrConflict) {
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	}
	return err
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeCommitted
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInsufficientStock) && !errors.Is(err, domain.ErrConflict):
		return OutcomeRejected
	default:
		return OutcomeAborted
	}
}

func (p *TransactionProcessor) logFailure(err error, op, id string) *zerolog.Event {
	var ev *zerolog.Event
	switch outcomeOf(err) {
	case OutcomeAborted:
		if errors.Is(err, domain.ErrConflict) {
			ev = p.log.Warn()
		} else {
			ev = p.log.Error()
		}
	default:
		ev = p.log.Debug()
	}
	ev = ev.Err(err).Str("op", op)
	if id != "" {
		ev = ev.Str("tx_id", id)
	}
	return ev
}

// publish corre desacoplado de la cancelación del request y con tope publishTimeout:
// la unidad de trabajo ya está confirmada.
func (p *TransactionProcessor) publish(ctx context.Context, eventType string, tx *entity.Transaction) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.publishTimeout)
	defer cancel()
	event := TransactionEvent{Type: eventType, Transaction: tx, OccurredAt: time.Now().UTC()}
	if err := p.publisher.Publish(ctx, event); err != nil {
		p.log.Error().Err(err).Str("tx_id", tx.ID).Str("event", eventType).Msg("publicar evento")
	}
}
