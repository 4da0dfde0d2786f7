// Package events publica los eventos de transacciones confirmadas.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Publisher EventPublisher con cierre ordenado.
type Publisher interface {
	inventory.EventPublisher
	Close() error
}

// NewPublisher devuelve el publicador de Kafka si hay brokers configurados, si no uno que descarta.
func NewPublisher(cfg config.KafkaConfig, log *logger.Logger) Publisher {
	if !cfg.Enabled() {
		return Nop{}
	}
	return NewKafkaPublisher(cfg, log)
}

// Nop descarta los eventos.
type Nop struct{}

func (Nop) Publish(context.Context, inventory.TransactionEvent) error { return nil }
func (Nop) Close() error                                             { return nil }

// KafkaPublisher escribe un mensaje por evento en el topic configurado, con el ID de la
// transacción como key (mismo orden por transacción dentro de la partición).
type KafkaPublisher struct {
	writer *kafka.Writer
	source string
	log    *logger.Logger
}

// NewKafkaPublisher construye el writer síncrono.
func NewKafkaPublisher(cfg config.KafkaConfig, log *logger.Logger) *KafkaPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: cfg.PublishTimeout,
			Async:        false,
		},
		source: cfg.ClientID,
		log:    log.Named("kafka_publisher"),
	}
}

// Publish serializa el evento y lo escribe en Kafka.
func (p *KafkaPublisher) Publish(ctx context.Context, event inventory.TransactionEvent) error {
	msg, err := buildMessage(p.source, event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	p.log.Debug().Str("tx_id", event.Transaction.ID).Str("event", event.Type).Msg("evento publicado")
	return nil
}

// Close cierra el writer vaciando lo pendiente.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type eventPayload struct {
	Type        string        `json:"type"`
	OccurredAt  time.Time     `json:"occurred_at"`
	Transaction transactionV1 `json:"transaction"`
}

type transactionV1 struct {
	ID                string          `json:"id"`
	Type              string          `json:"type"`
	Date              time.Time       `json:"date"`
	PartyID           string          `json:"party_id,omitempty"`
	SourceWarehouseID string          `json:"source_warehouse_id,omitempty"`
	TargetWarehouseID string          `json:"target_warehouse_id,omitempty"`
	Items             []lineItemV1    `json:"items"`
	Total             decimal.Decimal `json:"total"`
	CreatedBy         string          `json:"created_by,omitempty"`
}

type lineItemV1 struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func buildMessage(source string, event inventory.TransactionEvent) (kafka.Message, error) {
	tx := event.Transaction
	if tx == nil {
		return kafka.Message{}, fmt.Errorf("evento %s sin transacción", event.Type)
	}
	payload := eventPayload{
		Type:       event.Type,
		OccurredAt: event.OccurredAt,
		Transaction: transactionV1{
			ID:                tx.ID,
			Type:              string(tx.Type),
			Date:              tx.Date,
			PartyID:           tx.PartyID,
			SourceWarehouseID: tx.SourceWarehouseID,
			TargetWarehouseID: tx.TargetWarehouseID,
			Items:             make([]lineItemV1, 0, len(tx.Items)),
			Total:             tx.Total(),
			CreatedBy:         tx.CreatedBy,
		},
	}
	for _, it := range tx.Items {
		payload.Transaction.Items = append(payload.Transaction.Items, lineItemV1{
			ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price,
		})
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(tx.ID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
			{Key: "source", Value: []byte(source)},
			{Key: "content-type", Value: []byte("application/json")},
		},
		Time: event.OccurredAt,
	}, nil
}
