package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

func TestBuildMessage(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	event := inventory.TransactionEvent{
		Type:       inventory.EventTransactionCreated,
		OccurredAt: at,
		Transaction: &entity.Transaction{
			ID: "T1", Type: entity.TransactionTransfer, Date: at,
			SourceWarehouseID: "W1", TargetWarehouseID: "W2",
			Items: []entity.LineItem{{ProductID: "P", Quantity: 2, Price: decimal.RequireFromString("1.25")}},
		},
	}

	msg, err := buildMessage("stock-ledger", event)
	require.NoError(t, err)
	assert.Equal(t, "T1", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	assert.Contains(t, msg.Headers, kafkaHeader("event-type", inventory.EventTransactionCreated))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, "transaction.created", payload["type"])
	tx := payload["transaction"].(map[string]any)
	assert.Equal(t, "transfer", tx["type"])
	assert.Equal(t, "W2", tx["target_warehouse_id"])
	assert.Equal(t, "2.5", tx["total"])
	assert.NotContains(t, tx, "party_id")
}

func TestBuildMessage_SinTransaccion(t *testing.T) {
	_, err := buildMessage("x", inventory.TransactionEvent{Type: inventory.EventTransactionReversed})
	require.Error(t, err)
}

func TestNewPublisher_SinBrokersEsNop(t *testing.T) {
	p := NewPublisher(config.KafkaConfig{}, nil)
	assert.IsType(t, Nop{}, p)
	assert.NoError(t, p.Publish(context.Background(), inventory.TransactionEvent{}))
	assert.NoError(t, p.Close())

	k := NewPublisher(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "t", PublishTimeout: time.Second}, nil)
	require.IsType(t, &KafkaPublisher{}, k)
	assert.Equal(t, time.Second, k.(*KafkaPublisher).writer.WriteTimeout)
	assert.NoError(t, k.Close())
}

func kafkaHeader(key, value string) kafka.Header {
	return kafka.Header{Key: key, Value: []byte(value)}
}
