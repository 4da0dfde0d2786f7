package inventory_test

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

func items(lines ...entity.LineItem) []entity.LineItem { return lines }

func line(productID string, qty int64) entity.LineItem {
	return entity.LineItem{ProductID: productID, Quantity: qty, Price: decimal.NewFromInt(5)}
}

func TestParseRoute_CamposPorTipo(t *testing.T) {
	cases := []struct {
		name   string
		txType entity.TransactionType
		source string
		target string
		field  string
	}{
		{"compra sin destino", entity.TransactionPurchase, "W1", "", "target_warehouse"},
		{"venta sin origen", entity.TransactionSale, "", "W1", "source_warehouse"},
		{"traslado sin origen", entity.TransactionTransfer, "", "W2", "source_warehouse"},
		{"traslado sin destino", entity.TransactionTransfer, "W1", "", "target_warehouse"},
		{"traslado misma bodega", entity.TransactionTransfer, "W1", "W1", "target_warehouse"},
		{"tipo desconocido", entity.TransactionType("refund"), "W1", "W2", "type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := inventory.ParseRoute(tc.txType, tc.source, tc.target)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestParseRoute_IgnoraCampoNoUsado(t *testing.T) {
	r, err := inventory.ParseRoute(entity.TransactionPurchase, "W9", "W1")
	require.NoError(t, err)
	assert.Equal(t, inventory.PurchaseRoute{TargetID: "W1"}, r)
	assert.Empty(t, r.Source())

	r, err = inventory.ParseRoute(entity.TransactionSale, "W1", "W9")
	require.NoError(t, err)
	assert.Equal(t, inventory.SaleRoute{SourceID: "W1"}, r)
	assert.Empty(t, r.Target())
}

func TestDeltas_PorTipo(t *testing.T) {
	lines := items(line("P1", 10), line("P2", 3))

	assert.Equal(t, []inventory.Delta{
		{WarehouseID: "W1", ProductID: "P1", Amount: 10},
		{WarehouseID: "W1", ProductID: "P2", Amount: 3},
	}, inventory.Deltas(inventory.PurchaseRoute{TargetID: "W1"}, lines))

	assert.Equal(t, []inventory.Delta{
		{WarehouseID: "W1", ProductID: "P1", Amount: -10},
		{WarehouseID: "W1", ProductID: "P2", Amount: -3},
	}, inventory.Deltas(inventory.SaleRoute{SourceID: "W1"}, lines))

	assert.Equal(t, []inventory.Delta{
		{WarehouseID: "W1", ProductID: "P1", Amount: -10},
		{WarehouseID: "W2", ProductID: "P1", Amount: 10},
		{WarehouseID: "W1", ProductID: "P2", Amount: -3},
		{WarehouseID: "W2", ProductID: "P2", Amount: 3},
	}, inventory.Deltas(inventory.TransferRoute{SourceID: "W1", TargetID: "W2"}, lines))
}

// El reverso de cualquier transacción suma cero con su creación par a par.
func TestReversalDeltas_EsInverso(t *testing.T) {
	routes := []inventory.Route{
		inventory.PurchaseRoute{TargetID: "W1"},
		inventory.SaleRoute{SourceID: "W1"},
		inventory.TransferRoute{SourceID: "W1", TargetID: "W2"},
	}
	lines := items(line("P1", 4), line("P1", 2), line("P3", 7))
	for _, r := range routes {
		created := inventory.Deltas(r, lines)
		reversed := inventory.ReversalDeltas(r, lines)
		require.Len(t, reversed, len(created))
		net := map[[2]string]int64{}
		for i := range created {
			assert.Equal(t, created[i].WarehouseID, reversed[i].WarehouseID)
			assert.Equal(t, created[i].ProductID, reversed[i].ProductID)
			net[[2]string{created[i].WarehouseID, created[i].ProductID}] += created[i].Amount + reversed[i].Amount
		}
		for k, v := range net {
			assert.Zero(t, v, "par %v", k)
		}
	}
}

func TestRequirements_AgrupaPorProducto(t *testing.T) {
	order, req, err := inventory.Requirements(items(line("P2", 1), line("P1", 6), line("P2", 4)))
	require.NoError(t, err)
	assert.Equal(t, []string{"P2", "P1"}, order)
	assert.Equal(t, map[string]int64{"P1": 6, "P2": 5}, req)
}

func TestRequirements_DesbordeEsValidacion(t *testing.T) {
	_, _, err := inventory.Requirements(items(line("P1", math.MaxInt64), line("P1", math.MaxInt64)))
	require.Error(t, err)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "items", ve.Field)
}

func TestAddQuantity_DetectaDesborde(t *testing.T) {
	sum, ok := inventory.AddQuantity(math.MaxInt64-1, 1)
	assert.True(t, ok)
	assert.Equal(t, int64(math.MaxInt64), sum)

	_, ok = inventory.AddQuantity(math.MaxInt64, 1)
	assert.False(t, ok)
	_, ok = inventory.AddQuantity(math.MinInt64, -1)
	assert.False(t, ok)

	sum, ok = inventory.AddQuantity(5, -7)
	assert.True(t, ok)
	assert.Equal(t, int64(-2), sum)
}
