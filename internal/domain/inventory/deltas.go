package inventory

import (
	"math"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MaxLineQuantity cantidad máxima aceptada en una línea.
const MaxLineQuantity int64 = 1_000_000_000

// Delta ajuste con signo a aplicar sobre el stock de (bodega, producto).
type Delta struct {
	WarehouseID string
	ProductID   string
	Amount      int64
}

// Deltas calcula los ajustes de creación, en orden de líneas:
// compra +q destino; venta -q origen; traslado -q origen y luego +q destino.
func Deltas(route Route, items []entity.LineItem) []Delta {
	out := make([]Delta, 0, len(items)*2)
	for _, it := range items {
		q := abs(it.Quantity)
		switch r := route.(type) {
		case PurchaseRoute:
			out = append(out, Delta{WarehouseID: r.TargetID, ProductID: it.ProductID, Amount: q})
		case SaleRoute:
			out = append(out, Delta{WarehouseID: r.SourceID, ProductID: it.ProductID, Amount: -q})
		case TransferRoute:
			out = append(out,
				Delta{WarehouseID: r.SourceID, ProductID: it.ProductID, Amount: -q},
				Delta{WarehouseID: r.TargetID, ProductID: it.ProductID, Amount: q},
			)
		}
	}
	return out
}

// ReversalDeltas calcula el reverso compensatorio: mismos pares y orden, signo invertido.
func ReversalDeltas(route Route, items []entity.LineItem) []Delta {
	out := Deltas(route, items)
	for i := range out {
		out[i].Amount = -out[i].Amount
	}
	return out
}

// Requirements agrupa la cantidad requerida por producto (orden de primera aparición).
// Una suma que desborda int64 es un error de validación sobre items.
func Requirements(items []entity.LineItem) ([]string, map[string]int64, error) {
	order := make([]string, 0, len(items))
	req := make(map[string]int64, len(items))
	for _, it := range items {
		if _, ok := req[it.ProductID]; !ok {
			order = append(order, it.ProductID)
		}
		sum, ok := AddQuantity(req[it.ProductID], abs(it.Quantity))
		if !ok {
			return nil, nil, domain.NewValidationError("items", "la cantidad total del producto "+it.ProductID+" excede el máximo")
		}
		req[it.ProductID] = sum
	}
	return order, req, nil
}

// AddQuantity suma a+b; ok=false si el resultado desborda int64.
func AddQuantity(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}

func abs(n int64) int64 {
	if n == math.MinInt64 {
		return math.MaxInt64
	}
	if n < 0 {
		return -n
	}
	return n
}
