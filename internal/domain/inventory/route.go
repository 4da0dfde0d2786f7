package inventory

import (
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Route bodegas involucradas según el tipo de transacción (variante etiquetada).
// Solo existen PurchaseRoute, SaleRoute y TransferRoute.
type Route interface {
	Type() entity.TransactionType
	// Source bodega de la que sale stock ("" si no aplica).
	Source() string
	// Target bodega a la que entra stock ("" si no aplica).
	Target() string
}

// PurchaseRoute compra: entra stock a Target.
type PurchaseRoute struct{ TargetID string }

// SaleRoute venta: sale stock de SourceID.
type SaleRoute struct{ SourceID string }

// TransferRoute traslado: sale de SourceID y entra a TargetID.
type TransferRoute struct{ SourceID, TargetID string }

func (PurchaseRoute) Type() entity.TransactionType { return entity.TransactionPurchase }
func (PurchaseRoute) Source() string               { return "" }
func (r PurchaseRoute) Target() string             { return r.TargetID }

func (SaleRoute) Type() entity.TransactionType { return entity.TransactionSale }
func (r SaleRoute) Source() string             { return r.SourceID }
func (SaleRoute) Target() string               { return "" }

func (TransferRoute) Type() entity.TransactionType { return entity.TransactionTransfer }
func (r TransferRoute) Source() string             { return r.SourceID }
func (r TransferRoute) Target() string             { return r.TargetID }

// ParseRoute valida los campos de bodega según el tipo y devuelve la variante.
// Los campos que el tipo no usa se ignoran (compra ignora origen, venta ignora destino).
func ParseRoute(txType entity.TransactionType, sourceID, targetID string) (Route, error) {
	switch txType {
	case entity.TransactionPurchase:
		if targetID == "" {
			return nil, domain.NewValidationError("target_warehouse", "requerido para compras")
		}
		return PurchaseRoute{TargetID: targetID}, nil
	case entity.TransactionSale:
		if sourceID == "" {
			return nil, domain.NewValidationError("source_warehouse", "requerido para ventas")
		}
		return SaleRoute{SourceID: sourceID}, nil
	case entity.TransactionTransfer:
		if sourceID == "" {
			return nil, domain.NewValidationError("source_warehouse", "requerido para traslados")
		}
		if targetID == "" {
			return nil, domain.NewValidationError("target_warehouse", "requerido para traslados")
		}
		if sourceID == targetID {
			return nil, domain.NewValidationError("target_warehouse", "debe ser distinta de la bodega origen")
		}
		return TransferRoute{SourceID: sourceID, TargetID: targetID}, nil
	default:
		return nil, domain.NewValidationError("type", "debe ser purchase, sale o transfer")
	}
}

// RouteOf reconstruye la variante desde un registro ya persistido.
func RouteOf(tx *entity.Transaction) (Route, error) {
	return ParseRoute(tx.Type, tx.SourceWarehouseID, tx.TargetWarehouseID)
}
