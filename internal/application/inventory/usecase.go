package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// CreateFromRequest adapta el request HTTP al caso de uso Create(ctx, CreateTransactionInput).
func (p *TransactionProcessor) CreateFromRequest(ctx context.Context, userID string, in dto.CreateTransactionRequest) (*entity.Transaction, error) {
	input := CreateTransactionInput{
		UserID:            userID,
		Type:              entity.TransactionType(in.Type),
		PartyID:           in.Party,
		SourceWarehouseID: in.SourceWarehouse,
		TargetWarehouseID: in.TargetWarehouse,
		Notes:             in.Notes,
	}
	if in.Date != nil {
		input.Date = in.Date.UTC()
	}
	input.Items = make([]entity.LineItem, 0, len(in.Items))
	for _, it := range in.Items {
		input.Items = append(input.Items, entity.LineItem{
			ProductID: it.Product,
			Quantity:  it.Quantity,
			Price:     priceOf(it.Price),
		})
	}
	return p.Create(ctx, input)
}

func priceOf(p *decimal.Decimal) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return *p
}
