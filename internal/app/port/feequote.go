package port

import (
	"context"

	"github.com/shopspring/decimal"

	"bridge_quoter/internal/domain/entity"
)

// FeeQuoteProvider returns the ordered fee options available for a transfer
// route at a given unit price. Failures may carry wallet/gas-price
// precondition markers in their message; callers classify them with
// entity.ClassifyFeeQuoteError.
type FeeQuoteProvider interface {
	GetFees(ctx context.Context, fromChain, toChain string, token entity.Token, unitPrice decimal.Decimal) (entity.FeeSet, error)
}
