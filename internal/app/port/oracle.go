package port

import (
	"context"

	"github.com/shopspring/decimal"

	"bridge_quoter/internal/domain/entity"
)

// PriceOracle resolves the fiat unit price of a token.
// Implementations return entity.ErrPriceUnavailable when the feed has no data
// for the token; transport and parse failures are treated the same way by
// callers (fall back to manual entry).
type PriceOracle interface {
	FetchPrice(ctx context.Context, token entity.Token) (decimal.Decimal, error)
}
