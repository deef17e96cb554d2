package mocks

import (
	"context"

	"github.com/shopspring/decimal"

	"bridge_quoter/internal/domain/entity"
)

// PriceOracleMock implements port.PriceOracle for tests.
type PriceOracleMock struct {
	FetchPriceFunc func(ctx context.Context, token entity.Token) (decimal.Decimal, error)
}

// FetchPrice implements port.PriceOracle.
func (m *PriceOracleMock) FetchPrice(ctx context.Context, token entity.Token) (decimal.Decimal, error) {
	if m.FetchPriceFunc != nil {
		return m.FetchPriceFunc(ctx, token)
	}
	return decimal.Decimal{}, entity.ErrPriceUnavailable
}
