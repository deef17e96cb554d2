package mocks

import (
	"context"

	"github.com/shopspring/decimal"

	"bridge_quoter/internal/domain/entity"
)

// FeeQuoteProviderMock implements port.FeeQuoteProvider for tests.
type FeeQuoteProviderMock struct {
	GetFeesFunc func(ctx context.Context, fromChain, toChain string, token entity.Token, unitPrice decimal.Decimal) (entity.FeeSet, error)
}

// GetFees implements port.FeeQuoteProvider.
func (m *FeeQuoteProviderMock) GetFees(ctx context.Context, fromChain, toChain string, token entity.Token, unitPrice decimal.Decimal) (entity.FeeSet, error) {
	if m.GetFeesFunc != nil {
		return m.GetFeesFunc(ctx, fromChain, toChain, token, unitPrice)
	}
	return entity.FeeSet{}, nil
}
