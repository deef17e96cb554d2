package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bridge_quoter/internal/app/port"
	"bridge_quoter/internal/domain/entity"
	"bridge_quoter/internal/domain/mocks"
)

const (
	waitFor = 2 * time.Second
	tick    = 10 * time.Millisecond
)

func atomToken() entity.Token {
	return entity.CosmosToken{Symbol: "ATOM", BaseDenom: "uatom", Decimals: 6}
}

func osmoToken() entity.Token {
	return entity.CosmosToken{Symbol: "OSMO", BaseDenom: "uosmo", Decimals: 6}
}

func feeOpt(id, amount, fiat string) entity.FeeOption {
	return entity.FeeOption{
		ID:         id,
		Label:      id,
		Amount:     decimal.RequireFromString(amount),
		Denom:      "ATOM",
		FiatAmount: decimal.RequireFromString(fiat),
	}
}

func fixedPriceOracle(price string) *mocks.PriceOracleMock {
	return &mocks.PriceOracleMock{
		FetchPriceFunc: func(ctx context.Context, token entity.Token) (decimal.Decimal, error) {
			return decimal.RequireFromString(price), nil
		},
	}
}

func fixedFeeProvider(set entity.FeeSet) *mocks.FeeQuoteProviderMock {
	return &mocks.FeeQuoteProviderMock{
		GetFeesFunc: func(ctx context.Context, fromChain, toChain string, token entity.Token, unitPrice decimal.Decimal) (entity.FeeSet, error) {
			return set, nil
		},
	}
}

func newTestSession(oracle port.PriceOracle, provider port.FeeQuoteProvider) port.QuoteSession {
	return NewQuoteSession(oracle, provider, time.Second, zap.NewNop())
}

func TestSetTokenResolvesOraclePriceAndFetchesFees(t *testing.T) {
	set := entity.FeeSet{feeOpt("low", "0.1", "1.2"), feeOpt("high", "1", "12")}
	session := newTestSession(fixedPriceOracle("12.5"), fixedFeeProvider(set))

	session.SetRoute("osmosis", "ethereum")
	session.SetToken(atomToken())

	require.Eventually(t, func() bool {
		view := session.Snapshot()
		return view.Price.State == entity.PriceFromOracle && len(view.Fees) == 2
	}, waitFor, tick)

	view := session.Snapshot()
	assert.True(t, view.Price.OraclePrice.Equal(decimal.RequireFromString("12.5")))
	require.NotNil(t, view.Selection)
	assert.Equal(t, "low", view.Selection.ID, "first option is the default selection")
	assert.Empty(t, view.ErrorMessage)
	assert.Len(t, view.Disabled, 2)
}

func TestSetTokenOracleUnavailableSwitchesToManual(t *testing.T) {
	var feeCalls atomic.Int64
	provider := &mocks.FeeQuoteProviderMock{
		GetFeesFunc: func(ctx context.Context, fromChain, toChain string, token entity.Token, unitPrice decimal.Decimal) (entity.FeeSet, error) {
			feeCalls.Add(1)
			return entity.FeeSet{feeOpt("low", "0.1", "1.2")}, nil
		},
	}
	session := newTestSession(&mocks.PriceOracleMock{}, provider)

	session.SetToken(atomToken())

	require.Eventually(t, func() bool {
		return session.Snapshot().Price.State == entity.PriceNeedsManual
	}, waitFor, tick)

	view := session.Snapshot()
	assert.Empty(t, view.Price.ManualInput)
	assert.False(t, view.Price.ManualValid)
	assert.Empty(t, view.Fees, "no usable price means the fee set is forced empty")
	assert.Empty(t, view.ErrorMessage, "unavailable price is a prompt, not an error")
	assert.Zero(t, feeCalls.Load(), "no fee request without a usable price")
}

func TestManualPriceInputGrammar(t *testing.T) {
	session := newTestSession(&mocks.PriceOracleMock{}, fixedFeeProvider(entity.FeeSet{feeOpt("low", "0.1", "1.2")}))

	session.SetToken(atomToken())
	require.Eventually(t, func() bool {
		return session.Snapshot().Price.State == entity.PriceNeedsManual
	}, waitFor, tick)

	session.InputManualPrice("12.5")
	view := session.Snapshot()
	assert.Equal(t, "12.5", view.Price.ManualInput)
	assert.True(t, view.Price.ManualValid)

	// rejected keystrokes leave the state unchanged
	session.InputManualPrice("12.5.3")
	view = session.Snapshot()
	assert.Equal(t, "12.5", view.Price.ManualInput)

	session.InputManualPrice("abc")
	view = session.Snapshot()
	assert.Equal(t, "12.5", view.Price.ManualInput)
}

func TestValidManualPriceTriggersFeeFetch(t *testing.T) {
	var gotUnitPrice atomic.Value
	provider := &mocks.FeeQuoteProviderMock{
		GetFeesFunc: func(ctx context.Context, fromChain, toChain string, token entity.Token, unitPrice decimal.Decimal) (entity.FeeSet, error) {
			gotUnitPrice.Store(unitPrice.String())
			return entity.FeeSet{feeOpt("low", "0.1", "1.2")}, nil
		},
	}
	session := newTestSession(&mocks.PriceOracleMock{}, provider)

	session.SetRoute("osmosis", "ethereum")
	session.SetToken(atomToken())
	require.Eventually(t, func() bool {
		return session.Snapshot().Price.State == entity.PriceNeedsManual
	}, waitFor, tick)

	session.InputManualPrice("12.5")

	require.Eventually(t, func() bool {
		return len(session.Snapshot().Fees) == 1
	}, waitFor, tick)
	assert.Equal(t, "12.5", gotUnitPrice.Load())
}

func TestClearingManualPriceEmptiesFeeSet(t *testing.T) {
	session := newTestSession(&mocks.PriceOracleMock{}, fixedFeeProvider(entity.FeeSet{feeOpt("low", "0.1", "1.2")}))

	session.SetRoute("osmosis", "ethereum")
	session.SetToken(atomToken())
	require.Eventually(t, func() bool {
		return session.Snapshot().Price.State == entity.PriceNeedsManual
	}, waitFor, tick)

	session.InputManualPrice("12.5")
	require.Eventually(t, func() bool {
		return len(session.Snapshot().Fees) == 1
	}, waitFor, tick)

	session.InputManualPrice("")

	view := session.Snapshot()
	assert.Empty(t, view.Fees)
	assert.Nil(t, view.Selection)
	assert.Empty(t, view.ErrorMessage)
}

func TestStaleOracleResponseIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	oracle := &mocks.PriceOracleMock{
		FetchPriceFunc: func(ctx context.Context, token entity.Token) (decimal.Decimal, error) {
			if token.TokenSymbol() == "ATOM" {
				<-release
				return decimal.RequireFromString("999"), nil
			}
			return decimal.Decimal{}, entity.ErrPriceUnavailable
		},
	}
	session := newTestSession(oracle, fixedFeeProvider(nil))

	session.SetToken(atomToken())
	session.SetToken(osmoToken())

	require.Eventually(t, func() bool {
		return session.Snapshot().Price.State == entity.PriceNeedsManual
	}, waitFor, tick)

	close(release)

	// the late ATOM price must never surface on top of the OSMO state
	assert.Never(t, func() bool {
		return session.Snapshot().Price.State == entity.PriceFromOracle
	}, 300*time.Millisecond, tick)
}

func TestStaleFeeResponseIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	provider := &mocks.FeeQuoteProviderMock{
		GetFeesFunc: func(ctx context.Context, fromChain, toChain string, token entity.Token, unitPrice decimal.Decimal) (entity.FeeSet, error) {
			if fromChain == "slow-chain" {
				<-release
				return entity.FeeSet{feeOpt("stale", "9", "90")}, nil
			}
			return entity.FeeSet{feeOpt("fresh", "1", "10")}, nil
		},
	}
	session := newTestSession(fixedPriceOracle("2"), provider)

	session.SetRoute("slow-chain", "ethereum")
	session.SetToken(atomToken())
	require.Eventually(t, func() bool {
		return session.Snapshot().Price.State == entity.PriceFromOracle
	}, waitFor, tick)

	session.SetRoute("fast-chain", "ethereum")
	require.Eventually(t, func() bool {
		view := session.Snapshot()
		return len(view.Fees) == 1 && view.Fees[0].ID == "fresh"
	}, waitFor, tick)

	close(release)

	assert.Never(t, func() bool {
		view := session.Snapshot()
		return len(view.Fees) > 0 && view.Fees[0].ID == "stale"
	}, 300*time.Millisecond, tick)
}

func TestSelectionTracksRefreshedValues(t *testing.T) {
	var refreshed atomic.Bool
	provider := &mocks.FeeQuoteProviderMock{
		GetFeesFunc: func(ctx context.Context, fromChain, toChain string, token entity.Token, unitPrice decimal.Decimal) (entity.FeeSet, error) {
			if refreshed.Load() {
				return entity.FeeSet{feeOpt("low", "0.1", "1.2"), feeOpt("high", "2", "24")}, nil
			}
			return entity.FeeSet{feeOpt("low", "0.1", "1.2"), feeOpt("high", "1", "12")}, nil
		},
	}
	session := newTestSession(fixedPriceOracle("12"), provider)

	session.SetRoute("osmosis", "ethereum")
	session.SetToken(atomToken())
	require.Eventually(t, func() bool {
		return len(session.Snapshot().Fees) == 2
	}, waitFor, tick)

	session.ClickFee(feeOpt("high", "1", "12"))
	refreshed.Store(true)
	session.SetRoute("osmosis", "juno")

	require.Eventually(t, func() bool {
		view := session.Snapshot()
		return view.Selection != nil && view.Selection.Amount.Equal(decimal.RequireFromString("2"))
	}, waitFor, tick)

	view := session.Snapshot()
	assert.Equal(t, "high", view.Selection.ID, "selection follows the identifier with refreshed field values")
}

func TestSelectionFallsBackWhenOptionDisappears(t *testing.T) {
	var refreshed atomic.Bool
	provider := &mocks.FeeQuoteProviderMock{
		GetFeesFunc: func(ctx context.Context, fromChain, toChain string, token entity.Token, unitPrice decimal.Decimal) (entity.FeeSet, error) {
			if refreshed.Load() {
				return entity.FeeSet{feeOpt("low", "0.1", "1.2")}, nil
			}
			return entity.FeeSet{feeOpt("low", "0.1", "1.2"), feeOpt("high", "1", "12")}, nil
		},
	}
	session := newTestSession(fixedPriceOracle("12"), provider)

	session.SetRoute("osmosis", "ethereum")
	session.SetToken(atomToken())
	require.Eventually(t, func() bool {
		return len(session.Snapshot().Fees) == 2
	}, waitFor, tick)

	session.ClickFee(feeOpt("high", "1", "12"))
	refreshed.Store(true)
	session.SetRoute("osmosis", "juno")

	require.Eventually(t, func() bool {
		view := session.Snapshot()
		return len(view.Fees) == 1 && view.Selection != nil && view.Selection.ID == "low"
	}, waitFor, tick)
}

func TestFeeQuoteWalletErrorSurfacesMessage(t *testing.T) {
	provider := &mocks.FeeQuoteProviderMock{
		GetFeesFunc: func(ctx context.Context, fromChain, toChain string, token entity.Token, unitPrice decimal.Decimal) (entity.FeeSet, error) {
			return nil, errors.New("no wallet connected for chain osmosis")
		},
	}
	session := newTestSession(fixedPriceOracle("12"), provider)

	session.SetRoute("osmosis", "ethereum")
	session.SetToken(atomToken())

	require.Eventually(t, func() bool {
		return session.Snapshot().ErrorMessage == entity.MsgConnectWallet
	}, waitFor, tick)

	view := session.Snapshot()
	assert.Empty(t, view.Fees)
	assert.Nil(t, view.Selection)
}

func TestFeeQuoteGenericErrorSurfacesMessage(t *testing.T) {
	provider := &mocks.FeeQuoteProviderMock{
		GetFeesFunc: func(ctx context.Context, fromChain, toChain string, token entity.Token, unitPrice decimal.Decimal) (entity.FeeSet, error) {
			return nil, errors.New("upstream timeout")
		},
	}
	session := newTestSession(fixedPriceOracle("12"), provider)

	session.SetRoute("osmosis", "ethereum")
	session.SetToken(atomToken())

	require.Eventually(t, func() bool {
		return session.Snapshot().ErrorMessage == entity.MsgFeeQuoteFailed
	}, waitFor, tick)
}

func TestRouteChangeWithoutUsablePriceIssuesNoRequest(t *testing.T) {
	var feeCalls atomic.Int64
	provider := &mocks.FeeQuoteProviderMock{
		GetFeesFunc: func(ctx context.Context, fromChain, toChain string, token entity.Token, unitPrice decimal.Decimal) (entity.FeeSet, error) {
			feeCalls.Add(1)
			return entity.FeeSet{}, nil
		},
	}
	session := newTestSession(&mocks.PriceOracleMock{}, provider)

	session.SetToken(atomToken())
	require.Eventually(t, func() bool {
		return session.Snapshot().Price.State == entity.PriceNeedsManual
	}, waitFor, tick)

	session.SetRoute("osmosis", "ethereum")
	session.SetRoute("juno", "ethereum")

	assert.Never(t, func() bool {
		return feeCalls.Load() > 0
	}, 200*time.Millisecond, tick)
}

func TestTokenBeforeRouteIssuesNoFeeRequest(t *testing.T) {
	var feeCalls atomic.Int64
	provider := &mocks.FeeQuoteProviderMock{
		GetFeesFunc: func(ctx context.Context, fromChain, toChain string, token entity.Token, unitPrice decimal.Decimal) (entity.FeeSet, error) {
			feeCalls.Add(1)
			return entity.FeeSet{feeOpt("low", "0.1", "1.2")}, nil
		},
	}
	session := newTestSession(fixedPriceOracle("12.5"), provider)

	session.SetToken(atomToken())
	require.Eventually(t, func() bool {
		return session.Snapshot().Price.State == entity.PriceFromOracle
	}, waitFor, tick)

	// price resolved but no route yet: a fresh form must not surface an error
	assert.Never(t, func() bool {
		return feeCalls.Load() > 0
	}, 200*time.Millisecond, tick)
	view := session.Snapshot()
	assert.Empty(t, view.Fees)
	assert.Empty(t, view.ErrorMessage)

	session.SetRoute("osmosis", "ethereum")
	require.Eventually(t, func() bool {
		return len(session.Snapshot().Fees) == 1
	}, waitFor, tick)
}

func TestManualPriceBeforeRouteIssuesNoFeeRequest(t *testing.T) {
	var feeCalls atomic.Int64
	provider := &mocks.FeeQuoteProviderMock{
		GetFeesFunc: func(ctx context.Context, fromChain, toChain string, token entity.Token, unitPrice decimal.Decimal) (entity.FeeSet, error) {
			feeCalls.Add(1)
			return entity.FeeSet{feeOpt("low", "0.1", "1.2")}, nil
		},
	}
	session := newTestSession(&mocks.PriceOracleMock{}, provider)

	session.SetToken(atomToken())
	require.Eventually(t, func() bool {
		return session.Snapshot().Price.State == entity.PriceNeedsManual
	}, waitFor, tick)

	session.InputManualPrice("12.5")

	assert.Never(t, func() bool {
		return feeCalls.Load() > 0
	}, 200*time.Millisecond, tick)

	session.SetRoute("osmosis", "ethereum")
	require.Eventually(t, func() bool {
		return len(session.Snapshot().Fees) == 1
	}, waitFor, tick)
}

func TestClickFeeIsUnconditional(t *testing.T) {
	session := newTestSession(fixedPriceOracle("12"), fixedFeeProvider(entity.FeeSet{feeOpt("low", "0.1", "1.2")}))

	session.SetRoute("osmosis", "ethereum")
	session.SetToken(atomToken())
	require.Eventually(t, func() bool {
		return len(session.Snapshot().Fees) == 1
	}, waitFor, tick)

	clicked := feeOpt("custom", "3", "36")
	session.ClickFee(clicked)

	view := session.Snapshot()
	require.NotNil(t, view.Selection)
	assert.True(t, view.Selection.Equal(clicked))
}

func TestSnapshotAffordabilityAndMaxAmount(t *testing.T) {
	set := entity.FeeSet{feeOpt("low", "1", "12"), feeOpt("high", "60", "720")}
	session := newTestSession(fixedPriceOracle("12"), fixedFeeProvider(set))

	session.SetRoute("osmosis", "ethereum")
	session.SetToken(atomToken())
	require.Eventually(t, func() bool {
		return len(session.Snapshot().Fees) == 2
	}, waitFor, tick)

	session.SetBalance("100")
	session.SetAmount("50")

	view := session.Snapshot()
	assert.Equal(t, []bool{false, true}, view.Disabled)
	require.NotNil(t, view.Selection)
	// (100 - 1) / 1.002 truncated to 6 places for the selected low fee
	assert.Equal(t, "98.802395", view.MaxAmount)

	// amount changes never empty the fee set, only the annotations react
	session.SetAmount("not-a-number")
	view = session.Snapshot()
	assert.Len(t, view.Fees, 2)
	assert.Equal(t, []bool{true, true}, view.Disabled)
}
