// Package feemath holds the pure arithmetic of bridge-transfer fee schedules.
// All amounts are arbitrary-precision base-10 decimals; binary floating point
// is never used for money.
package feemath

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// chainFeeRate is the fixed protocol-level fee: 0.2% of the transfer amount.
	chainFeeRate = decimal.New(2, -3) // 0.002
	// costFactor is 1 + chainFeeRate, the multiplier solving
	// balance = amount + bridgeFee + amount*0.002 for amount.
	costFactor = decimal.New(1002, -3) // 1.002
)

// ParseError reports a malformed decimal input. Call sites must treat the
// value as unusable rather than crash.
type ParseError struct {
	Field string
	Input string
	Err   error
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed decimal for %s: %q", e.Field, e.Input)
}

// Unwrap returns the underlying parse failure.
func (e *ParseError) Unwrap() error { return e.Err }

// ParseDecimal parses input as an exact decimal, wrapping failures in a
// ParseError naming the field.
func ParseDecimal(field, input string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(input)
	if err != nil {
		return decimal.Decimal{}, &ParseError{Field: field, Input: input, Err: err}
	}
	return d, nil
}

// ChainFee returns the protocol-level fee for a bridge amount: amount × 0.002.
// No rounding is applied at this stage.
func ChainFee(bridgeAmount decimal.Decimal) decimal.Decimal {
	return bridgeAmount.Mul(chainFeeRate)
}

// TotalBridgeCost returns the full cost of a transfer:
// amount + bridge fee + chain fee.
func TotalBridgeCost(bridgeAmount, bridgeFee decimal.Decimal) decimal.Decimal {
	return bridgeAmount.Add(bridgeFee).Add(ChainFee(bridgeAmount))
}

// IsInsufficientBalance reports whether the balance cannot cover the full
// transfer cost. Strict comparison: an exactly-equal balance is sufficient.
func IsInsufficientBalance(balance, bridgeAmount, bridgeFee decimal.Decimal) bool {
	return balance.LessThan(TotalBridgeCost(bridgeAmount, bridgeFee))
}

// MaxBridgeAmount solves balance = amount + bridgeFee + amount×0.002 for the
// largest amount, truncated toward zero to decimals places. Returns exactly 0
// when balance − bridgeFee ≤ 0; never negative.
func MaxBridgeAmount(balance, bridgeFee decimal.Decimal, decimals int32) decimal.Decimal {
	headroom := balance.Sub(bridgeFee)
	if headroom.Sign() <= 0 {
		return decimal.Zero
	}
	// divide with headroom beyond the target precision so the rounded quotient
	// is within one ulp of the true value before truncation
	amount := headroom.DivRound(costFactor, decimals+4).Truncate(decimals)
	// DivRound rounds half away from zero; if that lands the quotient just
	// above a truncation boundary the truncated amount can still overspend by
	// one ulp.
	for amount.Sign() > 0 && IsInsufficientBalance(balance, amount, bridgeFee) {
		amount = amount.Sub(decimal.New(1, -decimals))
	}
	if amount.Sign() < 0 {
		return decimal.Zero
	}
	return amount
}
