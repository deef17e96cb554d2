package entity

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// PriceState enumerates the variants of ResolvedPrice.
type PriceState int

const (
	// PriceLoading means an oracle query for the current token is in flight.
	PriceLoading PriceState = iota
	// PriceFromOracle means the oracle returned a positive, well-formed price.
	PriceFromOracle
	// PriceNeedsManual means the oracle had no data and the user must enter
	// a price by hand.
	PriceNeedsManual
	// PriceUnavailable means no token is selected yet.
	PriceUnavailable
)

// String returns the lowercase name of the state for logs and API responses.
func (s PriceState) String() string {
	switch s {
	case PriceLoading:
		return "loading"
	case PriceFromOracle:
		return "from_oracle"
	case PriceNeedsManual:
		return "needs_manual"
	case PriceUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// manualPriceInputRe is the keystroke grammar for manual price entry: a partial
// or complete non-negative decimal literal.
var manualPriceInputRe = regexp.MustCompile(`^[0-9]*\.?[0-9]*$`)

// MatchesManualPriceInput reports whether raw is an acceptable manual price
// keystroke state. Inputs that do not match must be ignored by the caller.
func MatchesManualPriceInput(raw string) bool {
	return manualPriceInputRe.MatchString(raw)
}

// ResolvedPrice is the current fiat unit-price state for the selected token.
// Exactly one variant holds at any time; transitions happen only on token
// change or on a resolution completing or failing.
type ResolvedPrice struct {
	State       PriceState
	OraclePrice decimal.Decimal // set iff State == PriceFromOracle
	ManualInput string          // raw manual entry, set iff State == PriceNeedsManual
	ManualValid bool            // manual entry parses as a positive decimal
}

// LoadingPrice returns the state entered when a token is selected.
func LoadingPrice() ResolvedPrice {
	return ResolvedPrice{State: PriceLoading}
}

// OraclePriceOf returns the state for a successfully resolved oracle price.
func OraclePriceOf(price decimal.Decimal) ResolvedPrice {
	return ResolvedPrice{State: PriceFromOracle, OraclePrice: price}
}

// ManualPrice returns the manual-entry state for the given raw input. Validity
// requires the input to parse as a decimal strictly greater than zero.
func ManualPrice(raw string) ResolvedPrice {
	valid := false
	if parsed, err := decimal.NewFromString(raw); err == nil && parsed.IsPositive() {
		valid = true
	}
	return ResolvedPrice{State: PriceNeedsManual, ManualInput: raw, ManualValid: valid}
}

// UnavailablePrice returns the state before any token is selected.
func UnavailablePrice() ResolvedPrice {
	return ResolvedPrice{State: PriceUnavailable}
}

// UsablePrice returns the unit price usable for fee quoting, if one exists:
// the oracle price, or a manual entry parsing as a positive decimal.
func (r ResolvedPrice) UsablePrice() (decimal.Decimal, bool) {
	switch r.State {
	case PriceFromOracle:
		return r.OraclePrice, true
	case PriceNeedsManual:
		if !r.ManualValid {
			return decimal.Decimal{}, false
		}
		parsed, err := decimal.NewFromString(r.ManualInput)
		if err != nil || !parsed.IsPositive() {
			return decimal.Decimal{}, false
		}
		return parsed, true
	}
	return decimal.Decimal{}, false
}
