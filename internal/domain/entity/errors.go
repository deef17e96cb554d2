package entity

import (
	"errors"
	"strings"
)

// ErrPriceUnavailable signals the price feed has no data for a token. It is
// recovered locally by switching to manual entry and is never surfaced as a
// hard error.
var ErrPriceUnavailable = errors.New("price unavailable")

// User-facing messages for fee-quote failures. No failure in this core is
// ever fatal to the hosting process; everything degrades to an empty fee set
// plus one of these.
const (
	MsgConnectWallet  = "Connect wallet to calculate fees"
	MsgFeeQuoteFailed = "Error calculating fees. Please try again."
)

// walletPreconditionMarkers are substrings the quote provider embeds in its
// error body when a wallet or gas-price precondition was unmet.
var walletPreconditionMarkers = []string{
	"wallet",
	"gas price",
	"gas_price",
}

// IsWalletPreconditionError reports whether a fee-quote failure indicates an
// unmet wallet/gas-price precondition rather than a generic provider error.
func IsWalletPreconditionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range walletPreconditionMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// ClassifyFeeQuoteError maps a fee-quote failure to its user-facing message.
func ClassifyFeeQuoteError(err error) string {
	if err == nil {
		return ""
	}
	if IsWalletPreconditionError(err) {
		return MsgConnectWallet
	}
	return MsgFeeQuoteFailed
}
