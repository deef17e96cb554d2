package port

import "bridge_quoter/internal/domain/entity"

// QuoteSession is the stateful core behind one bridge-transfer form. The
// presentation layer only consumes Snapshot and feeds user events back in;
// all price resolution and fee reconciliation happens behind this interface.
type QuoteSession interface {
	// SetToken switches the session to a new token: price resolution restarts,
	// manual input, fee set, selection and error state are cleared.
	SetToken(token entity.Token)

	// SetRoute records the (fromChain, toChain) pair and, when a usable price
	// already exists, refreshes the fee set for the new route.
	SetRoute(fromChain, toChain string)

	// SetAmount records the raw transfer-amount input. It never directly
	// touches the fee set; only affordability annotations react to it.
	SetAmount(raw string)

	// SetBalance records the raw balance input.
	SetBalance(raw string)

	// InputManualPrice feeds one manual price keystroke state into the
	// session. Inputs outside the decimal grammar are ignored.
	InputManualPrice(raw string)

	// ClickFee sets the selection to the clicked option unconditionally. The
	// next reconciliation supersedes it if the option disappears.
	ClickFee(option entity.FeeOption)

	// Snapshot returns the current {price, fees, selection, affordability,
	// error} tuple. Affordability is recomputed on every call.
	Snapshot() entity.QuoteView
}
