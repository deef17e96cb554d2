package feemath

import "bridge_quoter/internal/domain/entity"

// DisabledFlags annotates each option in the fee set with whether selecting
// it would exceed the balance given the currently entered transfer amount:
// disabled = option.Amount + amount > balance, exact decimal comparison.
// Malformed amount or balance input fails safe: every option is disabled.
// The result is parallel to the fee set by index and is recomputed on every
// observation; it never caches.
func DisabledFlags(set entity.FeeSet, amountInput, balanceInput string) []bool {
	flags := make([]bool, len(set))
	if len(set) == 0 {
		return flags
	}

	amount, amountErr := ParseDecimal("amount", amountInput)
	balance, balanceErr := ParseDecimal("balance", balanceInput)
	if amountErr != nil || balanceErr != nil {
		for i := range flags {
			flags[i] = true
		}
		return flags
	}

	for i, opt := range set {
		flags[i] = opt.Amount.Add(amount).GreaterThan(balance)
	}
	return flags
}
