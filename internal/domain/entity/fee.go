package entity

import "github.com/shopspring/decimal"

// FeeOption is one fee choice returned by the quote provider. Options are
// immutable once received; a fresh fetch produces an entirely new set that
// supersedes the old one.
type FeeOption struct {
	ID         string          // opaque, provider-assigned identifier
	Label      string          // human-readable label
	Amount     decimal.Decimal // fee amount in token units
	Denom      string          // fee denomination symbol
	FiatAmount decimal.Decimal // fiat-equivalent amount
}

// Equal reports whether two options are the same fee. Every field of the
// tuple must match exactly.
func (f FeeOption) Equal(other FeeOption) bool {
	return f.ID == other.ID &&
		f.Label == other.Label &&
		f.Denom == other.Denom &&
		f.Amount.Equal(other.Amount) &&
		f.FiatAmount.Equal(other.FiatAmount)
}

// FeeSet is the provider-ordered sequence of fee options. An empty set is a
// valid state (no wallet connectivity, or price not usable). The first
// element is the default selection when no prior selection exists.
type FeeSet []FeeOption

// FindByID returns the option carrying the given provider identifier.
func (s FeeSet) FindByID(id string) (FeeOption, bool) {
	for _, opt := range s {
		if opt.ID == id {
			return opt, true
		}
	}
	return FeeOption{}, false
}

// ReconcileSelection re-derives the current selection from a freshly fetched
// fee set, using the previous selection's identifier as a hint:
//   - previous identifier still present: the NEW option value at that
//     identifier, even if other fields changed;
//   - previous identifier absent, set non-empty: the set's first element;
//   - empty set: no selection.
func ReconcileSelection(prev *FeeOption, set FeeSet) *FeeOption {
	if len(set) == 0 {
		return nil
	}
	if prev != nil {
		if opt, ok := set.FindByID(prev.ID); ok {
			return &opt
		}
	}
	first := set[0]
	return &first
}

// QuoteView is the full tuple the presentation layer consumes: it renders
// whatever state is in here and forwards user input back into the core.
type QuoteView struct {
	Price        ResolvedPrice
	Fees         FeeSet
	Selection    *FeeOption
	Disabled     []bool // parallel to Fees; true = selecting would exceed balance
	MaxAmount    string // largest affordable bridge amount for the selection, if computable
	ErrorMessage string
}
