package entity

// RelayerFeeRequest is the body sent to the relayer's fee-quote endpoint.
// All amounts on the wire are decimal strings.
type RelayerFeeRequest struct {
	FromChain   string `json:"fromChain"`
	ToChain     string `json:"toChain"`
	TokenSymbol string `json:"tokenSymbol"`
	ChainFamily string `json:"chainFamily"`
	Denom       string `json:"denom"`
	UnitPrice   string `json:"unitPrice"`
}

// RelayerFeeOption is one fee option as returned by the relayer API.
type RelayerFeeOption struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Amount     string `json:"amount"`
	Denom      string `json:"denom"`
	FiatAmount string `json:"fiatAmount"`
}

// RelayerFeeResponse is the wire shape of the relayer's fee-quote endpoint.
// Fee order is provider-defined and must be preserved.
type RelayerFeeResponse struct {
	Fees []RelayerFeeOption `json:"fees"`
}

// RelayerErrorResponse is the relayer's error body. Message may carry
// wallet/gas-price precondition markers used for classification.
type RelayerErrorResponse struct {
	Message string `json:"message"`
}
