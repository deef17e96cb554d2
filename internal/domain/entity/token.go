package entity

// ChainFamily tags which family of chains a token lives on.
type ChainFamily string

const (
	// ChainFamilyEVM marks tokens on EVM-style chains.
	ChainFamilyEVM ChainFamily = "evm"
	// ChainFamilyCosmos marks tokens on Cosmos-style chains.
	ChainFamilyCosmos ChainFamily = "cosmos"
)

// Token identifies a fungible asset on one of the supported chain families.
// Values are immutable once constructed. Identity for reconciliation purposes
// is symbol + chain family.
type Token interface {
	Family() ChainFamily
	TokenSymbol() string
	// PriceDenom returns the denomination this token is looked up under on the
	// price feed. Defaults to the token's own symbol/denom when no explicit
	// override is set.
	PriceDenom() string
	TokenDecimals() uint8
}

// EvmToken describes a token on an EVM-style chain.
type EvmToken struct {
	Symbol          string `json:"symbol" yaml:"symbol"`
	ContractAddress string `json:"contractAddress" yaml:"contractAddress"`
	PriceLookup     string `json:"priceLookup,omitempty" yaml:"priceLookup,omitempty"`
	Decimals        uint8  `json:"decimals" yaml:"decimals"`
}

// Family implements Token.
func (t EvmToken) Family() ChainFamily { return ChainFamilyEVM }

// TokenSymbol implements Token.
func (t EvmToken) TokenSymbol() string { return t.Symbol }

// PriceDenom implements Token.
func (t EvmToken) PriceDenom() string {
	if t.PriceLookup != "" {
		return t.PriceLookup
	}
	return t.Symbol
}

// TokenDecimals implements Token.
func (t EvmToken) TokenDecimals() uint8 { return t.Decimals }

// CosmosToken describes a token on a Cosmos-style chain.
type CosmosToken struct {
	Symbol      string `json:"symbol" yaml:"symbol"`
	BaseDenom   string `json:"baseDenom" yaml:"baseDenom"`
	PriceLookup string `json:"priceLookup,omitempty" yaml:"priceLookup,omitempty"`
	Decimals    uint8  `json:"decimals" yaml:"decimals"`
}

// Family implements Token.
func (t CosmosToken) Family() ChainFamily { return ChainFamilyCosmos }

// TokenSymbol implements Token.
func (t CosmosToken) TokenSymbol() string { return t.Symbol }

// PriceDenom implements Token.
func (t CosmosToken) PriceDenom() string {
	if t.PriceLookup != "" {
		return t.PriceLookup
	}
	if t.BaseDenom != "" {
		return t.BaseDenom
	}
	return t.Symbol
}

// TokenDecimals implements Token.
func (t CosmosToken) TokenDecimals() uint8 { return t.Decimals }

// SameToken reports whether two tokens denote the same asset (symbol + chain family).
func SameToken(a, b Token) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Family() == b.Family() && a.TokenSymbol() == b.TokenSymbol()
}
