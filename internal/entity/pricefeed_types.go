package entity

// PriceFeedResponse is the wire shape of the price feed's unit-price endpoint.
// Price is a decimal string; an empty string means the feed has no data for
// the requested denom.
type PriceFeedResponse struct {
	Denom      string `json:"denom"`
	VsCurrency string `json:"vsCurrency"`
	Price      string `json:"price"`
}
