package eventmodels

type QuoteOptionResponse struct {
	Data QuoteOptionData `json:"data"`
}

type QuoteOptionData struct {
	PxInBaseCcy  float64 `json:"px_in_base_ccy"`
	PxInQuoteCcy float64 `json:"px_in_quote_ccy"`
	Greeks       Greeks  `json:"greeks"`
}

// Apply copies the priced premiums and greeks onto in.
func (d QuoteOptionData) Apply(in PricedQuoteInput) PricedQuoteInput {
	in.PxInBaseCcy = d.PxInBaseCcy
	in.PxInQuoteCcy = d.PxInQuoteCcy
	in.Greeks = d.Greeks
	return in
}
