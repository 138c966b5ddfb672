package eventmodels

// QuoteOptionRequest is sent to the pricing provider.
type QuoteOptionRequest struct {
	OptionKind OptionKind `json:"option_kind"`
	Amount     float64    `json:"amount"`
	Strike     float64    `json:"strike"`
	TTM        float64    `json:"ttm"`
	Spot       *float64   `json:"spot,omitempty"`
	R1         *float64   `json:"r1,omitempty"`
	R2         *float64   `json:"r2,omitempty"`
	IV         *float64   `json:"iv,omitempty"`
	Side       QuoteSide  `json:"side"`
}

// NewQuoteOptionRequest prices in as entered. Zero market inputs are left for the provider to fill.
func NewQuoteOptionRequest(in PricedQuoteInput) QuoteOptionRequest {
	req := QuoteOptionRequest{
		OptionKind: in.OptionKind,
		Amount:     in.Amount,
		Strike:     in.Strike,
		TTM:        in.TTM,
		Side:       in.Side,
	}

	if in.Spot > 0 {
		req.Spot = &in.Spot
	}

	if in.R1 != 0 {
		req.R1 = &in.R1
	}

	if in.R2 != 0 {
		req.R2 = &in.R2
	}

	if in.IV > 0 {
		req.IV = &in.IV
	}

	return req
}
