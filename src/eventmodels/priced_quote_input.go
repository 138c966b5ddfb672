package eventmodels

import "fmt"

// PricedQuoteInput is one economically priced quote as entered by the desk, with premiums and
// greeks already supplied by the pricing provider. Amount is unsigned; Side is the dealer's side.
type PricedQuoteInput struct {
	Kind       QuoteKind  `json:"kind"`
	OptionKind OptionKind `json:"option_kind,omitempty"`
	Side       QuoteSide  `json:"side"`

	Amount    float64    `json:"amount"`
	AmountCcy CurrencyID `json:"amount_ccy"`

	Strike              float64 `json:"strike"`
	OffstrikePercentage float64 `json:"offstrike_percentage"`
	TTM                 float64 `json:"ttm"`
	Spot                float64 `json:"spot"`
	Price               float64 `json:"price"`
	R1                  float64 `json:"r1"`
	R2                  float64 `json:"r2"`
	IV                  float64 `json:"iv"`

	PxInBaseCcy  float64 `json:"px_in_base_ccy"`
	PxInQuoteCcy float64 `json:"px_in_quote_ccy"`
	Greeks

	// Expiry is the contract expiry date in any accepted timestamp layout. When empty the
	// expiry is derived from TTM.
	Expiry string `json:"expiry,omitempty"`

	// QuoteExpiryMinutes of zero marks the quote good-till-canceled.
	QuoteExpiryMinutes uint16 `json:"quote_expiry_minutes"`

	PayoutCcy PayoutCcy `json:"payout_ccy,omitempty"`
}

func (in PricedQuoteInput) Validate() error {
	if err := in.Kind.Validate(); err != nil {
		return fmt.Errorf("PricedQuoteInput.Validate: %w", err)
	}

	if err := in.Side.Validate(); err != nil {
		return fmt.Errorf("PricedQuoteInput.Validate: %w", err)
	}

	if in.Kind == QuoteKindOption {
		if err := in.OptionKind.Validate(); err != nil {
			return fmt.Errorf("PricedQuoteInput.Validate: %w", err)
		}
	}

	numbers := []struct {
		name  string
		value float64
	}{
		{"amount", in.Amount},
		{"strike", in.Strike},
		{"offstrike_percentage", in.OffstrikePercentage},
		{"ttm", in.TTM},
		{"spot", in.Spot},
		{"price", in.Price},
		{"r1", in.R1},
		{"r2", in.R2},
		{"iv", in.IV},
		{"px_in_base_ccy", in.PxInBaseCcy},
		{"px_in_quote_ccy", in.PxInQuoteCcy},
		{"delta", in.Delta},
		{"gamma", in.Gamma},
		{"theta", in.Theta},
	}

	for _, n := range numbers {
		if !isFinite(n.value) {
			return fmt.Errorf("PricedQuoteInput.Validate: %s is %v: %w", n.name, n.value, ErrNonFiniteInput)
		}
	}

	if in.PayoutCcy != "" {
		if err := in.PayoutCcy.Validate(); err != nil {
			return fmt.Errorf("PricedQuoteInput.Validate: %w", err)
		}
	}

	return nil
}
