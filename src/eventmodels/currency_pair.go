package eventmodels

import "fmt"

type CurrencyPairID uint16

type CurrencyPair struct {
	ID    CurrencyPairID `json:"id" yaml:"id"`
	Name  string         `json:"name" yaml:"name"`
	Base  Currency       `json:"base" yaml:"base"`
	Quote Currency       `json:"quote" yaml:"quote"`
}

// CoinbaseName renders the pair as BASE-QUOTE.
func (p CurrencyPair) CoinbaseName() string {
	return fmt.Sprintf("%s-%s", p.Base.Ticker, p.Quote.Ticker)
}

func (p CurrencyPair) CurrencyByTicker(ticker string) (Currency, bool) {
	switch ticker {
	case p.Base.Ticker:
		return p.Base, true
	case p.Quote.Ticker:
		return p.Quote, true
	}

	return Currency{}, false
}

func (p CurrencyPair) CurrencyByID(id CurrencyID) (Currency, bool) {
	switch id {
	case p.Base.ID:
		return p.Base, true
	case p.Quote.ID:
		return p.Quote, true
	}

	return Currency{}, false
}

// IsQuoteCurrency reports whether ccy is the pair's quote leg rather than its base.
func (p CurrencyPair) IsQuoteCurrency(ccy Currency) bool {
	return ccy.ID == p.Quote.ID && ccy.ID != p.Base.ID
}

func (p CurrencyPair) BaseTickSize() float64 {
	return p.Base.TickSize()
}

func (p CurrencyPair) BaseOrderSize() float64 {
	return p.Base.OrderSize()
}

func (p CurrencyPair) QuoteTickSize() float64 {
	return p.Quote.TickSize()
}

func (p CurrencyPair) QuoteOrderSize() float64 {
	return p.Quote.OrderSize()
}

func (p CurrencyPair) Validate() error {
	if err := p.Base.Validate(); err != nil {
		return fmt.Errorf("CurrencyPair.Validate: %s base: %w", p.Name, err)
	}

	if err := p.Quote.Validate(); err != nil {
		return fmt.Errorf("CurrencyPair.Validate: %s quote: %w", p.Name, err)
	}

	return nil
}
