package eventmodels

import "fmt"

type CurrencyID uint16

type Currency struct {
	ID               CurrencyID                    `json:"id" yaml:"id"`
	Ticker           string                        `json:"ticker" yaml:"ticker"`
	Name             string                        `json:"name" yaml:"name"`
	InstrumentOption OptionInstrumentSpecification `json:"instrument_option" yaml:"instrument_option"`
}

func (c Currency) TickSize() float64 {
	return c.InstrumentOption.MinPriceIncrement
}

func (c Currency) OrderSize() float64 {
	return c.InstrumentOption.MinContractIncrement
}

func (c Currency) Validate() error {
	if c.Ticker == "" {
		return fmt.Errorf("Currency.Validate: missing ticker for currency %d", c.ID)
	}

	if err := c.InstrumentOption.Validate(); err != nil {
		return fmt.Errorf("Currency.Validate: %s: %w", c.Ticker, err)
	}

	return nil
}
