package eventmodels

import "fmt"

type QuoteKind string

const (
	QuoteKindSpot   QuoteKind = "Spot"
	QuoteKindOption QuoteKind = "Option"
	QuoteKindFuture QuoteKind = "Future"
)

func (k QuoteKind) Validate() error {
	switch k {
	case QuoteKindSpot, QuoteKindOption, QuoteKindFuture:
		return nil
	}

	return fmt.Errorf("%q: %w", k, ErrInvalidQuoteKind)
}

// InstrumentType is the key used against the instrument spec table.
func (k QuoteKind) InstrumentType() string {
	switch k {
	case QuoteKindSpot:
		return "spot"
	case QuoteKindOption:
		return "option"
	case QuoteKindFuture:
		return "future"
	}

	return ""
}
