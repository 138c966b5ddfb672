package eventmodels

import "fmt"

type QuoteSide string

const (
	QuoteSideBuy  QuoteSide = "Buy"
	QuoteSideSell QuoteSide = "Sell"
)

func (s QuoteSide) Validate() error {
	switch s {
	case QuoteSideBuy, QuoteSideSell:
		return nil
	}

	return fmt.Errorf("%q: %w", s, ErrInvalidSide)
}

func (s QuoteSide) Opposite() QuoteSide {
	if s == QuoteSideBuy {
		return QuoteSideSell
	}

	return QuoteSideBuy
}

// Sign is +1 for a buy and -1 for a sell.
func (s QuoteSide) Sign() float64 {
	if s == QuoteSideSell {
		return -1
	}

	return 1
}
