package eventmodels

import "fmt"

type PayoutCcy string

const (
	PayoutCcyBase  PayoutCcy = "base"
	PayoutCcyQuote PayoutCcy = "quote"
)

func (p PayoutCcy) Validate() error {
	switch p {
	case PayoutCcyBase, PayoutCcyQuote:
		return nil
	}

	return fmt.Errorf("%q: %w", p, ErrInvalidPayoutCcy)
}
