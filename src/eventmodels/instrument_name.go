package eventmodels

import (
	"fmt"
	"strings"
	"time"
)

type InstrumentName string

// NewInstrumentName builds BASE-DMONYY-STRIKE-K, e.g. BTC-14MAR23-62034-C.
// The day is not zero padded and the strike is truncated toward zero.
func NewInstrumentName(base string, expiry time.Time, strike float64, optionKind OptionKind) InstrumentName {
	name := fmt.Sprintf("%s-%s-%d-%s", base, expiryCode(expiry), int64(strike), optionKind.Code())
	return InstrumentName(strings.ToUpper(name))
}

// NewFutureInstrumentName builds BASE-DMONYY, e.g. BTC-14MAR23.
func NewFutureInstrumentName(base string, expiry time.Time) InstrumentName {
	name := fmt.Sprintf("%s-%s", base, expiryCode(expiry))
	return InstrumentName(strings.ToUpper(name))
}

// NewSpotInstrumentName builds BASE-QUOTE.
func NewSpotInstrumentName(pair CurrencyPair) InstrumentName {
	return InstrumentName(strings.ToUpper(pair.CoinbaseName()))
}

func expiryCode(expiry time.Time) string {
	return fmt.Sprintf("%d%s%02d", expiry.Day(), expiry.Format("Jan"), expiry.Year()%100)
}
