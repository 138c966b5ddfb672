package precision

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type RoundMode int

const (
	// RoundDefault rounds half away from zero.
	RoundDefault RoundMode = iota
	RoundCeiling
	RoundFloor
)

func (m RoundMode) String() string {
	switch m {
	case RoundDefault:
		return "default"
	case RoundCeiling:
		return "ceiling"
	case RoundFloor:
		return "floor"
	default:
		return fmt.Sprintf("RoundMode(%d)", int(m))
	}
}

// RoundToSpec returns amount expressed as a whole number of ticks.
//
// When allowNegative is false, any amount below lotSize is clamped to lotSize and mode is ignored.
// Amounts that already sit on a tick are returned untouched. Everything else is divided by the
// tick, rounded according to mode, multiplied back and re-rendered to the tick's decimal places.
// NaN and infinite amounts are returned unchanged. A tickSize or lotSize that is not positive and
// finite is a programming error and panics.
func RoundToSpec(amount, tickSize, lotSize float64, mode RoundMode, allowNegative bool) float64 {
	if !(tickSize > 0) || !(lotSize > 0) || math.IsInf(tickSize, 0) || math.IsInf(lotSize, 0) {
		panic(fmt.Sprintf("precision.RoundToSpec: tick size (%v) and lot size (%v) must be positive", tickSize, lotSize))
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return amount
	}

	if !allowNegative && amount < lotSize {
		return lotSize
	}

	if IsConformant(amount, tickSize) {
		return amount
	}

	tick := decimal.NewFromFloat(tickSize)
	value := decimal.NewFromFloat(amount).Div(tick)

	switch mode {
	case RoundCeiling:
		value = value.Ceil()
	case RoundFloor:
		value = value.Floor()
	default:
		value = value.Round(0)
	}

	return requantize(value.Mul(tick), DecimalPlaces(tickSize))
}

// IsConformant reports whether amount is at least one tick, carries no more decimal places
// than the tick and is an exact multiple of it.
func IsConformant(amount, tickSize float64) bool {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < tickSize {
		return false
	}

	if DecimalPlaces(amount) > DecimalPlaces(tickSize) {
		return false
	}

	return decimal.NewFromFloat(amount).Mod(decimal.NewFromFloat(tickSize)).IsZero()
}

// DecimalPlaces counts the fractional digits of v's shortest round-trip decimal form.
// Whole numbers have zero places.
func DecimalPlaces(v float64) int {
	s := strconv.FormatFloat(v, 'f', -1, 64)

	idx := strings.IndexByte(s, '.')
	if idx < 0 {
		return 0
	}

	return len(s) - idx - 1
}

func requantize(v decimal.Decimal, places int) float64 {
	out, err := strconv.ParseFloat(v.StringFixed(int32(places)), 64)
	if err != nil {
		panic(fmt.Sprintf("precision.requantize: failed to parse %s: %v", v.String(), err))
	}

	// collapse negative zero
	if out == 0 {
		return 0
	}

	return out
}
