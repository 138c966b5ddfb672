package eventmodels

import (
	"fmt"
	"math"
)

type LimitAndPrecision struct {
	TickSize  float64 `json:"tick_size" yaml:"tick_size" env:"TICK_SIZE"`
	OrderSize float64 `json:"order_size" yaml:"order_size" env:"ORDER_SIZE"`
}

func DefaultLimitAndPrecision() LimitAndPrecision {
	return LimitAndPrecision{
		TickSize:  0.0001,
		OrderSize: 0.1,
	}
}

func (l LimitAndPrecision) Validate() error {
	if !isPositiveFinite(l.TickSize) || !isPositiveFinite(l.OrderSize) {
		return fmt.Errorf("tick size %v, order size %v: %w", l.TickSize, l.OrderSize, ErrInvalidLimits)
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func isPositiveFinite(v float64) bool {
	return isFinite(v) && v > 0
}
