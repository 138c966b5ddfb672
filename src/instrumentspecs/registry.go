package instrumentspecs

import (
	"fmt"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
)

var (
	ErrDuplicateInstrumentSpec = fmt.Errorf("duplicate instrument spec")
	ErrInvalidInstrumentSpec   = fmt.Errorf("invalid instrument spec")
)

// Registry is the read-only venue specification table, keyed by (ticker, instrument type).
// It is safe to share across goroutines once built.
type Registry struct {
	specs []eventmodels.InstrumentSpec
}

func NewRegistry(specs []eventmodels.InstrumentSpec) (*Registry, error) {
	seen := make(map[string]struct{}, len(specs))

	for i, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("NewRegistry: row %d: %v: %w", i, err, ErrInvalidInstrumentSpec)
		}

		key := spec.Ticker + "/" + spec.InstrumentType
		if _, found := seen[key]; found {
			return nil, fmt.Errorf("NewRegistry: row %d: %s: %w", i, key, ErrDuplicateInstrumentSpec)
		}

		seen[key] = struct{}{}
	}

	return &Registry{specs: append([]eventmodels.InstrumentSpec(nil), specs...)}, nil
}

// Resolve returns the limits of the first row matching ticker and instrumentType exactly.
func (r *Registry) Resolve(ticker, instrumentType string) (eventmodels.LimitAndPrecision, bool) {
	if r == nil {
		return eventmodels.LimitAndPrecision{}, false
	}

	for _, spec := range r.specs {
		if spec.Ticker == ticker && spec.InstrumentType == instrumentType {
			return spec.LimitAndPrecision(), true
		}
	}

	return eventmodels.LimitAndPrecision{}, false
}

func (r *Registry) ResolveOrDefault(ticker, instrumentType string, defaultTick, defaultLot float64) eventmodels.LimitAndPrecision {
	if limits, ok := r.Resolve(ticker, instrumentType); ok {
		return limits
	}

	return eventmodels.LimitAndPrecision{
		TickSize:  defaultTick,
		OrderSize: defaultLot,
	}
}

// ResolveWithFallback falls back to eventmodels.DefaultLimitAndPrecision.
func (r *Registry) ResolveWithFallback(ticker, instrumentType string) eventmodels.LimitAndPrecision {
	def := eventmodels.DefaultLimitAndPrecision()
	return r.ResolveOrDefault(ticker, instrumentType, def.TickSize, def.OrderSize)
}

func (r *Registry) Specs() []eventmodels.InstrumentSpec {
	if r == nil {
		return nil
	}

	return append([]eventmodels.InstrumentSpec(nil), r.specs...)
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}

	return len(r.specs)
}
