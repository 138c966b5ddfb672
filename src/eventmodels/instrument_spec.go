package eventmodels

import "fmt"

// InstrumentSpec is one row of the venue specification table.
type InstrumentSpec struct {
	Ticker               string  `json:"ticker" yaml:"ticker" csv:"ticker"`
	InstrumentType       string  `json:"instrument_type" yaml:"instrument_type" csv:"instrument_type"`
	ContractMultiplier   float64 `json:"contract_multiplier" yaml:"contract_multiplier" csv:"contract_multiplier"`
	MinPriceIncrement    float64 `json:"min_price_increment" yaml:"min_price_increment" csv:"min_price_increment"`
	MinContractIncrement float64 `json:"min_contract_increment" yaml:"min_contract_increment" csv:"min_contract_increment"`
}

func (s InstrumentSpec) LimitAndPrecision() LimitAndPrecision {
	return LimitAndPrecision{
		TickSize:  s.MinPriceIncrement,
		OrderSize: s.MinContractIncrement,
	}
}

func (s InstrumentSpec) Validate() error {
	if s.Ticker == "" || s.InstrumentType == "" {
		return fmt.Errorf("InstrumentSpec.Validate: ticker and instrument type are required")
	}

	if err := s.LimitAndPrecision().Validate(); err != nil {
		return fmt.Errorf("InstrumentSpec.Validate: %s/%s: %w", s.Ticker, s.InstrumentType, err)
	}

	return nil
}
