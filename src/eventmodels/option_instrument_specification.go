package eventmodels

import "fmt"

type OptionInstrumentSpecification struct {
	CcyID                CurrencyID `json:"ccy_id" yaml:"ccy_id"`
	ContractMultiplier   float64    `json:"contract_multiplier" yaml:"contract_multiplier"`
	MinPriceIncrement    float64    `json:"min_price_increment" yaml:"min_price_increment"`
	MinContractIncrement float64    `json:"min_contract_increment" yaml:"min_contract_increment"`
}

func DefaultOptionInstrumentSpecification() OptionInstrumentSpecification {
	return OptionInstrumentSpecification{
		ContractMultiplier:   1,
		MinPriceIncrement:    0.01,
		MinContractIncrement: 0.01,
	}
}

func (s OptionInstrumentSpecification) Validate() error {
	if !isPositiveFinite(s.MinPriceIncrement) || !isPositiveFinite(s.MinContractIncrement) {
		return fmt.Errorf("OptionInstrumentSpecification.Validate: price increment %v, contract increment %v: %w", s.MinPriceIncrement, s.MinContractIncrement, ErrInvalidLimits)
	}

	return nil
}
