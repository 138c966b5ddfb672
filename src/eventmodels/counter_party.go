package eventmodels

import (
	"fmt"
	"time"
)

const DefaultSettlementTimeOfDay = "10:00:00"

type PartyID uint16

type CounterParty struct {
	ID         PartyID `json:"id" yaml:"id"`
	Ticker     string  `json:"ticker" yaml:"ticker"`
	Name       string  `json:"name" yaml:"name"`
	ShortName  string  `json:"short_name" yaml:"short_name"`
	IsExchange bool    `json:"is_exchange" yaml:"is_exchange"`

	// DefaultExpiry is the settlement time of day, HH:MM:SS, applied to trade expiries.
	DefaultExpiry string `json:"default_expiry" yaml:"default_expiry"`

	// Timezone is an IANA location name. Empty means UTC.
	Timezone string `json:"timezone,omitempty" yaml:"timezone"`
}

func (c CounterParty) SettlementTimeOfDay() string {
	if c.DefaultExpiry == "" {
		return DefaultSettlementTimeOfDay
	}

	return c.DefaultExpiry
}

func (c CounterParty) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("CounterParty.Location: %s: %v: %w", c.Timezone, err, ErrInvalidTimezone)
	}

	return loc, nil
}

func (c CounterParty) String() string {
	if c.ShortName != "" {
		return c.ShortName
	}

	return c.Ticker
}
