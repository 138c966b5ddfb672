package eventmodels

import "fmt"

var (
	ErrSpecNotFound        = fmt.Errorf("instrument spec not found")
	ErrInvalidExpiry       = fmt.Errorf("invalid expiry timestamp")
	ErrInvalidTimeOfDay    = fmt.Errorf("invalid settlement time of day: expected HH:MM:SS")
	ErrInvalidTimezone     = fmt.Errorf("invalid counterparty timezone")
	ErrAmountBelowMinimum  = fmt.Errorf("amount is below the minimum order size")
	ErrInvalidLimits       = fmt.Errorf("tick size and order size must be positive")
	ErrInvalidSpot         = fmt.Errorf("spot price must be positive")
	ErrNonFiniteInput      = fmt.Errorf("input must be a finite number")
	ErrInvalidQuoteKind    = fmt.Errorf("invalid quote kind")
	ErrInvalidOptionKind   = fmt.Errorf("invalid option kind")
	ErrInvalidSide         = fmt.Errorf("invalid quote side")
	ErrInvalidPayoutCcy    = fmt.Errorf("invalid payout currency")
	ErrInvalidCounterParty = fmt.Errorf("invalid counterparty")
	ErrMirrorInvariant     = fmt.Errorf("mirrored legs do not agree")
	ErrGroupNotFound       = fmt.Errorf("quote group not found")
	ErrDuplicateGroup      = fmt.Errorf("quote group already exists")
	ErrIncompletePair      = fmt.Errorf("quote group must contain exactly two legs")
	ErrSessionNotFound     = fmt.Errorf("quote session not found")
)
