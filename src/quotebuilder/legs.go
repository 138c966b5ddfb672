package quotebuilder

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
	"github.com/jiaming2012/quote-builder/src/expiry"
	"github.com/jiaming2012/quote-builder/src/precision"
)

type legContext struct {
	req          eventmodels.PricedQuoteInput
	counterparty eventmodels.CounterParty
	pair         eventmodels.CurrencyPair
	now          time.Time
}

// legBuilder fills the kind specific fields of the dealer leg. Amount, parties and ids are
// already set; the mirrored leg is derived afterwards.
type legBuilder interface {
	fill(leg *eventmodels.Quote, ctx legContext) error
}

func legsFor(kind eventmodels.QuoteKind) legBuilder {
	switch kind {
	case eventmodels.QuoteKindSpot:
		return spotLegs{}
	case eventmodels.QuoteKindFuture:
		return futureLegs{}
	default:
		return optionLegs{}
	}
}

type optionLegs struct{}

func (optionLegs) fill(leg *eventmodels.Quote, ctx legContext) error {
	strike := ctx.req.Strike
	if strike <= 0 {
		if ctx.req.Spot <= 0 {
			return fmt.Errorf("optionLegs: no strike and no spot to derive it from: %w", eventmodels.ErrInvalidSpot)
		}

		strike = StrikeFromOffstrike(ctx.req.Spot, ctx.req.OffstrikePercentage, ctx.pair)
	}

	tradeExpiry, loc, err := tradeExpiry(ctx)
	if err != nil {
		return fmt.Errorf("optionLegs: %w", err)
	}

	leg.OptionKind = ctx.req.OptionKind
	leg.Spot = ctx.req.Spot
	leg.Strike = strike
	leg.ExpiryTimestamp = expiry.FormatWire(tradeExpiry)
	leg.InstrumentName = eventmodels.NewInstrumentName(ctx.pair.Base.Ticker, tradeExpiry.In(loc), strike, ctx.req.OptionKind)
	leg.PxInBaseCcy = ctx.req.PxInBaseCcy
	leg.PxInQuoteCcy = ctx.req.PxInQuoteCcy
	leg.Delta = ctx.req.Delta
	leg.Gamma = ctx.req.Gamma
	leg.Theta = ctx.req.Theta

	return nil
}

type spotLegs struct{}

func (spotLegs) fill(leg *eventmodels.Quote, ctx legContext) error {
	price, err := linearPrice(ctx.req)
	if err != nil {
		return fmt.Errorf("spotLegs: %w", err)
	}

	leg.TTM = 0
	leg.InstrumentName = eventmodels.NewSpotInstrumentName(ctx.pair)
	fillLinear(leg, price)

	return nil
}

type futureLegs struct{}

func (futureLegs) fill(leg *eventmodels.Quote, ctx legContext) error {
	price, err := linearPrice(ctx.req)
	if err != nil {
		return fmt.Errorf("futureLegs: %w", err)
	}

	tradeExpiry, loc, err := tradeExpiry(ctx)
	if err != nil {
		return fmt.Errorf("futureLegs: %w", err)
	}

	leg.ExpiryTimestamp = expiry.FormatWire(tradeExpiry)
	leg.InstrumentName = eventmodels.NewFutureInstrumentName(ctx.pair.Base.Ticker, tradeExpiry.In(loc))
	fillLinear(leg, price)

	return nil
}

// linearPrice is the traded price of a spot or future, falling back to spot.
func linearPrice(req eventmodels.PricedQuoteInput) (float64, error) {
	price := req.Price
	if price == 0 {
		price = req.Spot
	}

	if price <= 0 {
		return 0, fmt.Errorf("price %v: %w", price, eventmodels.ErrInvalidSpot)
	}

	return price, nil
}

// fillLinear values a delta-one leg: base premium is the signed amount and quote premium its
// notional at price.
func fillLinear(leg *eventmodels.Quote, price float64) {
	leg.OptionKind = ""
	leg.Spot = price
	leg.Strike = price
	leg.PxInBaseCcy = leg.Amount
	leg.PxInQuoteCcy = decimal.NewFromFloat(leg.Amount).Mul(decimal.NewFromFloat(price)).InexactFloat64()
	leg.Delta = leg.Amount
	leg.Gamma = 0
	leg.Theta = 0
}

func tradeExpiry(ctx legContext) (time.Time, *time.Location, error) {
	loc, err := ctx.counterparty.Location()
	if err != nil {
		return time.Time{}, nil, err
	}

	entered := ctx.req.Expiry
	if entered == "" {
		if ctx.req.TTM <= 0 {
			return time.Time{}, nil, fmt.Errorf("no expiry and ttm %v: %w", ctx.req.TTM, eventmodels.ErrInvalidExpiry)
		}

		entered = expiry.ExpirationFromTTM(ctx.now, ctx.req.TTM).In(loc).Format(expiry.WireLayout)
	}

	t, err := expiry.TradeExpiry(entered, ctx.counterparty.SettlementTimeOfDay(), loc)
	if err != nil {
		return time.Time{}, nil, err
	}

	return t, loc, nil
}

// StrikeFromOffstrike is spot moved by offstrikePercentage percent, floored onto the quote tick.
func StrikeFromOffstrike(spot, offstrikePercentage float64, pair eventmodels.CurrencyPair) float64 {
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(offstrikePercentage).Div(decimal.NewFromInt(100)))
	strike := decimal.NewFromFloat(spot).Mul(factor).InexactFloat64()

	return precision.RoundToSpec(strike, pair.QuoteTickSize(), pair.QuoteOrderSize(), precision.RoundFloor, false)
}
